// Package config holds the engine configuration: accidental policy, key
// estimation, catalog source, MIDI export and logging.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-nota/key"
	"github.com/RyanBlaney/sonido-nota/logging"
	"github.com/RyanBlaney/sonido-nota/midiexport"
	"github.com/RyanBlaney/sonido-nota/pitch"
)

// ErrInvalidConfig is returned by Validate and Load for out-of-range values.
var ErrInvalidConfig = errors.New("invalid configuration")

// PreferenceKey makes realization take its accidental preference from a key
// instead of a fixed setting.
const PreferenceKey = "key"

// Config configures a theory context
type Config struct {
	// Accidental policy: "sharps", "flats", "none" or "key"
	Preference string `json:"preference" yaml:"preference"`

	// Key used when Preference is "key" and the caller supplies none
	DefaultKey string `json:"default_key" yaml:"default_key"`

	// Key estimation
	KeyProfile       string  `json:"key_profile" yaml:"key_profile"` // "krumhansl", "temperley", "diatonic", "tonic-triad"
	MaxKeyCandidates int     `json:"max_key_candidates" yaml:"max_key_candidates"`
	BinaryHistogram  bool    `json:"binary_histogram" yaml:"binary_histogram"`
	BassWeight       float64 `json:"bass_weight" yaml:"bass_weight"`

	// Formula catalog file; empty selects the embedded catalog
	CatalogPath string `json:"catalog_path,omitempty" yaml:"catalog_path"`

	MIDI MIDIConfig `json:"midi" yaml:"midi"`

	LogLevel string `json:"log_level" yaml:"log_level"` // "debug", "info", "warn", "error"
}

// MIDIConfig configures Standard MIDI File export
type MIDIConfig struct {
	Channel         int     `json:"channel" yaml:"channel"`
	Velocity        int     `json:"velocity" yaml:"velocity"`
	TicksPerQuarter int     `json:"ticks_per_quarter" yaml:"ticks_per_quarter"`
	NoteTicks       int     `json:"note_ticks" yaml:"note_ticks"`
	Tempo           float64 `json:"tempo" yaml:"tempo"`
	NeutralOctave   int     `json:"neutral_octave" yaml:"neutral_octave"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	opts := midiexport.DefaultOptions()
	return &Config{
		Preference:       "none",
		DefaultKey:       "C-Major",
		KeyProfile:       "krumhansl",
		MaxKeyCandidates: key.DefaultParams().MaxCandidates,
		MIDI: MIDIConfig{
			Channel:         int(opts.Channel),
			Velocity:        int(opts.Velocity),
			TicksPerQuarter: int(opts.TicksPerQuarter),
			Tempo:           opts.Tempo,
			NeutralOctave:   opts.NeutralOctave,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// fields are rejected and an empty document yields the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports the first problem.
func (c *Config) Validate() error {
	_, fromKey, err := c.AccidentalPreference()
	if err != nil {
		return err
	}
	if fromKey || c.DefaultKey != "" {
		if _, err := key.Lookup(c.DefaultKey); err != nil {
			return fmt.Errorf("default key: %v: %w", err, ErrInvalidConfig)
		}
	}
	if _, err := key.ParseProfile(c.KeyProfile); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidConfig)
	}
	if c.MaxKeyCandidates < 1 || c.MaxKeyCandidates > 24 {
		return fmt.Errorf("max key candidates %d: %w", c.MaxKeyCandidates, ErrInvalidConfig)
	}
	if c.BassWeight < 0 {
		return fmt.Errorf("bass weight %v: %w", c.BassWeight, ErrInvalidConfig)
	}
	if c.MIDI.Channel < 0 || c.MIDI.Channel > 15 || c.MIDI.Velocity < 1 || c.MIDI.Velocity > 127 ||
		c.MIDI.TicksPerQuarter < 1 || c.MIDI.TicksPerQuarter > 0xFFFF || c.MIDI.NoteTicks < 0 {
		return fmt.Errorf("midi settings %+v: %w", c.MIDI, ErrInvalidConfig)
	}
	if err := c.MIDIOptions().Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidConfig)
	}
	return nil
}

// AccidentalPreference resolves Preference. fromKey is true when the
// preference must come from a key.
func (c *Config) AccidentalPreference() (pref pitch.Preference, fromKey bool, err error) {
	if strings.EqualFold(strings.TrimSpace(c.Preference), PreferenceKey) {
		return pitch.PreferNone, true, nil
	}
	pref, err = pitch.ParsePreference(c.Preference)
	if err != nil {
		return pitch.PreferNone, false, fmt.Errorf("%v: %w", err, ErrInvalidConfig)
	}
	return pref, false, nil
}

// KeyParams converts the key estimation settings.
func (c *Config) KeyParams() key.Params {
	profile, _ := key.ParseProfile(c.KeyProfile)
	return key.Params{
		Profile:       profile,
		MaxCandidates: c.MaxKeyCandidates,
		BinaryMode:    c.BinaryHistogram,
		WeightBass:    c.BassWeight,
	}
}

// MIDIOptions converts the MIDI settings.
func (c *Config) MIDIOptions() midiexport.Options {
	return midiexport.Options{
		Channel:         uint8(c.MIDI.Channel),
		Velocity:        uint8(c.MIDI.Velocity),
		TicksPerQuarter: uint16(c.MIDI.TicksPerQuarter),
		NoteTicks:       uint32(c.MIDI.NoteTicks),
		Tempo:           c.MIDI.Tempo,
		NeutralOctave:   c.MIDI.NeutralOctave,
	}
}

// Level returns the parsed log level, InfoLevel if it does not parse.
func (c *Config) Level() logging.Level {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return logging.InfoLevel
	}
	return level
}
