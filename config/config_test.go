package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RyanBlaney/sonido-nota/key"
	"github.com/RyanBlaney/sonido-nota/logging"
	"github.com/RyanBlaney/sonido-nota/pitch"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	pref, fromKey, err := cfg.AccidentalPreference()
	if err != nil || fromKey || pref != pitch.PreferNone {
		t.Errorf("AccidentalPreference() = %v, %v, %v", pref, fromKey, err)
	}
	if cfg.Level() != logging.InfoLevel {
		t.Errorf("Level() = %v", cfg.Level())
	}
}

func TestParse(t *testing.T) {
	empty, err := Parse(nil)
	if err != nil {
		t.Fatalf("empty document: %v", err)
	}
	if empty.KeyProfile != "krumhansl" || empty.MIDI.Velocity != 100 {
		t.Errorf("empty document did not yield defaults: %+v", empty)
	}

	doc := `
preference: key
default_key: Eb minor
key_profile: temperley
max_key_candidates: 3
binary_histogram: true
bass_weight: 1.5
midi:
  channel: 9
  tempo: 90
  neutral_octave: 3
log_level: debug
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if _, fromKey, _ := cfg.AccidentalPreference(); !fromKey {
		t.Error("preference key not detected")
	}

	params := cfg.KeyParams()
	if params.Profile != key.ProfileTemperley || params.MaxCandidates != 3 || !params.BinaryMode || params.WeightBass != 1.5 {
		t.Errorf("KeyParams() = %+v", params)
	}

	opts := cfg.MIDIOptions()
	if opts.Channel != 9 || opts.Tempo != 90 || opts.NeutralOctave != 3 || opts.Velocity != 100 || opts.TicksPerQuarter != 960 {
		t.Errorf("MIDIOptions() = %+v", opts)
	}
	if cfg.Level() != logging.DebugLevel {
		t.Errorf("Level() = %v", cfg.Level())
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		invalid bool
	}{
		{"unknown field", "tempo: 90", false},
		{"bad yaml", "preference: [", false},
		{"preference", "preference: naturals", true},
		{"key preference with bad key", "preference: key\ndefault_key: H-Major", true},
		{"bad default key", "default_key: C-Dorian", true},
		{"profile", "key_profile: bayesian", true},
		{"candidates zero", "max_key_candidates: 0", true},
		{"candidates high", "max_key_candidates: 25", true},
		{"bass weight", "bass_weight: -1", true},
		{"channel", "midi:\n  channel: 16", true},
		{"negative channel", "midi:\n  channel: -1", true},
		{"velocity", "midi:\n  velocity: 0", true},
		{"ticks", "midi:\n  ticks_per_quarter: 70000", true},
		{"tempo", "midi:\n  tempo: 0", true},
		{"neutral octave", "midi:\n  neutral_octave: 11", true},
		{"log level", "log_level: loud", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("Parse succeeded")
			}
			if got := errors.Is(err, ErrInvalidConfig); got != tt.invalid {
				t.Errorf("errors.Is(%v, ErrInvalidConfig) = %v, want %v", err, got, tt.invalid)
			}
		})
	}
}

func TestEmptyDefaultKey(t *testing.T) {
	cfg := Default()
	cfg.DefaultKey = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty default key with fixed preference: %v", err)
	}
	cfg.Preference = "Key"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("empty default key with key preference: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nota.yaml")
	if err := os.WriteFile(path, []byte("preference: flats\nlog_level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if pref, _, _ := cfg.AccidentalPreference(); pref != pitch.PreferFlats {
		t.Errorf("preference = %v", pref)
	}
	if cfg.Level() != logging.WarnLevel {
		t.Errorf("level = %v", cfg.Level())
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("max_key_candidates: 99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, ErrInvalidConfig) || !strings.Contains(err.Error(), "bad.yaml") {
		t.Errorf("Load(bad) error = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v", err)
	}
}
