// Package theory ties the pitch engine together: one Context holds the
// spelling lattice, the formula catalog, key estimation, MIDI export and the
// configured accidental policy, and answers the common questions (spell this
// scale, build this chord, name these notes, guess the key) through it.
package theory

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/RyanBlaney/sonido-nota/analysis"
	"github.com/RyanBlaney/sonido-nota/catalog"
	"github.com/RyanBlaney/sonido-nota/config"
	"github.com/RyanBlaney/sonido-nota/formula"
	"github.com/RyanBlaney/sonido-nota/key"
	"github.com/RyanBlaney/sonido-nota/logging"
	"github.com/RyanBlaney/sonido-nota/midiexport"
	"github.com/RyanBlaney/sonido-nota/pitch"
)

var (
	ErrUnknownScale = errors.New("unknown scale")
	ErrUnknownChord = errors.New("unknown chord")
)

// Context is built once by New and is read-only afterwards; it is safe for
// concurrent use.
type Context struct {
	config     *config.Config
	lattice    *pitch.Lattice
	catalog    *catalog.Catalog
	estimator  *key.Estimator
	exporter   *midiexport.Exporter
	preference pitch.Preference
	defaultKey *key.Key // nil unless configured
	fromKey    bool
	logger     logging.Logger
}

// New builds a context from cfg. A nil cfg uses config.Default(). A nil
// logger derives one from the global logger at the configured level.
func New(cfg *config.Config, logger logging.Logger) (*Context, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.WithFields(logging.Fields{"component": "theory"})
		logger.SetLevel(cfg.Level())
	}

	pref, fromKey, err := cfg.AccidentalPreference()
	if err != nil {
		return nil, err
	}

	c := &Context{
		config:     cfg,
		lattice:    pitch.DefaultLattice(),
		estimator:  key.NewEstimator(cfg.KeyParams(), logger.WithFields(logging.Fields{"component": "key_estimator"})),
		preference: pref,
		fromKey:    fromKey,
		logger:     logger,
	}

	if cfg.DefaultKey != "" {
		if c.defaultKey, err = key.Lookup(cfg.DefaultKey); err != nil {
			return nil, err
		}
	}

	if cfg.CatalogPath == "" {
		c.catalog = catalog.Default()
	} else {
		c.catalog, err = catalog.Load(cfg.CatalogPath, logger.WithFields(logging.Fields{"component": "catalog"}))
		if err != nil {
			logger.Error(err, "Failed to load formula catalog", logging.Fields{"path": cfg.CatalogPath})
			return nil, err
		}
	}

	c.exporter, err = midiexport.NewExporter(cfg.MIDIOptions(), logger.WithFields(logging.Fields{"component": "midi_export"}))
	if err != nil {
		return nil, err
	}

	logger.Debug("Theory context ready", logging.Fields{
		"preference":  cfg.Preference,
		"default_key": cfg.DefaultKey,
		"scales":      len(c.catalog.Scales()),
		"chords":      len(c.catalog.Chords()),
	})
	return c, nil
}

func (c *Context) Config() *config.Config    { return c.config }
func (c *Context) Catalog() *catalog.Catalog { return c.catalog }
func (c *Context) Estimator() *key.Estimator { return c.estimator }

// DefaultKey returns the configured key, or nil.
func (c *Context) DefaultKey() *key.Key { return c.defaultKey }

// Key looks up a named key such as "Eb-Minor".
func (c *Context) Key(name string) (*key.Key, error) {
	return key.Lookup(name)
}

// PreferenceSource returns where realization takes its accidental
// preference: k when given, the default key under the "key" policy, else the
// fixed configured preference.
func (c *Context) PreferenceSource(k *key.Key) formula.PreferenceSource {
	switch {
	case k != nil:
		return k
	case c.fromKey:
		return c.defaultKey
	default:
		return formula.Fixed(c.preference)
	}
}

// Spell returns the pitch at range step rs in the configured preference.
// Under the "key" policy the default key decides.
func (c *Context) Spell(rs int) (pitch.Pitch, error) {
	if rs < pitch.MinRangeStep || rs > pitch.MaxRangeStep {
		return pitch.Silent, fmt.Errorf("range step %d: %w", rs, pitch.ErrOutOfRange)
	}
	return c.lattice.Lookup(c.PreferenceSource(nil).AlterationPreference(), rs), nil
}

// Scale realizes the named scale from root.
func (c *Context) Scale(name string, root pitch.Pitch) ([]pitch.Pitch, error) {
	return c.ScaleInKey(name, root, nil)
}

// ScaleInKey realizes the named scale from root, spelled for k.
func (c *Context) ScaleInKey(name string, root pitch.Pitch, k *key.Key) ([]pitch.Pitch, error) {
	s, ok := c.catalog.Scale(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownScale)
	}
	return formula.Realize(s.Formula(), root, c.PreferenceSource(k))
}

// Chord realizes the chord named by symbol ("7", "m7b5") or full name
// ("Dominant seventh") from root.
func (c *Context) Chord(symbol string, root pitch.Pitch) ([]pitch.Pitch, error) {
	return c.ChordInKey(symbol, root, nil)
}

// ChordInKey realizes a chord from root, spelled for k.
func (c *Context) ChordInKey(symbol string, root pitch.Pitch, k *key.Key) ([]pitch.Pitch, error) {
	ch, ok := c.catalog.Chord(symbol)
	if !ok {
		return nil, fmt.Errorf("%q: %w", symbol, ErrUnknownChord)
	}
	return formula.Realize(ch.Formula(), root, c.PreferenceSource(k))
}

// ChordSymbol realizes a rooted chord symbol such as "Bb7" or "F#m" as
// octave-neutral pitches. A bare root ("Eb") is a major triad.
func (c *Context) ChordSymbol(symbol string) ([]pitch.Pitch, error) {
	root, rest, err := splitRoot(symbol)
	if err != nil {
		return nil, err
	}
	if rest == "" {
		rest = "M"
	}
	return c.Chord(rest, root)
}

// splitRoot separates the letter and accidentals at the front of a chord
// symbol from the chord quality.
func splitRoot(symbol string) (pitch.Pitch, string, error) {
	s := strings.TrimSpace(symbol)
	if s == "" || !strings.ContainsRune("ABCDEFG", rune(s[0])) {
		return pitch.Silent, "", fmt.Errorf("chord symbol %q: %w", symbol, pitch.ErrMalformedToken)
	}
	n := 1
	for n < len(s) && n < 3 && (s[n] == '#' || s[n] == 'b') && (n == 1 || s[n] == s[1]) {
		n++
	}
	root, err := pitch.Parse(s[:n])
	if err != nil {
		return pitch.Silent, "", err
	}
	return root, s[n:], nil
}

// Identify names the chord formed by pitches.
func (c *Context) Identify(pitches []pitch.Pitch) (catalog.Match, bool) {
	m, ok := c.catalog.Identify(pitches)
	if !ok {
		c.logger.Debug("No chord matches pitches", logging.Fields{"pitches": len(pitches)})
		return m, false
	}
	return m, true
}

// RankChords lists the catalog chords closest to pitches, tolerating
// missing and extra notes.
func (c *Context) RankChords(pitches []pitch.Pitch, opts catalog.RankOptions) []catalog.Candidate {
	return c.catalog.Rank(pitches, opts)
}

// Progression measures harmonic movement across a sequence of chords.
func (c *Context) Progression(chords ...[]pitch.Pitch) (*analysis.Movement, error) {
	return analysis.HarmonicChange(chords...)
}

// EstimateKey guesses the key of pitches with the configured profile.
func (c *Context) EstimateKey(pitches []pitch.Pitch) (key.Result, error) {
	return c.estimator.Estimate(pitches)
}

// ExportMIDI writes pitches as a melody in a Standard MIDI File.
func (c *Context) ExportMIDI(w io.Writer, pitches []pitch.Pitch) error {
	return c.exporter.WriteSequence(w, pitches)
}

// ExportChords writes each group of pitches as a block chord.
func (c *Context) ExportChords(w io.Writer, chords ...[]pitch.Pitch) error {
	return c.exporter.WriteChord(w, chords...)
}

// Analysis collects the descriptive statistics of a pitch sequence.
type Analysis struct {
	Profile  *analysis.PitchClassProfile `json:"profile"`
	Fourier  *analysis.Fourier           `json:"fourier"`
	Tonnetz  analysis.TonalCentroid      `json:"tonnetz"`
	Register *analysis.Register          `json:"register,omitempty"` // nil when every pitch is octave-neutral
	Key      *key.Result                 `json:"key,omitempty"`      // nil when no key stands out
	Chord    *catalog.Match              `json:"-"`                  // nil unless the pitches form a catalog chord
	Nearest  []catalog.Candidate         `json:"-"`
}

// Analyze profiles pitches and, where possible, names their chord and key.
// It fails only when pitches contains no sounding pitch.
func (c *Context) Analyze(pitches []pitch.Pitch) (*Analysis, error) {
	profile, err := analysis.Profile(pitches)
	if err != nil {
		return nil, err
	}
	fourier, err := analysis.FourierProfile(pitches)
	if err != nil {
		return nil, err
	}
	out := &Analysis{
		Profile: profile,
		Fourier: fourier,
		Tonnetz: profile.Tonnetz(),
		Nearest: c.catalog.Rank(pitches, catalog.DefaultRankOptions()),
	}

	if reg, err := analysis.RegisterStats(pitches); err == nil {
		out.Register = reg
	}
	if m, ok := c.catalog.Identify(pitches); ok {
		out.Chord = &m
	}
	if res, err := c.estimator.Estimate(pitches); err == nil {
		out.Key = &res
	} else {
		c.logger.Debug("Key estimation skipped", logging.Fields{"reason": err.Error()})
	}
	return out, nil
}
