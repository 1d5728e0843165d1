package catalog

import (
	"slices"

	"github.com/RyanBlaney/sonido-nota/formula"
	"github.com/RyanBlaney/sonido-nota/pitch"
)

var intervalNames = [...]string{"P1", "m2", "M2", "m3", "M3", "P4", "d5", "P5", "m6", "M6", "m7", "M7", "P8"}

// intervalName names a step increment; increments past an octave are
// reduced first.
func intervalName(n int) string {
	if n > 12 {
		n = (n-1)%12 + 1
	}
	return intervalNames[n]
}

// ScaleFormula is a named scale. Values are immutable once loaded.
type ScaleFormula struct {
	name           string
	alternateNames []string
	groups         []string
	description    string
	formula        formula.Formula
	number         formula.Number
}

func (s *ScaleFormula) Name() string              { return s.name }
func (s *ScaleFormula) AlternateNames() []string  { return slices.Clone(s.alternateNames) }
func (s *ScaleFormula) Groups() []string          { return slices.Clone(s.groups) }
func (s *ScaleFormula) Description() string       { return s.description }
func (s *ScaleFormula) Formula() formula.Formula  { return slices.Clone(s.formula) }
func (s *ScaleFormula) Number() formula.Number    { return s.number }
func (s *ScaleFormula) Size() int                 { return len(s.formula) }
func (s *ScaleFormula) Type() formula.ScaleType   { return formula.ScaleTypeOf(s.formula) }
func (s *ScaleFormula) InGroup(group string) bool { return containsFold(s.groups, group) }
func (s *ScaleFormula) String() string            { return s.name + " " + s.formula.String() }

// Pitches realizes the scale from root.
func (s *ScaleFormula) Pitches(root pitch.Pitch, pref pitch.Preference) ([]pitch.Pitch, error) {
	return formula.CreatePitches(s.formula, root, pref)
}

// ChordFormula is a named chord with its symbols and precomputed numbers.
type ChordFormula struct {
	name           string
	alternateNames []string
	symbols        []string
	group          string
	description    string
	formula        formula.Formula
	intervals      []string
	number         formula.Number
	spelling       uint32
	inversions     []formula.Number
	offsets        []int // pitch class of each chord tone above the root
}

func (c *ChordFormula) Name() string                       { return c.name }
func (c *ChordFormula) AlternateNames() []string           { return slices.Clone(c.alternateNames) }
func (c *ChordFormula) Symbols() []string                  { return slices.Clone(c.symbols) }
func (c *ChordFormula) Group() string                      { return c.group }
func (c *ChordFormula) Description() string                { return c.description }
func (c *ChordFormula) Formula() formula.Formula           { return slices.Clone(c.formula) }
func (c *ChordFormula) Intervals() []string                { return slices.Clone(c.intervals) }
func (c *ChordFormula) Number() formula.Number             { return c.number }
func (c *ChordFormula) SpellingNumber() uint32             { return c.spelling }
func (c *ChordFormula) InversionNumbers() []formula.Number { return slices.Clone(c.inversions) }

// Symbol returns the primary chord symbol, or "" if none is defined.
func (c *ChordFormula) Symbol() string {
	if len(c.symbols) == 0 {
		return ""
	}
	return c.symbols[0]
}

// Size is the number of increments in the formula.
func (c *ChordFormula) Size() int { return len(c.formula) }

// ChordSize is the number of distinct chord tones.
func (c *ChordFormula) ChordSize() int { return len(c.offsets) }

// Inversions returns the formula of each inversion, root position first.
func (c *ChordFormula) Inversions() []formula.Formula { return formula.Inversions(c.formula) }

// Pitches realizes the chord from root.
func (c *ChordFormula) Pitches(root pitch.Pitch, pref pitch.Preference) ([]pitch.Pitch, error) {
	return formula.CreatePitches(c.formula, root, pref)
}

// Template spells the chord on an octave-neutral C using flats, the way
// chord tables list them (C7 is C E G Bb).
func (c *ChordFormula) Template() []pitch.Pitch {
	ps, err := formula.CreatePitches(c.formula, pitch.MustParse("C"), pitch.PreferFlats)
	if err != nil {
		return nil
	}
	return ps
}

func (c *ChordFormula) String() string { return c.name + " " + c.formula.String() }

func newScale(name string, alt, groups []string, desc string, f formula.Formula) *ScaleFormula {
	return &ScaleFormula{
		name:           name,
		alternateNames: alt,
		groups:         groups,
		description:    desc,
		formula:        f,
		number:         formula.FormulaNumber(f),
	}
}

func newChord(name string, alt, symbols []string, group, desc string, f formula.Formula, intervals []string) (*ChordFormula, error) {
	spelling, err := formula.SpellingNumber(f)
	if err != nil {
		return nil, err
	}
	if len(intervals) == 0 {
		intervals = make([]string, len(f))
		for i, n := range f {
			intervals[i] = intervalName(n)
		}
	}
	return &ChordFormula{
		name:           name,
		alternateNames: alt,
		symbols:        symbols,
		group:          group,
		description:    desc,
		formula:        f,
		intervals:      intervals,
		number:         formula.FormulaNumber(f),
		spelling:       spelling,
		inversions:     formula.InversionNumbers(f),
		offsets:        formula.PitchClassSequence(f),
	}, nil
}
