// Package catalog holds the immutable table of named scale and chord
// formulas. A Catalog is built once, from the embedded resource or a YAML
// file, and is safe for concurrent readers.
package catalog

import (
	"errors"
	"slices"
	"strings"

	"github.com/RyanBlaney/sonido-nota/formula"
	"github.com/RyanBlaney/sonido-nota/logging"
)

var ErrDuplicate = errors.New("duplicate catalog entry")

// Catalog indexes scales and chords by name, alternate name and symbol.
// Names match case-insensitively; chord symbols are case-sensitive since
// "M7" and "m7" are different chords.
type Catalog struct {
	scales []*ScaleFormula
	chords []*ChordFormula

	scalesByName   map[string]*ScaleFormula
	chordsByName   map[string]*ChordFormula
	chordsBySymbol map[string]*ChordFormula
	chordsByNumber map[formula.Number][]*ChordFormula

	logger logging.Logger
}

func newCatalog(logger logging.Logger) *Catalog {
	return &Catalog{
		scalesByName:   make(map[string]*ScaleFormula),
		chordsByName:   make(map[string]*ChordFormula),
		chordsBySymbol: make(map[string]*ChordFormula),
		chordsByNumber: make(map[formula.Number][]*ChordFormula),
		logger:         logger,
	}
}

func nameKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsFold(list []string, s string) bool {
	return slices.ContainsFunc(list, func(v string) bool { return strings.EqualFold(v, s) })
}

func (c *Catalog) addScale(s *ScaleFormula) error {
	for _, n := range append([]string{s.name}, s.alternateNames...) {
		key := nameKey(n)
		if prev, ok := c.scalesByName[key]; ok {
			return &DuplicateError{Kind: "scale", Name: n, Existing: prev.name}
		}
		c.scalesByName[key] = s
	}
	c.scales = append(c.scales, s)
	return nil
}

func (c *Catalog) addChord(ch *ChordFormula) error {
	for _, n := range append([]string{ch.name}, ch.alternateNames...) {
		key := nameKey(n)
		if prev, ok := c.chordsByName[key]; ok {
			return &DuplicateError{Kind: "chord", Name: n, Existing: prev.name}
		}
		c.chordsByName[key] = ch
	}
	for _, sym := range ch.symbols {
		if prev, ok := c.chordsBySymbol[sym]; ok {
			c.logger.Debug("chord symbol already taken, keeping first", logging.Fields{
				"symbol":   sym,
				"chord":    ch.name,
				"existing": prev.name,
			})
			continue
		}
		c.chordsBySymbol[sym] = ch
	}
	c.chordsByNumber[ch.number] = append(c.chordsByNumber[ch.number], ch)
	c.chords = append(c.chords, ch)
	return nil
}

// Scale looks up a scale by name or alternate name.
func (c *Catalog) Scale(name string) (*ScaleFormula, bool) {
	s, ok := c.scalesByName[nameKey(name)]
	return s, ok
}

// Chord looks up a chord by symbol first, then by name or alternate name.
func (c *Catalog) Chord(nameOrSymbol string) (*ChordFormula, bool) {
	if ch, ok := c.chordsBySymbol[strings.TrimSpace(nameOrSymbol)]; ok {
		return ch, true
	}
	ch, ok := c.chordsByName[nameKey(nameOrSymbol)]
	return ch, ok
}

// Scales returns every scale in catalog order.
func (c *Catalog) Scales() []*ScaleFormula { return slices.Clone(c.scales) }

// Chords returns every chord in catalog order.
func (c *Catalog) Chords() []*ChordFormula { return slices.Clone(c.chords) }

// InGroup returns the scales tagged with group.
func (c *Catalog) InGroup(group string) []*ScaleFormula {
	var out []*ScaleFormula
	for _, s := range c.scales {
		if s.InGroup(group) {
			out = append(out, s)
		}
	}
	return out
}

// ChordsInGroup returns the chords whose group is group.
func (c *Catalog) ChordsInGroup(group string) []*ChordFormula {
	var out []*ChordFormula
	for _, ch := range c.chords {
		if strings.EqualFold(ch.group, group) {
			out = append(out, ch)
		}
	}
	return out
}

// ChordsByNumber returns the chords whose root-position formula number is n.
func (c *Catalog) ChordsByNumber(n formula.Number) []*ChordFormula {
	return slices.Clone(c.chordsByNumber[n])
}

// ScalesByNumber returns the scales realizing pitch-class set n.
func (c *Catalog) ScalesByNumber(n formula.Number) []*ScaleFormula {
	var out []*ScaleFormula
	for _, s := range c.scales {
		if s.number == n {
			out = append(out, s)
		}
	}
	return out
}

// SearchResult holds the entries matched by Search.
type SearchResult struct {
	Scales []*ScaleFormula
	Chords []*ChordFormula
}

// Empty reports whether nothing matched.
func (r SearchResult) Empty() bool {
	return len(r.Scales) == 0 && len(r.Chords) == 0
}

// Search returns the scales and chords whose name, alternate name or group
// contains query (case-insensitive), plus chords with a symbol equal to it.
func (c *Catalog) Search(query string) SearchResult {
	q := nameKey(query)
	var r SearchResult
	if q == "" {
		return r
	}
	match := func(values ...string) bool {
		return slices.ContainsFunc(values, func(v string) bool {
			return strings.Contains(strings.ToLower(v), q)
		})
	}
	for _, s := range c.scales {
		if match(s.name) || match(s.alternateNames...) || match(s.groups...) {
			r.Scales = append(r.Scales, s)
		}
	}
	for _, ch := range c.chords {
		if match(ch.name, ch.group) || match(ch.alternateNames...) || slices.Contains(ch.symbols, strings.TrimSpace(query)) {
			r.Chords = append(r.Chords, ch)
		}
	}
	return r
}
