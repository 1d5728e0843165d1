package catalog

import (
	"github.com/RyanBlaney/sonido-nota/formula"
	"github.com/RyanBlaney/sonido-nota/pitch"
)

// Match is a chord recognized from a set of pitches.
type Match struct {
	Chord     *ChordFormula
	Root      pitch.Pitch
	Bass      pitch.Pitch
	Inversion int // index of the chord tone in the bass, 0 for root position
}

// Symbol renders the match as a chord symbol, with a slash bass for
// inversions: "C7", "C7/E".
func (m Match) Symbol() string {
	s := m.Root.Name() + m.Chord.Symbol()
	if m.Inversion > 0 {
		s += "/" + m.Bass.Name()
	}
	return s
}

// Identify names the chord formed by pitches. Doubled notes and voicing
// order do not matter; the lowest pitch is the bass. Root-position matches
// are preferred over inversions, then catalog order decides.
func (c *Catalog) Identify(pitches []pitch.Pitch) (Match, bool) {
	n, bass, err := formula.NumberOf(pitches)
	if err != nil {
		return Match{}, false
	}
	if chords := c.chordsByNumber[n]; len(chords) > 0 {
		return Match{Chord: chords[0], Root: bass, Bass: bass}, true
	}
	for _, ch := range c.chords {
		for k := 1; k < len(ch.inversions); k++ {
			if ch.inversions[k] != n {
				continue
			}
			root, err := bass.Decrement(ch.offsets[k])
			if err != nil {
				return Match{}, false
			}
			return Match{Chord: ch, Root: root, Bass: bass, Inversion: k}, true
		}
	}
	return Match{}, false
}
