package pitch

import (
	"fmt"
	"sync"
)

var (
	sharpSpellings = [12]Step{C, CSharp, D, DSharp, E, F, FSharp, G, GSharp, A, ASharp, B}
	flatSpellings  = [12]Step{C, DFlat, D, EFlat, E, F, GFlat, G, AFlat, A, BFlat, B}
)

// Lattice maps every range step 0..120 to a concrete spelling, once using
// sharps and once using flats. Entry i of each table has range step i.
type Lattice struct {
	sharps []Pitch
	flats  []Pitch
}

var (
	defaultLattice     *Lattice
	defaultLatticeOnce sync.Once
)

// DefaultLattice returns the shared lattice. It is built on first use and is
// safe for concurrent readers.
func DefaultLattice() *Lattice {
	defaultLatticeOnce.Do(func() {
		defaultLattice = NewLattice()
	})
	return defaultLattice
}

// NewLattice builds the sharp and flat tables: the twelve spellings of each
// family for octaves 0..9, followed by C10.
func NewLattice() *Lattice {
	l := &Lattice{
		sharps: make([]Pitch, 0, MaxRangeStep+1),
		flats:  make([]Pitch, 0, MaxRangeStep+1),
	}
	for octave := 0; octave < MaxOctave; octave++ {
		for i := range 12 {
			l.sharps = append(l.sharps, fromParts(sharpSpellings[i].Letter(), sharpSpellings[i].Alter(), octave))
			l.flats = append(l.flats, fromParts(flatSpellings[i].Letter(), flatSpellings[i].Alter(), octave))
		}
	}
	l.sharps = append(l.sharps, MaxPitch)
	l.flats = append(l.flats, MaxPitch)
	return l
}

// Len returns the number of entries in each table.
func (l *Lattice) Len() int { return len(l.sharps) }

func (l *Lattice) table(pref Preference) []Pitch {
	if pref == PreferFlats {
		return l.flats
	}
	return l.sharps
}

// Lookup returns the spelling of range step rs. PreferFlats selects the
// flat table; any other preference selects the sharp table. Lookup panics
// when rs is outside 0..120.
func (l *Lattice) Lookup(pref Preference, rs int) Pitch {
	if rs < MinRangeStep || rs > MaxRangeStep {
		panic(fmt.Sprintf("pitch: range step %d outside lattice", rs))
	}
	return l.table(pref)[rs]
}

// Clamped is like Lookup but saturates rs to 0..120.
func (l *Lattice) Clamped(pref Preference, rs int) Pitch {
	return l.table(pref)[max(MinRangeStep, min(rs, MaxRangeStep))]
}

// Spellings returns a copy of the table selected by pref.
func (l *Lattice) Spellings(pref Preference) []Pitch {
	t := l.table(pref)
	out := make([]Pitch, len(t))
	copy(out, t)
	return out
}
