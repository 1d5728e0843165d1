package formula

import (
	"fmt"
	"slices"

	"github.com/RyanBlaney/sonido-nota/pitch"
)

// Number is a 12-bit pitch-class set: bit i is set when the pitch class i
// semitones above the root is present. The major triad is 0x091.
type Number uint16

// Rotate returns the set transposed down by k semitones, so that the pitch
// class k above the old root becomes the new root.
func (n Number) Rotate(k int) Number {
	k = ((k % 12) + 12) % 12
	v := uint16(n) & 0xFFF
	return Number(((v >> k) | (v << (12 - k))) & 0xFFF)
}

// PitchClasses returns the set members in ascending order.
func (n Number) PitchClasses() []int {
	var out []int
	for i := range 12 {
		if n&(1<<i) != 0 {
			out = append(out, i)
		}
	}
	return out
}

// Len returns the number of pitch classes in the set.
func (n Number) Len() int {
	c := 0
	for v := n & 0xFFF; v != 0; v &= v - 1 {
		c++
	}
	return c
}

func (n Number) String() string {
	return fmt.Sprintf("0x%03X", uint16(n))
}

// FormulaNumber returns the pitch-class set realized by f. Formulas that
// realize the same pitch classes share a number regardless of note order or
// octave: [2,2,2,2,2,2] is 0x555 and [2,2,1,2,2,2,1] is 0xAB5.
func FormulaNumber(f Formula) Number {
	var n Number
	for _, i := range PitchIndexes(f) {
		n |= 1 << (i % 12)
	}
	return n
}

// SpellingNumber is like FormulaNumber but keeps compound indexes apart, so
// a #9 (index 15) and a minor third (index 3) yield different numbers. It
// covers two octaves and a fifth; wider formulas return ErrSpanTooWide.
func SpellingNumber(f Formula) (uint32, error) {
	var n uint32
	for _, i := range PitchIndexes(f) {
		if i >= 32 {
			return 0, fmt.Errorf("index %d in %s: %w", i, f, ErrSpanTooWide)
		}
		n |= 1 << i
	}
	return n, nil
}

// PitchClassSequence returns the distinct pitch classes of f in realized
// order, relative to the root: [4,3,3,4] gives [0,4,7,10,2].
func PitchClassSequence(f Formula) []int {
	var seq []int
	for _, i := range PitchIndexes(f) {
		pc := i % 12
		if !slices.Contains(seq, pc) {
			seq = append(seq, pc)
		}
	}
	return seq
}

// Inversions returns the formula of every inversion of f, indexed by the
// chord tone in the bass (0 is root position). Each inversion rotates the
// chord tones left and closes them within the octave: the inversions of
// [4,3,3] are [4,3,3], [3,3,2], [3,2,4] and [2,4,3].
func Inversions(f Formula) []Formula {
	seq := PitchClassSequence(f)
	out := make([]Formula, len(seq))
	for k := range seq {
		inv := make(Formula, 0, len(seq)-1)
		for j := 1; j < len(seq); j++ {
			prev := seq[(k+j-1)%len(seq)]
			next := seq[(k+j)%len(seq)]
			inv = append(inv, ((next-prev)%12+12)%12)
		}
		if len(inv) == 0 {
			inv = append(inv, 0)
		}
		out[k] = inv
	}
	return out
}

// InversionNumbers returns FormulaNumber of each formula from Inversions.
// Entry 0 is FormulaNumber(f).
func InversionNumbers(f Formula) []Number {
	invs := Inversions(f)
	out := make([]Number, len(invs))
	for i, inv := range invs {
		out[i] = FormulaNumber(inv)
	}
	return out
}

// InversionMap returns the formulas from Inversions keyed by the index of the
// chord tone in the bass.
func InversionMap(f Formula) map[int]Formula {
	invs := Inversions(f)
	m := make(map[int]Formula, len(invs))
	for i, inv := range invs {
		m[i] = inv
	}
	return m
}

// NumberOf returns the pitch-class set of pitches relative to the bass: the
// lowest pitch, or the first pitch when any member is octave-neutral. Rests
// are ignored.
func NumberOf(pitches []pitch.Pitch) (Number, pitch.Pitch, error) {
	var sounding []pitch.Pitch
	neutral := false
	for _, p := range pitches {
		if p.IsSilent() {
			continue
		}
		neutral = neutral || p.IsOctaveNeutral()
		sounding = append(sounding, p)
	}
	if len(sounding) == 0 {
		return 0, pitch.Silent, fmt.Errorf("no sounding pitches: %w", ErrInvalidFormula)
	}

	bass := sounding[0]
	if !neutral {
		bass = slices.MinFunc(sounding, pitch.Pitch.Compare)
	}
	var n Number
	for _, p := range sounding {
		n |= 1 << (p.ChromaticScaleDegreeIn(bass) - 1)
	}
	return n, bass, nil
}
