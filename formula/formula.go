// Package formula expands interval formulas into spelled pitch sequences
// and computes the canonical numbers used to identify scales and chords.
//
// A Formula is an ordered list of chromatic-step increments relative to an
// implicit root. Scale formulas sum to 12 (the last realized pitch repeats
// the root an octave up); chord formulas carry no such constraint and may
// span more than an octave.
package formula

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidFormula    = errors.New("invalid formula")
	ErrInvalidRoot       = errors.New("invalid root pitch")
	ErrMissingPreference = errors.New("no accidental preference available")
	ErrSpanTooWide       = errors.New("formula spans too many steps")
)

// Formula is a sequence of non-negative chromatic-step increments.
type Formula []int

// Validate reports ErrInvalidFormula for an empty formula or a negative
// increment.
func (f Formula) Validate() error {
	if len(f) == 0 {
		return fmt.Errorf("empty formula: %w", ErrInvalidFormula)
	}
	for i, n := range f {
		if n < 0 {
			return fmt.Errorf("increment %d at %d is negative: %w", n, i, ErrInvalidFormula)
		}
	}
	return nil
}

// Span returns the sum of the increments.
func (f Formula) Span() int {
	sum := 0
	for _, n := range f {
		sum += n
	}
	return sum
}

// IsScale reports whether f spans exactly one octave.
func (f Formula) IsScale() bool {
	return len(f) > 0 && f.Span() == 12
}

// IsUnpitched reports whether f is the single-step [0] formula used for
// unpitched percussion lines.
func (f Formula) IsUnpitched() bool {
	return len(f) == 1 && f[0] == 0
}

func (f Formula) String() string {
	parts := make([]string, len(f))
	for i, n := range f {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// PitchIndexes returns the cumulative step indexes of f, starting with the
// root at 0: [2,2,1] gives [0,2,4,5].
func PitchIndexes(f Formula) []int {
	idx := make([]int, len(f)+1)
	for i, n := range f {
		idx[i+1] = idx[i] + n
	}
	return idx
}

// FromPitchIndexes is the inverse of PitchIndexes for scales: the indexes
// must start at 0, ascend strictly and stay below 12. The returned formula
// closes the octave, so [0,2,4,5,7,9,11] gives [2,2,1,2,2,2,1].
func FromPitchIndexes(idx []int) (Formula, error) {
	if len(idx) == 0 || idx[0] != 0 {
		return nil, fmt.Errorf("pitch indexes %v must start at 0: %w", idx, ErrInvalidFormula)
	}
	f := make(Formula, 0, len(idx))
	for i := 1; i < len(idx); i++ {
		if idx[i] <= idx[i-1] {
			return nil, fmt.Errorf("pitch indexes %v must ascend: %w", idx, ErrInvalidFormula)
		}
		f = append(f, idx[i]-idx[i-1])
	}
	last := idx[len(idx)-1]
	if last >= 12 {
		return nil, fmt.Errorf("pitch index %d exceeds the octave: %w", last, ErrInvalidFormula)
	}
	return append(f, 12-last), nil
}

// DoubledRoot returns f with one more increment that brings the last tone
// up to the next root: [4,3,3] gives [4,3,3,2]. Inversions of a chord are
// left rotations of this formula.
func DoubledRoot(f Formula) Formula {
	out := make(Formula, len(f), len(f)+1)
	copy(out, f)
	return append(out, (12-f.Span()%12)%12)
}

// ScaleType classifies a formula by its number of steps.
type ScaleType int

const (
	Monotonic ScaleType = iota + 1
	Ditonic
	Tritonic
	Tetratonic
	Pentatonic
	Hexatonic
	Diatonic
	Octatonic
	Nonatonic
	Chromatic
)

var scaleTypeNames = map[ScaleType]string{
	Monotonic:  "monotonic",
	Ditonic:    "ditonic",
	Tritonic:   "tritonic",
	Tetratonic: "tetratonic",
	Pentatonic: "pentatonic",
	Hexatonic:  "hexatonic",
	Diatonic:   "diatonic",
	Octatonic:  "octatonic",
	Nonatonic:  "nonatonic",
	Chromatic:  "chromatic",
}

func (t ScaleType) String() string {
	if s, ok := scaleTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ScaleTypeOf returns the scale type for the number of steps in f. Ten or
// more steps count as chromatic.
func ScaleTypeOf(f Formula) ScaleType {
	switch n := len(f); {
	case n <= 1:
		return Monotonic
	case n < int(Chromatic):
		return ScaleType(n)
	}
	return Chromatic
}
