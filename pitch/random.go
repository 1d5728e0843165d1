package pitch

import (
	"fmt"
	"math/rand/v2"
)

func orDefault(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// RandomPitchSet returns n pitches drawn uniformly from low..high inclusive,
// spelled with sharps. A nil rng uses a randomly seeded source.
func RandomPitchSet(low, high Pitch, n int, rng *rand.Rand) (*PitchSet, error) {
	if low.IsOctaveNeutral() || high.IsOctaveNeutral() || low.IsSilent() || high.IsSilent() {
		return nil, fmt.Errorf("random pitches between %s and %s: %w", low, high, ErrOutOfRange)
	}
	if n < 0 || low.rangeStep > high.rangeStep {
		return nil, fmt.Errorf("random pitches n=%d %s..%s: %w", n, low, high, ErrInvalidMagnitude)
	}
	rng = orDefault(rng)
	lattice := DefaultLattice()
	span := high.rangeStep - low.rangeStep + 1
	ps := &PitchSet{pitches: make([]Pitch, 0, n)}
	for range n {
		ps.pitches = append(ps.pitches, lattice.Lookup(PreferSharps, low.rangeStep+rng.IntN(span)))
	}
	return ps, nil
}

// ToneRow returns a twelve-tone row: every pitch class exactly once, in
// random order, placed at or above origin. Octave-neutral origins produce an
// octave-neutral row.
func ToneRow(origin Pitch, rng *rand.Rand) (*PitchSet, error) {
	if origin.IsSilent() {
		return nil, fmt.Errorf("tone row from rest: %w", ErrMalformedToken)
	}
	if !origin.IsOctaveNeutral() && origin.rangeStep+11 > MaxRangeStep {
		return nil, fmt.Errorf("tone row from %s: %w", origin, ErrOutOfRange)
	}
	rng = orDefault(rng)
	ps := &PitchSet{pitches: make([]Pitch, 0, 12)}
	for _, step := range rng.Perm(12) {
		p, err := origin.IncrementPreferring(step, PreferFlats)
		if err != nil {
			return nil, err
		}
		ps.pitches = append(ps.pitches, p)
	}
	return ps, nil
}
