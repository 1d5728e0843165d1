package pitch

import (
	"cmp"
	"fmt"
	"math"
)

const (
	// NoOctave marks an octave-neutral pitch (a pitch class with no register).
	NoOctave = -1

	MinRangeStep = 0   // C0
	MaxRangeStep = 120 // C10, one octave above B9
	MaxOctave    = 10

	// A4 in scientific pitch notation
	concertARangeStep = 57
	concertAHz        = 440.0
)

// Pitch is a spelled pitch: a natural letter, an accidental and an optional
// octave in scientific pitch notation (middle C is C4).
//
// The letter is combined with the octave number first and the accidental is
// applied afterwards, so Cb4 sounds as B3 and B#3 sounds as C4. RangeStep is
// the absolute semitone offset from C0 and is the coordinate used for all
// comparison and arithmetic.
//
// Pitch is an immutable value; every operation returns a new Pitch.
type Pitch struct {
	step       Step
	alteration Alteration
	octave     int
	rangeStep  int
}

var (
	// Silent is the rest sentinel. It is also the zero value.
	Silent = Pitch{}

	// MinPitch is C0, range step 0.
	MinPitch = Pitch{step: C, octave: 0, rangeStep: MinRangeStep}

	// MaxPitch is C10, range step 120.
	MaxPitch = Pitch{step: C, octave: MaxOctave, rangeStep: MaxRangeStep}

	// MiddleC is C4.
	MiddleC = Pitch{step: C, octave: 4, rangeStep: 48}
)

// New constructs a Pitch. Alias steps are folded into their letter, so
// New(CSharp, 4, Natural) is the same pitch as New(C, 4, Sharp). Use
// NoOctave for an octave-neutral pitch.
func New(step Step, octave int, alt Alteration) (Pitch, error) {
	if !step.Valid() {
		return Silent, fmt.Errorf("unknown step %d: %w", step, ErrMalformedToken)
	}
	if step == SilentStep {
		if alt != Natural {
			return Silent, fmt.Errorf("silent pitch with alteration %d: %w", alt, ErrInvalidMagnitude)
		}
		return Silent, nil
	}

	alt += step.Alter()
	letter := step.Letter()
	if !alt.Valid() {
		return Silent, fmt.Errorf("alteration %d on %s: %w", int8(alt), letter, ErrInvalidMagnitude)
	}
	if octave < NoOctave || octave > MaxOctave {
		return Silent, fmt.Errorf("octave %d: %w", octave, ErrOutOfRange)
	}

	p := fromParts(letter, alt, octave)
	if !p.IsOctaveNeutral() && (p.rangeStep < MinRangeStep || p.rangeStep > MaxRangeStep) {
		return Silent, fmt.Errorf("%s has range step %d: %w", p, p.rangeStep, ErrOutOfRange)
	}
	return p, nil
}

// MustNew is like New but panics on error. It is meant for trusted literals.
func MustNew(step Step, octave int, alt Alteration) Pitch {
	p, err := New(step, octave, alt)
	if err != nil {
		panic(err)
	}
	return p
}

// fromParts builds a pitch from already validated parts.
func fromParts(letter Step, alt Alteration, octave int) Pitch {
	return Pitch{
		step:       letter,
		alteration: alt,
		octave:     octave,
		rangeStep:  computeRangeStep(letter, alt, octave),
	}
}

func computeRangeStep(letter Step, alt Alteration, octave int) int {
	pc := mod12(letter.Degree() + int(alt) - 1)
	if octave == NoOctave {
		return pc
	}
	return pc + 12*effectiveOctave(letter, alt, octave)
}

// effectiveOctave is the octave a pitch sounds in: Cb (and Cbb) in octave N
// sound in N-1, B# (and B##) in octave N sound in N+1.
func effectiveOctave(letter Step, alt Alteration, octave int) int {
	switch {
	case letter == C && alt < 0:
		return octave - 1
	case letter == B && alt > 0:
		return octave + 1
	}
	return octave
}

func mod12(n int) int {
	return ((n % 12) + 12) % 12
}

// Step returns the natural letter of the pitch, or SilentStep for a rest.
func (p Pitch) Step() Step { return p.step }

// Alteration returns the accidental applied to the letter.
func (p Pitch) Alteration() Alteration { return p.alteration }

// Octave returns the written octave, or NoOctave for an octave-neutral pitch.
func (p Pitch) Octave() int { return p.octave }

// RangeStep returns the number of semitones above C0. For octave-neutral
// pitches it is the pitch class (0..11).
func (p Pitch) RangeStep() int { return p.rangeStep }

// PitchClass returns the range step reduced to 0..11 (C = 0).
func (p Pitch) PitchClass() int { return mod12(p.rangeStep) }

// StepValue returns the chromatic degree of the written letter (C=1 .. B=12).
func (p Pitch) StepValue() int { return p.step.Degree() }

// IsOctaveNeutral reports whether the pitch has no register.
func (p Pitch) IsOctaveNeutral() bool { return p.octave == NoOctave }

// IsSilent reports whether p is the rest sentinel.
func (p Pitch) IsSilent() bool { return p.step == SilentStep }

// Difference returns other.RangeStep() - p.RangeStep(); a positive result
// means other lies above p.
func (p Pitch) Difference(other Pitch) int {
	return other.rangeStep - p.rangeStep
}

// StepDifference returns the number of semitones needed to move upward from
// p's pitch class to other's (0..11).
func (p Pitch) StepDifference(other Pitch) int {
	return mod12(other.rangeStep - p.rangeStep)
}

// ChromaticScaleDegree returns the chromatic degree relative to C (C=1, B=12).
// B# is 1 and Cb is 12.
func (p Pitch) ChromaticScaleDegree() int {
	return p.PitchClass() + 1
}

// ChromaticScaleDegreeIn returns the chromatic degree of p relative to root
// (the root itself is 1).
func (p Pitch) ChromaticScaleDegreeIn(root Pitch) int {
	return mod12(p.PitchClass()-root.PitchClass()) + 1
}

// Equals reports whether p and other sound the same, ignoring spelling:
// F#4 equals Gb4 and Cb4 equals B3. When either pitch is octave-neutral
// only pitch classes are compared.
func (p Pitch) Equals(other Pitch) bool {
	if p.IsSilent() || other.IsSilent() {
		return p.IsSilent() && other.IsSilent()
	}
	if p.IsOctaveNeutral() || other.IsOctaveNeutral() {
		return p.PitchClass() == other.PitchClass()
	}
	return p.rangeStep == other.rangeStep
}

// Compare orders pitches by range step and returns -1, 0 or 1.
func (p Pitch) Compare(other Pitch) int {
	return cmp.Compare(p.rangeStep, other.rangeStep)
}

// Increment returns the pitch n semitones above p, spelled from the lattice
// on p's side of the accidental families (sharps for sharpened pitches,
// flats otherwise). The result saturates at MaxPitch. Octave-neutral pitches
// stay octave-neutral.
func (p Pitch) Increment(n int) (Pitch, error) {
	if n < 0 {
		return p, fmt.Errorf("increment by %d: %w", n, ErrInvalidMagnitude)
	}
	return p.shift(n), nil
}

// Decrement returns the pitch n semitones below p, saturating at MinPitch.
func (p Pitch) Decrement(n int) (Pitch, error) {
	if n < 0 {
		return p, fmt.Errorf("decrement by %d: %w", n, ErrInvalidMagnitude)
	}
	return p.shift(-n), nil
}

// IncrementPreferring is Increment followed by re-spelling the result in the
// preferred accidental family when its accidental disagrees with pref.
func (p Pitch) IncrementPreferring(n int, pref Preference) (Pitch, error) {
	if !pref.Valid() {
		return p, fmt.Errorf("preference %d: %w", pref, ErrInvalidPreference)
	}
	q, err := p.Increment(n)
	if err != nil {
		return p, err
	}
	return q.Prefer(pref), nil
}

// DecrementPreferring is Decrement followed by re-spelling in pref.
func (p Pitch) DecrementPreferring(n int, pref Preference) (Pitch, error) {
	if !pref.Valid() {
		return p, fmt.Errorf("preference %d: %w", pref, ErrInvalidPreference)
	}
	q, err := p.Decrement(n)
	if err != nil {
		return p, err
	}
	return q.Prefer(pref), nil
}

// IncrementPitchOnly moves the pitch class up by n semitones but keeps p's
// octave: B1.IncrementPitchOnly(3, PreferNone) is D1, not D2.
func (p Pitch) IncrementPitchOnly(n int, pref Preference) (Pitch, error) {
	q, err := p.IncrementPreferring(n, pref)
	if err != nil {
		return p, err
	}
	return q.inOctave(p.octave), nil
}

// DecrementPitchOnly moves the pitch class down by n semitones but keeps p's
// octave: D2.DecrementPitchOnly(4, PreferFlats) is Bb2, not Bb1.
func (p Pitch) DecrementPitchOnly(n int, pref Preference) (Pitch, error) {
	q, err := p.DecrementPreferring(n, pref)
	if err != nil {
		return p, err
	}
	return q.inOctave(p.octave), nil
}

// Prefer re-spells p in the family named by pref when p carries an accidental
// of the other family. Naturals and PreferNone leave p unchanged.
func (p Pitch) Prefer(pref Preference) Pitch {
	if pref == PreferNone || p.alteration == Natural {
		return p
	}
	if p.alteration.Sign() != int(pref) {
		return p.Enharmonic()
	}
	return p
}

// TransposeOctaves moves p by n octaves keeping its spelling, saturating at
// the ends of the range. Octave-neutral pitches are returned unchanged.
func (p Pitch) TransposeOctaves(n int) Pitch {
	if p.IsOctaveNeutral() || p.IsSilent() || n == 0 {
		return p
	}
	octave := p.octave + n
	if octave < 0 {
		return MinPitch
	}
	q, err := New(p.step, octave, p.alteration)
	if err != nil {
		if n > 0 {
			return MaxPitch
		}
		return MinPitch
	}
	return q
}

// Inversion mirrors p around start: the interval from start to p is applied
// downward from start.
func (p Pitch) Inversion(start Pitch) Pitch {
	return start.shift(-start.Difference(p))
}

// Frequency returns the equal-tempered frequency in Hz with A4 = 440 Hz.
// Octave-neutral and silent pitches have no frequency and return 0.
func (p Pitch) Frequency() float64 {
	if p.IsOctaveNeutral() || p.IsSilent() {
		return 0
	}
	return concertAHz * math.Pow(2, float64(p.rangeStep-concertARangeStep)/12.0)
}

// FromFrequency returns the pitch nearest to hz, spelled with pref.
func FromFrequency(hz float64, pref Preference) (Pitch, error) {
	if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
		return Silent, fmt.Errorf("frequency %v: %w", hz, ErrInvalidMagnitude)
	}
	if !pref.Valid() {
		return Silent, fmt.Errorf("preference %d: %w", pref, ErrInvalidPreference)
	}
	rs := concertARangeStep + int(math.Round(12*math.Log2(hz/concertAHz)))
	if rs < MinRangeStep || rs > MaxRangeStep {
		return Silent, fmt.Errorf("%.2f Hz maps to range step %d: %w", hz, rs, ErrOutOfRange)
	}
	return DefaultLattice().Lookup(pref, rs), nil
}

// shift moves p by n semitones (either direction) through the lattice.
func (p Pitch) shift(n int) Pitch {
	if n == 0 || p.IsSilent() {
		return p
	}
	bias := PreferFlats
	if p.alteration > 0 {
		bias = PreferSharps
	}
	lattice := DefaultLattice()
	if p.IsOctaveNeutral() {
		return lattice.Lookup(bias, mod12(p.rangeStep+n)).inOctave(NoOctave)
	}
	return lattice.Clamped(bias, p.rangeStep+n)
}

// inOctave rewrites the octave of p, saturating if the new register falls
// outside the range.
func (p Pitch) inOctave(octave int) Pitch {
	if p.IsSilent() || p.octave == octave {
		return p
	}
	q := fromParts(p.step, p.alteration, octave)
	if q.IsOctaveNeutral() {
		return q
	}
	switch {
	case q.rangeStep < MinRangeStep:
		return MinPitch
	case q.rangeStep > MaxRangeStep:
		return MaxPitch
	}
	return q
}
