package analysis

import (
	"math"
	"math/bits"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/sonido-nota/formula"
	"github.com/RyanBlaney/sonido-nota/pitch"
)

// Fourier holds the discrete Fourier magnitudes of a pitch-class set.
// Coefficient k measures how well the set divides the octave into k equal
// parts: whole-tone sets peak at 6, diatonic sets at 5, diminished sevenths at 4.
type Fourier struct {
	Magnitudes  []float64 `json:"magnitudes"` // |f0| .. |f6|
	Phases      []float64 `json:"phases"`     // radians, 0 where the magnitude vanishes
	Cardinality int       `json:"cardinality"`
}

// FourierProfile computes the Fourier magnitudes of the pitch classes
// sounded in pitches. Repeated pitch classes count once.
func FourierProfile(pitches []pitch.Pitch) (*Fourier, error) {
	indicator := make([]float64, 12)
	for _, p := range pitches {
		if !p.IsSilent() {
			indicator[p.PitchClass()] = 1
		}
	}
	return fourierOf(indicator)
}

// FourierOfNumber computes the Fourier magnitudes of a formula number's
// pitch-class set.
func FourierOfNumber(n formula.Number) (*Fourier, error) {
	indicator := make([]float64, 12)
	for _, pc := range n.PitchClasses() {
		indicator[pc] = 1
	}
	return fourierOf(indicator)
}

func fourierOf(indicator []float64) (*Fourier, error) {
	card := 0
	for _, v := range indicator {
		card += int(v)
	}
	if card == 0 {
		return nil, ErrNoPitches
	}

	spectrum := fft.FFTReal(indicator)
	f := &Fourier{
		Magnitudes:  make([]float64, 7),
		Phases:      make([]float64, 7),
		Cardinality: card,
	}
	for k := 0; k <= 6; k++ {
		mag := cmplx.Abs(spectrum[k])
		if mag < 1e-9 {
			continue
		}
		f.Magnitudes[k] = mag
		f.Phases[k] = cmplx.Phase(spectrum[k])
	}
	return f, nil
}

// Peak returns the strongest coefficient among 1..6 and its magnitude.
func (f *Fourier) Peak() (int, float64) {
	best := 1
	for k := 2; k <= 6; k++ {
		if f.Magnitudes[k] > f.Magnitudes[best] {
			best = k
		}
	}
	return best, f.Magnitudes[best]
}

// Saturation returns coefficient k relative to the largest value any set of
// the same cardinality can reach, in 0..1.
func (f *Fourier) Saturation(k int) float64 {
	if k < 1 || k > 6 || f.Cardinality == 0 {
		return 0
	}
	limit := maxMagnitude(k, f.Cardinality)
	if limit < 1e-9 {
		return 0
	}
	return f.Magnitudes[k] / limit
}

// maxMagnitude is the largest |f_k| over all n-element subsets of Z12,
// found by exhaustive search over the subsets.
func maxMagnitude(k, n int) float64 {
	best := 0.0
	for mask := 0; mask < 1<<12; mask++ {
		if bits.OnesCount(uint(mask)) != n {
			continue
		}
		var re, im float64
		for pc := 0; pc < 12; pc++ {
			if mask&(1<<pc) != 0 {
				angle := -2 * math.Pi * float64(k*pc) / 12
				re += math.Cos(angle)
				im += math.Sin(angle)
			}
		}
		best = math.Max(best, math.Hypot(re, im))
	}
	return best
}
