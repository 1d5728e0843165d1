// Package analysis computes descriptive statistics of pitch material:
// pitch-class distributions, register statistics and the discrete Fourier
// magnitudes of pitch-class sets.
package analysis

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sonido-nota/pitch"
)

// ErrNoPitches is returned when the input holds no usable pitches.
var ErrNoPitches = errors.New("no pitches to analyze")

var pitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClass is one pitch class of a profile with its share of the total
type PitchClass struct {
	Class  int     `json:"class"` // 0=C .. 11=B
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// PitchClassProfile represents a pitch class distribution
type PitchClassProfile struct {
	Profile    []float64 `json:"profile"`    // 12 weights summing to 1
	Count      int       `json:"count"`      // sounded pitches counted
	Entropy    float64   `json:"entropy"`    // Shannon entropy in bits
	Centroid   float64   `json:"centroid"`   // circular mean, 0..12
	Spread     float64   `json:"spread"`     // circular deviation around the centroid
	Uniformity float64   `json:"uniformity"` // 1 for a flat distribution, 0 for a single class
}

// Profile builds the pitch-class distribution of pitches. Rests are
// skipped; octave-neutral pitches count like any other.
func Profile(pitches []pitch.Pitch) (*PitchClassProfile, error) {
	profile := make([]float64, 12)
	count := 0
	for _, p := range pitches {
		if p.IsSilent() {
			continue
		}
		profile[p.PitchClass()]++
		count++
	}
	if count == 0 {
		return nil, ErrNoPitches
	}
	return newProfile(profile, count), nil
}

// ProfileOfClasses builds a profile directly from pitch-class weights.
// Negative weights are rejected.
func ProfileOfClasses(weights []float64) (*PitchClassProfile, error) {
	if len(weights) != 12 || floats.Min(weights) < 0 || floats.Sum(weights) == 0 {
		return nil, ErrNoPitches
	}
	return newProfile(append([]float64(nil), weights...), 0), nil
}

func newProfile(profile []float64, count int) *PitchClassProfile {
	floats.Scale(1/floats.Sum(profile), profile)

	centroid := calculateCentroid(profile)
	return &PitchClassProfile{
		Profile:    profile,
		Count:      count,
		Entropy:    stat.Entropy(profile) / math.Ln2,
		Centroid:   centroid,
		Spread:     calculateSpread(profile, centroid),
		Uniformity: calculateUniformity(profile),
	}
}

// Dominant returns the heaviest pitch class. Ties go to the lowest class.
func (p *PitchClassProfile) Dominant() PitchClass {
	pc := floats.MaxIdx(p.Profile)
	return PitchClass{Class: pc, Name: pitchClassNames[pc], Weight: p.Profile[pc]}
}

// Classes returns the pitch classes with a weight of at least threshold,
// heaviest first.
func (p *PitchClassProfile) Classes(threshold float64) []PitchClass {
	var out []PitchClass
	for pc, w := range p.Profile {
		if w > 0 && w >= threshold {
			out = append(out, PitchClass{Class: pc, Name: pitchClassNames[pc], Weight: w})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}

// Transposed returns a copy of the profile moved up by semitones.
func (p *PitchClassProfile) Transposed(semitones int) *PitchClassProfile {
	moved := make([]float64, 12)
	for i, w := range p.Profile {
		moved[((i+semitones)%12+12)%12] = w
	}
	return newProfile(moved, p.Count)
}

// Similarity returns the cosine similarity of two profiles.
func (p *PitchClassProfile) Similarity(other *PitchClassProfile) float64 {
	na, nb := floats.Norm(p.Profile, 2), floats.Norm(other.Profile, 2)
	if na < 1e-10 || nb < 1e-10 {
		return 0
	}
	return floats.Dot(p.Profile, other.Profile) / (na * nb)
}

// BestTransposition finds the upward transposition of template that
// correlates best with the profile.
func (p *PitchClassProfile) BestTransposition(template *PitchClassProfile) (int, float64) {
	best, bestCorr := 0, math.Inf(-1)
	for t := 0; t < 12; t++ {
		corr := stat.Correlation(p.Profile, template.Transposed(t).Profile, nil)
		if math.IsNaN(corr) {
			corr = 0
		}
		if corr > bestCorr {
			best, bestCorr = t, corr
		}
	}
	return best, bestCorr
}

// calculateCentroid uses the circular mean of pitch classes
func calculateCentroid(profile []float64) float64 {
	sumSin, sumCos := 0.0, 0.0
	for pc, weight := range profile {
		angle := 2.0 * math.Pi * float64(pc) / 12.0
		sumSin += weight * math.Sin(angle)
		sumCos += weight * math.Cos(angle)
	}
	if math.Abs(sumSin) < 1e-10 && math.Abs(sumCos) < 1e-10 {
		return 0
	}

	angle := math.Atan2(sumSin, sumCos)
	if angle < 0 {
		angle += 2.0 * math.Pi
	}
	return angle * 12.0 / (2.0 * math.Pi)
}

func calculateSpread(profile []float64, centroid float64) float64 {
	sum := 0.0
	for pc, weight := range profile {
		d := math.Abs(float64(pc) - centroid)
		d = math.Min(d, 12.0-d)
		sum += weight * d * d
	}
	return math.Sqrt(sum)
}

// calculateUniformity compares the deviation from a flat distribution with
// the deviation of a single pitch class.
func calculateUniformity(profile []float64) float64 {
	const mean = 1.0 / 12.0
	dev := 0.0
	for _, w := range profile {
		dev += (w - mean) * (w - mean)
	}
	maxDev := 11.0 / 12.0 // one class at 1, eleven at 0
	return 1.0 - math.Sqrt(dev/maxDev)
}
