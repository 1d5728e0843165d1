package analysis

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sonido-nota/pitch"
)

// Contour directions between successive pitches
const (
	Down   = -1
	Repeat = 0
	Up     = 1
)

// Register contains register and melodic statistics of a pitch sequence
type Register struct {
	Count   int         `json:"count"`
	Lowest  pitch.Pitch `json:"lowest"`
	Highest pitch.Pitch `json:"highest"`
	Span    int         `json:"span"` // semitones from lowest to highest

	// Range-step statistics
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`

	// Successive intervals in semitones, signed
	Intervals    []int   `json:"intervals"`
	MeanInterval float64 `json:"mean_interval"` // mean absolute interval
	LargestLeap  int     `json:"largest_leap"`
	Contour      []int   `json:"contour"` // Down, Repeat or Up per interval
}

// RegisterStats summarizes the register of pitches. Rests and
// octave-neutral pitches carry no register and are skipped.
func RegisterStats(pitches []pitch.Pitch) (*Register, error) {
	sounded := make([]pitch.Pitch, 0, len(pitches))
	for _, p := range pitches {
		if !p.IsSilent() && !p.IsOctaveNeutral() {
			sounded = append(sounded, p)
		}
	}
	if len(sounded) == 0 {
		return nil, ErrNoPitches
	}

	steps := make([]float64, len(sounded))
	for i, p := range sounded {
		steps[i] = float64(p.RangeStep())
	}

	r := &Register{
		Count:   len(sounded),
		Lowest:  slices.MinFunc(sounded, pitch.Pitch.Compare),
		Highest: slices.MaxFunc(sounded, pitch.Pitch.Compare),
		Mean:    stat.Mean(steps, nil),
	}
	r.Span = r.Lowest.Difference(r.Highest)
	if len(steps) > 1 {
		r.StdDev = stat.StdDev(steps, nil)
	}
	sorted := slices.Clone(steps)
	slices.Sort(sorted)
	r.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	if len(sounded) > 1 {
		r.Intervals = make([]int, 0, len(sounded)-1)
		r.Contour = make([]int, 0, len(sounded)-1)
		abs := make([]float64, 0, len(sounded)-1)
		for i := 1; i < len(sounded); i++ {
			d := sounded[i-1].Difference(sounded[i])
			r.Intervals = append(r.Intervals, d)
			r.Contour = append(r.Contour, sign(d))
			abs = append(abs, math.Abs(float64(d)))
			if a := int(math.Abs(float64(d))); a > r.LargestLeap {
				r.LargestLeap = a
			}
		}
		r.MeanInterval = stat.Mean(abs, nil)
	}
	return r, nil
}

func sign(n int) int {
	switch {
	case n < 0:
		return Down
	case n > 0:
		return Up
	}
	return Repeat
}
