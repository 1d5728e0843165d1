package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-nota/pitch"
)

// TonalCentroid is a point in six-dimensional tonal space: the weighted mean
// of each pitch class projected onto three circles. Coordinates 0-1 lie on
// the circle of fifths, 2-3 on the circle of minor thirds and 4-5 on the
// circle of major thirds (radius 0.5). Harmonically related chords are close.
type TonalCentroid [6]float64

var (
	tonnetzAngles = [3]float64{7 * math.Pi / 6, 3 * math.Pi / 2, 2 * math.Pi / 3}
	tonnetzRadii  = [3]float64{1, 1, 0.5}
)

// tonnetzPoint is the position of a single pitch class.
func tonnetzPoint(pc int) TonalCentroid {
	var p TonalCentroid
	for d := range 3 {
		angle := float64(pc) * tonnetzAngles[d]
		p[2*d] = tonnetzRadii[d] * math.Sin(angle)
		p[2*d+1] = tonnetzRadii[d] * math.Cos(angle)
	}
	return p
}

// Tonnetz computes the tonal centroid of pitches, weighting each pitch class
// by how often it sounds.
func Tonnetz(pitches []pitch.Pitch) (TonalCentroid, error) {
	p, err := Profile(pitches)
	if err != nil {
		return TonalCentroid{}, err
	}
	return p.Tonnetz(), nil
}

// Tonnetz projects the profile into tonal space.
func (p *PitchClassProfile) Tonnetz() TonalCentroid {
	var c TonalCentroid
	for pc, w := range p.Profile {
		if w == 0 {
			continue
		}
		pt := tonnetzPoint(pc)
		floats.AddScaled(c[:], w, pt[:])
	}
	return c
}

// Distance is the Euclidean distance between two centroids.
func (c TonalCentroid) Distance(other TonalCentroid) float64 {
	return floats.Distance(c[:], other[:], 2)
}

// Movement describes how far a chord progression travels in tonal space.
type Movement struct {
	Centroids []TonalCentroid `json:"centroids"`
	Steps     []float64       `json:"steps"` // distance from each chord to the next
	Total     float64         `json:"total"`
	Mean      float64         `json:"mean"`
	Largest   float64         `json:"largest"`
	// Index of the chord that ends the largest step
	LargestAt int `json:"largest_at"`
}

// HarmonicChange measures the movement between successive chords. Chords
// with no sounding pitch are skipped; at least one chord must sound.
func HarmonicChange(chords ...[]pitch.Pitch) (*Movement, error) {
	m := &Movement{}
	for _, chord := range chords {
		c, err := Tonnetz(chord)
		if err != nil {
			continue
		}
		m.Centroids = append(m.Centroids, c)
	}
	if len(m.Centroids) == 0 {
		return nil, ErrNoPitches
	}
	for i := 1; i < len(m.Centroids); i++ {
		m.Steps = append(m.Steps, m.Centroids[i-1].Distance(m.Centroids[i]))
	}
	if len(m.Steps) > 0 {
		m.Total = floats.Sum(m.Steps)
		m.Mean = m.Total / float64(len(m.Steps))
		i := floats.MaxIdx(m.Steps)
		m.Largest = m.Steps[i]
		m.LargestAt = i + 1
	}
	return m, nil
}
