package catalog

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-nota/pitch"
)

// Candidate is a catalog chord placed on a root and scored against a set of
// pitches.
type Candidate struct {
	Chord *ChordFormula
	Root  int     // pitch class of the chord root
	Score float64 // cosine similarity of the chord template and the input, plus any bass bonus
}

// Symbol renders the candidate with its root spelled in pref: "Bb7".
func (c Candidate) Symbol(pref pitch.Preference) string {
	return pitch.DefaultLattice().Lookup(pref, c.Root).Name() + c.Chord.Symbol()
}

// RankOptions controls Rank.
type RankOptions struct {
	MaxCandidates int     `json:"max_candidates" yaml:"max_candidates"` // 0 returns every candidate above MinScore
	MinScore      float64 `json:"min_score" yaml:"min_score"`
	// BassWeight is added when the lowest sounding pitch is the chord root.
	BassWeight float64 `json:"bass_weight" yaml:"bass_weight"`
}

// DefaultRankOptions returns five candidates scoring at least 0.5, with a
// small bonus for root position.
func DefaultRankOptions() RankOptions {
	return RankOptions{MaxCandidates: 5, MinScore: 0.5, BassWeight: 0.1}
}

// Rank scores every catalog chord at every root against the pitch classes of
// pitches, weighted by how often each sounds, and returns the best matches.
// Unlike Identify it tolerates missing and extra notes. Ties keep catalog
// order, then root order.
func (c *Catalog) Rank(pitches []pitch.Pitch, opts RankOptions) []Candidate {
	chroma := make([]float64, 12)
	bass := pitch.Silent
	for _, p := range pitches {
		if p.IsSilent() {
			continue
		}
		chroma[p.PitchClass()]++
		if !p.IsOctaveNeutral() && (bass.IsSilent() || p.Compare(bass) < 0) {
			bass = p
		}
	}
	norm := floats.Norm(chroma, 2)
	if norm == 0 {
		return nil
	}
	floats.Scale(1/norm, chroma)

	var out []Candidate
	template := make([]float64, 12)
	for _, ch := range c.chords {
		if len(ch.offsets) < 2 {
			continue
		}
		weight := 1 / math.Sqrt(float64(len(ch.offsets)))
		for root := range 12 {
			clear(template)
			for _, off := range ch.offsets {
				template[(root+off)%12] = weight
			}
			score := floats.Dot(chroma, template)
			if !bass.IsSilent() && bass.PitchClass() == root {
				score += opts.BassWeight
			}
			if score < opts.MinScore {
				continue
			}
			out = append(out, Candidate{Chord: ch, Root: root, Score: score})
		}
	}

	slices.SortStableFunc(out, func(a, b Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if opts.MaxCandidates > 0 && len(out) > opts.MaxCandidates {
		out = out[:opts.MaxCandidates]
	}
	return out
}
