package pitch

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// PitchSet is an ordered collection of pitches. Duplicates are allowed
// (doubled notes in a voicing); Unique gives the duplicate-free view.
//
// A PitchSet is owned by one caller. Share it across goroutines only through
// Clone.
type PitchSet struct {
	pitches []Pitch
}

// NewPitchSet returns a set holding a copy of pitches.
func NewPitchSet(pitches ...Pitch) *PitchSet {
	return &PitchSet{pitches: slices.Clone(pitches)}
}

// ParsePitchSet parses whitespace or comma separated tokens, e.g. "C4 E4 G4".
func ParsePitchSet(s string) (*PitchSet, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	ps := &PitchSet{pitches: make([]Pitch, 0, len(fields))}
	for _, f := range fields {
		p, err := Parse(f)
		if err != nil {
			return nil, fmt.Errorf("pitch set %q: %w", s, err)
		}
		ps.pitches = append(ps.pitches, p)
	}
	return ps, nil
}

// Clone returns an independent copy of ps.
func (ps *PitchSet) Clone() *PitchSet {
	return NewPitchSet(ps.pitches...)
}

// Add appends p, even if an equal pitch is already present.
func (ps *PitchSet) Add(p Pitch) {
	ps.pitches = append(ps.pitches, p)
}

// AddUnique appends p unless an enharmonically equal member exists. It
// reports whether p was added.
func (ps *PitchSet) AddUnique(p Pitch) bool {
	if ps.Contains(p) {
		return false
	}
	ps.pitches = append(ps.pitches, p)
	return true
}

// Contains reports whether a member sounds the same as p.
func (ps *PitchSet) Contains(p Pitch) bool {
	return slices.ContainsFunc(ps.pitches, p.Equals)
}

// Remove deletes the first member equal to p and reports whether one was found.
func (ps *PitchSet) Remove(p Pitch) bool {
	i := slices.IndexFunc(ps.pitches, p.Equals)
	if i < 0 {
		return false
	}
	ps.pitches = slices.Delete(ps.pitches, i, i+1)
	return true
}

// Len returns the number of members including duplicates.
func (ps *PitchSet) Len() int { return len(ps.pitches) }

// At returns the member at index i. It panics if i is out of range.
func (ps *PitchSet) At(i int) Pitch { return ps.pitches[i] }

// Pitches returns a copy of the members in order.
func (ps *PitchSet) Pitches() []Pitch { return slices.Clone(ps.pitches) }

// Unique returns the members in order with later enharmonic duplicates dropped.
func (ps *PitchSet) Unique() []Pitch {
	out := make([]Pitch, 0, len(ps.pitches))
	for _, p := range ps.pitches {
		if !slices.ContainsFunc(out, p.Equals) {
			out = append(out, p)
		}
	}
	return out
}

// IsOctaveNeutral reports whether every member is octave-neutral. An empty
// set is octave-neutral.
func (ps *PitchSet) IsOctaveNeutral() bool {
	for _, p := range ps.pitches {
		if !p.IsOctaveNeutral() {
			return false
		}
	}
	return true
}

// Retrograde returns a new set with the members in reverse order.
func (ps *PitchSet) Retrograde() *PitchSet {
	out := ps.Clone()
	slices.Reverse(out.pitches)
	return out
}

// Inversion returns a new set starting at start that repeats the interval
// sequence of ps in the same direction. Use MirrorInversion for the
// classical inversion with negated intervals.
func (ps *PitchSet) Inversion(start Pitch) *PitchSet {
	return ps.walk(start, 1)
}

// MirrorInversion returns a new set starting at start in which every interval
// of ps is negated.
func (ps *PitchSet) MirrorInversion(start Pitch) *PitchSet {
	return ps.walk(start, -1)
}

// RetrogradeInversion is the retrograde of the mirror inversion around the
// first member.
func (ps *PitchSet) RetrogradeInversion() *PitchSet {
	if len(ps.pitches) == 0 {
		return &PitchSet{}
	}
	return ps.MirrorInversion(ps.pitches[0]).Retrograde()
}

func (ps *PitchSet) walk(start Pitch, sign int) *PitchSet {
	out := &PitchSet{pitches: make([]Pitch, 0, len(ps.pitches))}
	if len(ps.pitches) == 0 {
		return out
	}
	out.pitches = append(out.pitches, start)
	for i := 1; i < len(ps.pitches); i++ {
		interval := ps.pitches[i-1].Difference(ps.pitches[i])
		out.pitches = append(out.pitches, out.pitches[i-1].shift(sign*interval))
	}
	return out
}

// Transpose shifts every member by n semitones in place (negative n moves
// down). Members saturate at the ends of the range.
func (ps *PitchSet) Transpose(n int) {
	for i, p := range ps.pitches {
		ps.pitches[i] = p.shift(n)
	}
}

// Transposed returns a transposed copy and leaves ps unchanged.
func (ps *PitchSet) Transposed(n int) *PitchSet {
	out := ps.Clone()
	out.Transpose(n)
	return out
}

// Same reports whether ps and other hold the same sounding pitches,
// ignoring order and duplicates.
func (ps *PitchSet) Same(other *PitchSet) bool {
	a, b := ps.Unique(), other.Unique()
	if len(a) != len(b) {
		return false
	}
	for _, p := range a {
		if !slices.ContainsFunc(b, p.Equals) {
			return false
		}
	}
	return true
}

// Compare orders sets by size, then member by member by range step.
func (ps *PitchSet) Compare(other *PitchSet) int {
	if n := len(ps.pitches) - len(other.pitches); n != 0 {
		if n < 0 {
			return -1
		}
		return 1
	}
	for i := range ps.pitches {
		if c := ps.pitches[i].Compare(other.pitches[i]); c != 0 {
			return c
		}
	}
	return 0
}

func (ps *PitchSet) String() string {
	parts := make([]string, len(ps.pitches))
	for i, p := range ps.pitches {
		parts[i] = p.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

type pitchSetRecord struct {
	OctaveNeutral bool    `json:"octaveNeutral"`
	Pitches       []Pitch `json:"pitches"`
}

func (ps *PitchSet) MarshalJSON() ([]byte, error) {
	pitches := ps.pitches
	if pitches == nil {
		pitches = []Pitch{}
	}
	return json.Marshal(pitchSetRecord{OctaveNeutral: ps.IsOctaveNeutral(), Pitches: pitches})
}

func (ps *PitchSet) UnmarshalJSON(data []byte) error {
	var rec pitchSetRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decode pitch set: %w", err)
	}
	ps.pitches = rec.Pitches
	return nil
}
