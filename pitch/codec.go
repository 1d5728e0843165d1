package pitch

import (
	"encoding/json"
	"fmt"
)

// Notation is the written form of a pitch split into parts.
type Notation struct {
	Step   Step       `json:"step"`
	Alter  Alteration `json:"alter"`
	Octave int        `json:"octave"`
}

// Notation returns the letter, accidental and octave of p. Octave is
// NoOctave for octave-neutral pitches.
func (p Pitch) Notation() Notation {
	return Notation{Step: p.step, Alter: p.alteration, Octave: p.octave}
}

// pitchRecord is the JSON shape of a Pitch.
type pitchRecord struct {
	Step          string `json:"step"`
	Octave        int    `json:"octave"`
	Alteration    int    `json:"alteration"`
	RangeStep     int    `json:"rangeStep"`
	StepValue     int    `json:"stepValue"`
	OctaveNeutral bool   `json:"octaveNeutral"`
}

// MarshalJSON encodes p as a record carrying its spelling and derived values.
func (p Pitch) MarshalJSON() ([]byte, error) {
	step := p.step.String()
	if p.IsSilent() {
		step = "R"
	}
	return json.Marshal(pitchRecord{
		Step:          step,
		Octave:        p.octave,
		Alteration:    int(p.alteration),
		RangeStep:     p.rangeStep,
		StepValue:     p.StepValue(),
		OctaveNeutral: p.IsOctaveNeutral(),
	})
}

// UnmarshalJSON accepts either the record written by MarshalJSON or a plain
// token string such as "F#4". Derived fields in the record are recomputed.
// A JSON null leaves p unchanged.
func (p *Pitch) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		q, err := Parse(token)
		if err != nil {
			return err
		}
		*p = q
		return nil
	}

	var rec pitchRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decode pitch: %w", err)
	}
	if rec.Step == "R" || rec.Step == "" {
		*p = Silent
		return nil
	}
	if len(rec.Step) != 1 {
		return fmt.Errorf("pitch step %q: %w", rec.Step, ErrMalformedToken)
	}
	letter, ok := StepForLetter(rune(rec.Step[0]))
	if !ok {
		return fmt.Errorf("pitch step %q: %w", rec.Step, ErrMalformedToken)
	}
	octave := rec.Octave
	if rec.OctaveNeutral {
		octave = NoOctave
	}
	if rec.Alteration < int(DoubleFlat) || rec.Alteration > int(DoubleSharp) {
		return fmt.Errorf("pitch alteration %d: %w", rec.Alteration, ErrInvalidMagnitude)
	}
	q, err := New(letter, octave, Alteration(rec.Alteration))
	if err != nil {
		return err
	}
	*p = q
	return nil
}

// MarshalText encodes p as its token, which also makes Pitch usable as a
// YAML scalar and as a JSON map key.
func (p Pitch) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a token.
func (p *Pitch) UnmarshalText(text []byte) error {
	q, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = q
	return nil
}
