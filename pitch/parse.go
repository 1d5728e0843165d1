package pitch

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a pitch token of the form <Letter>[<Accidental>][<Octave>]:
// a letter A..G (either case), an optional accidental (#, ##, b, bb) and an
// optional octave 0..10. Octave 10 exists only so the top of the range, C10,
// can be written; "C#10" and above are ErrOutOfRange. A token without an
// octave is octave-neutral. "R" parses as Silent.
//
// Examples: "C4", "F#5", "Bb", "Cbb3", "B#9", "C10".
func Parse(token string) (Pitch, error) {
	s := strings.TrimSpace(token)
	if s == "" {
		return Silent, fmt.Errorf("empty token: %w", ErrMalformedToken)
	}
	if s == "R" || s == "r" {
		return Silent, nil
	}

	letter, ok := StepForLetter(rune(s[0]))
	if !ok {
		return Silent, fmt.Errorf("%q: bad letter: %w", token, ErrMalformedToken)
	}
	rest := s[1:]

	alt := Natural
	switch {
	case strings.HasPrefix(rest, "##"):
		alt, rest = DoubleSharp, rest[2:]
	case strings.HasPrefix(rest, "#"):
		alt, rest = Sharp, rest[1:]
	case strings.HasPrefix(rest, "bb"):
		alt, rest = DoubleFlat, rest[2:]
	case strings.HasPrefix(rest, "b"):
		alt, rest = Flat, rest[1:]
	}

	// a third accidental is a magnitude error, not a syntax error
	if strings.HasPrefix(rest, "#") || strings.HasPrefix(rest, "b") {
		return Silent, fmt.Errorf("%q: more than two accidentals: %w", token, ErrInvalidMagnitude)
	}

	octave := NoOctave
	if rest != "" {
		n, err := strconv.Atoi(rest)
		if err != nil || rest[0] == '+' || rest[0] == '-' {
			return Silent, fmt.Errorf("%q: bad octave %q: %w", token, rest, ErrMalformedToken)
		}
		if n > MaxOctave {
			return Silent, fmt.Errorf("%q: octave %d: %w", token, n, ErrOutOfRange)
		}
		octave = n
	}

	return New(letter, octave, alt)
}

// MustParse is like Parse but panics on error.
func MustParse(token string) Pitch {
	p, err := Parse(token)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders p in the token form accepted by Parse. Silent renders as "R".
func (p Pitch) String() string {
	if p.IsSilent() {
		return "R"
	}
	if p.IsOctaveNeutral() {
		return p.Name()
	}
	return p.Name() + strconv.Itoa(p.octave)
}

// Name returns the letter and accidental without the octave ("F#", "Bb").
// Silent is "R".
func (p Pitch) Name() string {
	if p.IsSilent() {
		return "R"
	}
	return p.step.String() + p.alteration.String()
}

// Quoted returns the token wrapped in double quotes.
func (p Pitch) Quoted() string {
	return strconv.Quote(p.String())
}
