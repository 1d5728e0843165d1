package pitch

import (
	"fmt"
	"strings"
)

// Alteration is a signed accidental amount in semitones.
type Alteration int8

const (
	DoubleFlat  Alteration = -2
	Flat        Alteration = -1
	Natural     Alteration = 0
	Sharp       Alteration = 1
	DoubleSharp Alteration = 2
)

// Valid reports whether the magnitude of a is at most 2.
func (a Alteration) Valid() bool {
	return a >= DoubleFlat && a <= DoubleSharp
}

// Sign returns -1, 0 or 1.
func (a Alteration) Sign() int {
	switch {
	case a < 0:
		return -1
	case a > 0:
		return 1
	}
	return 0
}

// String renders the accidental the way pitch tokens spell it ("", "#", "##", "b", "bb").
func (a Alteration) String() string {
	switch a {
	case DoubleFlat:
		return "bb"
	case Flat:
		return "b"
	case Natural:
		return ""
	case Sharp:
		return "#"
	case DoubleSharp:
		return "##"
	}
	return fmt.Sprintf("alteration(%d)", int8(a))
}

// Preference is the bias used to choose between enharmonically equivalent
// spellings: favor sharps, favor flats, or no preference.
type Preference int8

const (
	PreferFlats  Preference = -1
	PreferNone   Preference = 0
	PreferSharps Preference = 1
)

// Valid reports whether p is one of the three defined preferences.
func (p Preference) Valid() bool {
	return p >= PreferFlats && p <= PreferSharps
}

func (p Preference) String() string {
	switch p {
	case PreferFlats:
		return "flats"
	case PreferNone:
		return "none"
	case PreferSharps:
		return "sharps"
	}
	return fmt.Sprintf("preference(%d)", int8(p))
}

// ParsePreference accepts "sharps", "flats" or "none" (also "#", "b", "").
func ParsePreference(s string) (Preference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sharps", "sharp", "#":
		return PreferSharps, nil
	case "flats", "flat", "b":
		return PreferFlats, nil
	case "none", "":
		return PreferNone, nil
	}
	return PreferNone, fmt.Errorf("unknown accidental preference %q: %w", s, ErrInvalidPreference)
}

// PreferenceOf returns the preference implied by an accidental.
func PreferenceOf(a Alteration) Preference {
	return Preference(a.Sign())
}
