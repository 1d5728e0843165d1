package pitch

import "errors"

var (
	// ErrMalformedToken is returned when a pitch token does not match
	// <Letter>[<Accidental>][<Octave>].
	ErrMalformedToken = errors.New("malformed pitch token")

	// ErrInvalidMagnitude is returned for |alteration| > 2 or a negative
	// step count passed to Increment/Decrement.
	ErrInvalidMagnitude = errors.New("invalid magnitude")

	// ErrOutOfRange is returned when a constructed pitch lies outside C0..C10
	// (range steps 0..120). Arithmetic saturates instead.
	ErrOutOfRange = errors.New("pitch out of range")

	// ErrInvalidPreference is returned for an accidental preference other
	// than sharps, flats or none.
	ErrInvalidPreference = errors.New("invalid accidental preference")
)
