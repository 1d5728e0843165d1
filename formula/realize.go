package formula

import (
	"fmt"

	"github.com/RyanBlaney/sonido-nota/pitch"
)

// PreferenceSource supplies the accidental preference for a realization,
// typically a key whose signature leans sharp or flat.
type PreferenceSource interface {
	AlterationPreference() pitch.Preference
}

// CreatePitches realizes f from root. Each pitch is the root raised by the
// running sum of increments and re-spelled to agree with pref. An
// octave-neutral root yields octave-neutral pitches.
//
// The [0] formula yields the root alone.
func CreatePitches(f Formula, root pitch.Pitch, pref pitch.Preference) ([]pitch.Pitch, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if root.IsSilent() {
		return nil, fmt.Errorf("realize %s from a rest: %w", f, ErrInvalidRoot)
	}
	if !pref.Valid() {
		return nil, fmt.Errorf("realize %s: %w", f, pitch.ErrInvalidPreference)
	}
	if f.IsUnpitched() {
		return []pitch.Pitch{root}, nil
	}

	out := make([]pitch.Pitch, 0, len(f)+1)
	out = append(out, root)
	step := 0
	for _, n := range f {
		step += n
		var (
			next pitch.Pitch
			err  error
		)
		if root.IsOctaveNeutral() {
			next, err = root.IncrementPitchOnly(step, pref)
		} else {
			next, err = root.IncrementPreferring(step, pref)
		}
		if err != nil {
			return nil, fmt.Errorf("realize %s from %s: %w", f, root, err)
		}
		out = append(out, next)
	}
	return out, nil
}

// Realize is CreatePitches with the preference taken from src.
func Realize(f Formula, root pitch.Pitch, src PreferenceSource) ([]pitch.Pitch, error) {
	if src == nil {
		return nil, fmt.Errorf("realize %s from %s: %w", f, root, ErrMissingPreference)
	}
	return CreatePitches(f, root, src.AlterationPreference())
}

// PreferenceFunc adapts a plain preference to a PreferenceSource.
type PreferenceFunc func() pitch.Preference

func (fn PreferenceFunc) AlterationPreference() pitch.Preference { return fn() }

// Fixed returns a PreferenceSource that always answers pref.
func Fixed(pref pitch.Preference) PreferenceSource {
	return PreferenceFunc(func() pitch.Preference { return pref })
}
