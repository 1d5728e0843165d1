// Package key models the thirty conventional major and minor keys: their
// signatures, tonic, diatonic spelling and the accidental preference they
// imply for formula realization. It also estimates the most likely key of
// a pitch sequence by profile correlation.
package key

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/RyanBlaney/sonido-nota/pitch"
)

var (
	// ErrUnknownKey is returned when a key name is not one of the thirty keys.
	ErrUnknownKey = errors.New("unknown key")

	// ErrNoPitches is returned when estimation is asked to work on nothing
	// but rests.
	ErrNoPitches = errors.New("no sounded pitches")

	// ErrAmbiguous is returned when every pitch class occurs equally often
	// and no profile can be correlated.
	ErrAmbiguous = errors.New("no tonal center")
)

// Mode represents major or minor mode
type Mode int

const (
	Major Mode = iota
	Minor
)

func (m Mode) String() string {
	switch m {
	case Major:
		return "Major"
	case Minor:
		return "Minor"
	default:
		return "Unknown"
	}
}

// MarshalText renders the mode as "Major" or "Minor".
func (m Mode) MarshalText() ([]byte, error) {
	if m != Major && m != Minor {
		return nil, fmt.Errorf("mode %d: %w", int(m), ErrUnknownKey)
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts "major" or "minor" in any case.
func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "major":
		*m = Major
	case "minor":
		*m = Minor
	default:
		return fmt.Errorf("mode %q: %w", text, ErrUnknownKey)
	}
	return nil
}

var (
	majorOffsets = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorOffsets = [7]int{0, 2, 3, 5, 7, 8, 10}

	letters     = [7]pitch.Step{pitch.C, pitch.D, pitch.E, pitch.F, pitch.G, pitch.A, pitch.B}
	sharpsOrder = [7]pitch.Step{pitch.F, pitch.C, pitch.G, pitch.D, pitch.A, pitch.E, pitch.B}
	flatsOrder  = [7]pitch.Step{pitch.B, pitch.E, pitch.A, pitch.D, pitch.G, pitch.C, pitch.F}
)

// Key is one of the thirty named keys. Keys are immutable and shared; obtain
// them from Lookup, All, ForRoot or ForPitchClass.
type Key struct {
	name      string
	tonic     pitch.Pitch
	mode      Mode
	fifths    int
	signature []pitch.Pitch
	scale     []pitch.Pitch
}

// Name returns the canonical name, e.g. "F#-Minor".
func (k *Key) Name() string { return k.name }

// Tonic returns the octave-neutral root of the key.
func (k *Key) Tonic() pitch.Pitch { return k.tonic }

func (k *Key) Mode() Mode { return k.mode }

// Fifths is the signature position on the circle of fifths: positive for
// sharps, negative for flats.
func (k *Key) Fifths() int { return k.fifths }

// Signature returns the octave-neutral accidentals of the key signature in
// the order they are written. C major and A minor have an empty signature.
func (k *Key) Signature() []pitch.Pitch { return slices.Clone(k.signature) }

// Scale returns the seven diatonic pitches of the key, octave-neutral and
// spelled with one pitch per letter (the natural minor for minor keys).
func (k *Key) Scale() []pitch.Pitch { return slices.Clone(k.scale) }

func (k *Key) String() string { return k.name }

// AlterationPreference derives the accidental preference from the first
// accidental of the signature: sharps for sharp keys, flats for flat keys
// and none for C major / A minor.
func (k *Key) AlterationPreference() pitch.Preference {
	if len(k.signature) == 0 {
		return pitch.PreferNone
	}
	return pitch.PreferenceOf(k.signature[0].Alteration())
}

// ChromaticDegree returns the chromatic degree of p counted from the tonic
// (the tonic is 1, the leading tone of a major key is 12).
func (k *Key) ChromaticDegree(p pitch.Pitch) int {
	return p.ChromaticScaleDegreeIn(k.tonic)
}

// Contains reports whether p's pitch class is diatonic in the key.
func (k *Key) Contains(p pitch.Pitch) bool {
	if p.IsSilent() {
		return false
	}
	return slices.ContainsFunc(k.scale, p.Equals)
}

// Degree returns the diatonic scale degree 1..7 of p, matched by spelling,
// or 0 when p's letter and accidental are not in the key.
func (k *Key) Degree(p pitch.Pitch) int {
	for i, s := range k.scale {
		if s.Step() == p.Step() && s.Alteration() == p.Alteration() {
			return i + 1
		}
	}
	return 0
}

// Relative returns the relative major or minor, which shares the signature.
func (k *Key) Relative() *Key {
	other := Major
	if k.mode == Major {
		other = Minor
	}
	rel, _ := byFifths(k.fifths, other)
	return rel
}

// Parallel returns the key with the same tonic and the other mode, if it is
// one of the thirty keys (there is no Cb minor, for example).
func (k *Key) Parallel() (*Key, bool) {
	other := Major
	if k.mode == Major {
		other = Minor
	}
	return ForRoot(k.tonic, other)
}

// Dominant returns the key a fifth above in the same mode.
func (k *Key) Dominant() (*Key, bool) { return byFifths(k.fifths+1, k.mode) }

// Subdominant returns the key a fifth below in the same mode.
func (k *Key) Subdominant() (*Key, bool) { return byFifths(k.fifths-1, k.mode) }

// IsCompatible reports whether other is the same key or a closely related
// one: relative, parallel, dominant or subdominant.
func (k *Key) IsCompatible(other *Key) bool {
	if other == nil {
		return false
	}
	switch {
	case k == other, k.Relative() == other:
		return true
	case k.tonic.Equals(other.tonic) && k.mode != other.mode:
		return true
	case k.mode == other.mode && abs(k.fifths-other.fifths) == 1:
		return true
	}
	return false
}

// MarshalText renders the key by name.
func (k *Key) MarshalText() ([]byte, error) { return []byte(k.name), nil }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// majors lists each major tonic with its signature position; the relative
// minor is a minor third below.
var majors = []struct {
	tonic  string
	fifths int
}{
	{"C", 0}, {"G", 1}, {"D", 2}, {"A", 3}, {"E", 4}, {"B", 5}, {"F#", 6}, {"C#", 7},
	{"F", -1}, {"Bb", -2}, {"Eb", -3}, {"Ab", -4}, {"Db", -5}, {"Gb", -6}, {"Cb", -7},
}

var (
	registryOnce sync.Once
	registry     []*Key
	byName       map[string]*Key
)

func keys() []*Key {
	registryOnce.Do(func() {
		registry = make([]*Key, 0, 2*len(majors))
		byName = make(map[string]*Key, 2*len(majors))
		for _, m := range majors {
			tonic := pitch.MustParse(m.tonic)
			minorTonic, err := tonic.DecrementPitchOnly(3, preferenceFor(m.fifths))
			if err != nil {
				panic(err)
			}
			for _, k := range []*Key{newKey(tonic, Major, m.fifths), newKey(minorTonic, Minor, m.fifths)} {
				registry = append(registry, k)
				byName[normalize(k.name)] = k
			}
		}
	})
	return registry
}

func preferenceFor(fifths int) pitch.Preference {
	switch {
	case fifths > 0:
		return pitch.PreferSharps
	case fifths < 0:
		return pitch.PreferFlats
	}
	return pitch.PreferNone
}

func newKey(tonic pitch.Pitch, mode Mode, fifths int) *Key {
	k := &Key{
		name:   tonic.Name() + "-" + mode.String(),
		tonic:  tonic,
		mode:   mode,
		fifths: fifths,
	}
	for i := 0; i < abs(fifths); i++ {
		if fifths > 0 {
			k.signature = append(k.signature, pitch.MustNew(sharpsOrder[i], pitch.NoOctave, pitch.Sharp))
		} else {
			k.signature = append(k.signature, pitch.MustNew(flatsOrder[i], pitch.NoOctave, pitch.Flat))
		}
	}
	k.scale = spellScale(tonic, mode)
	return k
}

// spellScale walks the letters upward from the tonic and gives each the
// accidental that lands it on the next diatonic pitch class.
func spellScale(tonic pitch.Pitch, mode Mode) []pitch.Pitch {
	offsets := majorOffsets
	if mode == Minor {
		offsets = minorOffsets
	}
	start := slices.Index(letters[:], tonic.Step())
	out := make([]pitch.Pitch, 0, len(offsets))
	for i, off := range offsets {
		letter := letters[(start+i)%len(letters)]
		natural := pitch.MustNew(letter, pitch.NoOctave, pitch.Natural).PitchClass()
		alt := ((tonic.PitchClass()+off-natural)%12 + 12) % 12
		if alt > 6 {
			alt -= 12
		}
		out = append(out, pitch.MustNew(letter, pitch.NoOctave, pitch.Alteration(alt)))
	}
	return out
}

func normalize(name string) string {
	s := strings.TrimSpace(name)
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	return strings.ToLower(s)
}

func byFifths(fifths int, mode Mode) (*Key, bool) {
	for _, k := range keys() {
		if k.fifths == fifths && k.mode == mode {
			return k, true
		}
	}
	return nil, false
}

// All returns the thirty keys in circle-of-fifths order, each major
// followed by its relative minor.
func All() []*Key {
	return slices.Clone(keys())
}

// Lookup finds a key by name. Names are matched case-insensitively and
// spaces or underscores may stand in for the hyphen: "F#-Minor",
// "f# minor" and "F#_minor" are the same key.
func Lookup(name string) (*Key, error) {
	keys()
	if k, ok := byName[normalize(name)]; ok {
		return k, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownKey)
}

// MustLookup is like Lookup but panics on error.
func MustLookup(name string) *Key {
	k, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return k
}

// ForRoot returns the key whose tonic is spelled like root in the given
// mode. The octave of root is ignored.
func ForRoot(root pitch.Pitch, mode Mode) (*Key, bool) {
	for _, k := range keys() {
		if k.mode == mode && k.tonic.Step() == root.Step() && k.tonic.Alteration() == root.Alteration() {
			return k, true
		}
	}
	return nil, false
}

// ForPitchClass returns the key on pitch class pc (0 = C) in the given mode
// with the fewest accidentals. Sharp keys win the six-accidental tie.
func ForPitchClass(pc int, mode Mode) *Key {
	pc = ((pc % 12) + 12) % 12
	var best *Key
	for _, k := range keys() {
		if k.mode != mode || k.tonic.PitchClass() != pc {
			continue
		}
		if best == nil || abs(k.fifths) < abs(best.fifths) {
			best = k
		}
	}
	return best
}
