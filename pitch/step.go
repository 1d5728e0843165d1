package pitch

// Step identifies a position in the chromatic scale starting at C, including
// the enharmonic aliases (BSharp, DFlat, ...). Aliases that share a degree are
// interchangeable for distance but not for display.
type Step uint8

const (
	SilentStep Step = iota // no pitch sounded (a rest)
	C
	BSharp
	CSharp
	DFlat
	D
	DSharp
	EFlat
	E
	FFlat
	F
	ESharp
	FSharp
	GFlat
	G
	GSharp
	AFlat
	A
	ASharp
	BFlat
	B
	CFlat
)

type stepInfo struct {
	degree int        // chromatic degree 1..12, 0 for silent
	letter Step       // natural letter the step is written with
	alter  Alteration // accidental implied by an alias
	name   string
}

var stepTable = [...]stepInfo{
	SilentStep: {0, SilentStep, Natural, ""},
	C:          {1, C, Natural, "C"},
	BSharp:     {1, B, Sharp, "B#"},
	CSharp:     {2, C, Sharp, "C#"},
	DFlat:      {2, D, Flat, "Db"},
	D:          {3, D, Natural, "D"},
	DSharp:     {4, D, Sharp, "D#"},
	EFlat:      {4, E, Flat, "Eb"},
	E:          {5, E, Natural, "E"},
	FFlat:      {5, F, Flat, "Fb"},
	F:          {6, F, Natural, "F"},
	ESharp:     {6, E, Sharp, "E#"},
	FSharp:     {7, F, Sharp, "F#"},
	GFlat:      {7, G, Flat, "Gb"},
	G:          {8, G, Natural, "G"},
	GSharp:     {9, G, Sharp, "G#"},
	AFlat:      {9, A, Flat, "Ab"},
	A:          {10, A, Natural, "A"},
	ASharp:     {11, A, Sharp, "A#"},
	BFlat:      {11, B, Flat, "Bb"},
	B:          {12, B, Natural, "B"},
	CFlat:      {12, C, Flat, "Cb"},
}

// letters in diatonic order; the index is the letter's position within an octave
var letters = [7]Step{C, D, E, F, G, A, B}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return int(s) < len(stepTable)
}

// Degree returns the chromatic degree (1..12) of the step, 0 for SilentStep.
func (s Step) Degree() int {
	if !s.Valid() {
		return 0
	}
	return stepTable[s].degree
}

// Letter returns the natural letter the step is written with (CSharp -> C).
func (s Step) Letter() Step {
	if !s.Valid() {
		return SilentStep
	}
	return stepTable[s].letter
}

// Alter returns the accidental implied by an alias step (CSharp -> Sharp).
func (s Step) Alter() Alteration {
	if !s.Valid() {
		return Natural
	}
	return stepTable[s].alter
}

// IsLetter reports whether s is one of the seven natural letters.
func (s Step) IsLetter() bool {
	return s != SilentStep && s.Valid() && stepTable[s].letter == s
}

func (s Step) String() string {
	if !s.Valid() {
		return "?"
	}
	return stepTable[s].name
}

// letterIndex returns 0..6 for C..B, or -1 if s is not a natural letter.
func (s Step) letterIndex() int {
	for i, l := range letters {
		if l == s {
			return i
		}
	}
	return -1
}

// StepForLetter maps an upper- or lower-case letter A..G to its Step.
func StepForLetter(r rune) (Step, bool) {
	switch r {
	case 'C', 'c':
		return C, true
	case 'D', 'd':
		return D, true
	case 'E', 'e':
		return E, true
	case 'F', 'f':
		return F, true
	case 'G', 'g':
		return G, true
	case 'A', 'a':
		return A, true
	case 'B', 'b':
		return B, true
	}
	return SilentStep, false
}
