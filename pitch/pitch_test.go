package pitch

import (
	"errors"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		token     string
		step      Step
		alt       Alteration
		octave    int
		rangeStep int
	}{
		{"C4", C, Natural, 4, 48},
		{"c4", C, Natural, 4, 48},
		{"F#5", F, Sharp, 5, 66},
		{"Bb", B, Flat, NoOctave, 10},
		{"Cb4", C, Flat, 4, 47},
		{"B#3", B, Sharp, 3, 48},
		{"cbb3", C, DoubleFlat, 3, 34},
		{"E##2", E, DoubleSharp, 2, 30},
		{"B#9", B, Sharp, 9, 120},
		{"C10", C, Natural, 10, 120},
		{"C0", C, Natural, 0, 0},
		{" G ", G, Natural, NoOctave, 7},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			p, err := Parse(tt.token)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.token, err)
			}
			if p.Step() != tt.step || p.Alteration() != tt.alt || p.Octave() != tt.octave {
				t.Errorf("Parse(%q) = (%s, %d, %d), want (%s, %d, %d)",
					tt.token, p.Step(), p.Alteration(), p.Octave(), tt.step, tt.alt, tt.octave)
			}
			if p.RangeStep() != tt.rangeStep {
				t.Errorf("Parse(%q).RangeStep() = %d, want %d", tt.token, p.RangeStep(), tt.rangeStep)
			}
		})
	}
}

func TestParseRest(t *testing.T) {
	for _, token := range []string{"R", "r"} {
		p, err := Parse(token)
		if err != nil {
			t.Fatalf("Parse(%q): %v", token, err)
		}
		if !p.IsSilent() || p != Silent {
			t.Errorf("Parse(%q) = %v, want Silent", token, p)
		}
	}
	if Silent.String() != "R" {
		t.Errorf("Silent.String() = %q", Silent.String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		token string
		want  error
	}{
		{"", ErrMalformedToken},
		{"H4", ErrMalformedToken},
		{"4C", ErrMalformedToken},
		{"C4x", ErrMalformedToken},
		{"C-1", ErrMalformedToken},
		{"C+1", ErrMalformedToken},
		{"C###4", ErrInvalidMagnitude},
		{"Cbbb", ErrInvalidMagnitude},
		{"Cb0", ErrOutOfRange},
		{"C11", ErrOutOfRange},
		{"B##9", ErrOutOfRange},
		{"C#10", ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			_, err := Parse(tt.token)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.token, err, tt.want)
			}
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic on a malformed token")
		}
	}()
	MustParse("X9")
}

// every spelling the engine can produce survives String/Parse unchanged
func TestRenderParseRoundTrip(t *testing.T) {
	l := DefaultLattice()
	var all []Pitch
	for _, pref := range []Preference{PreferSharps, PreferFlats} {
		for rs := MinRangeStep; rs <= MaxRangeStep; rs++ {
			p := l.Lookup(pref, rs)
			all = append(all, p, p.Enharmonic(), p.inOctave(NoOctave))
		}
	}
	for _, token := range []string{"B#4", "Cb4", "E#3", "Fb3", "B##4", "Cbb4", "Gbb", "A##"} {
		all = append(all, MustParse(token))
	}
	for _, p := range all {
		q, err := Parse(p.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", p, err)
		}
		if q != p {
			t.Errorf("Parse(%q) = %#v, want %#v", p, q, p)
		}
	}
}

func TestNewAliasSteps(t *testing.T) {
	a := MustNew(CSharp, 4, Natural)
	b := MustNew(C, 4, Sharp)
	if a != b {
		t.Errorf("New(CSharp, 4, Natural) = %v, want %v", a, b)
	}
	if p := MustNew(CSharp, 4, Sharp); p.Alteration() != DoubleSharp || p.RangeStep() != 50 {
		t.Errorf("New(CSharp, 4, Sharp) = %v (rs %d), want C##4 (rs 50)", p, p.RangeStep())
	}
	if _, err := New(CSharp, 4, DoubleSharp); !errors.Is(err, ErrInvalidMagnitude) {
		t.Errorf("New(CSharp, 4, DoubleSharp) error = %v, want ErrInvalidMagnitude", err)
	}
	if _, err := New(C, 4, Alteration(3)); !errors.Is(err, ErrInvalidMagnitude) {
		t.Errorf("New(C, 4, 3) error = %v, want ErrInvalidMagnitude", err)
	}
	if _, err := New(Step(99), 4, Natural); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("New(99, 4, 0) error = %v, want ErrMalformedToken", err)
	}
	if _, err := New(C, 11, Natural); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("New(C, 11, 0) error = %v, want ErrOutOfRange", err)
	}
}

func TestBoundarySpellings(t *testing.T) {
	cb4, b3 := MustParse("Cb4"), MustParse("B3")
	if cb4.RangeStep() != b3.RangeStep() {
		t.Errorf("Cb4 rs %d != B3 rs %d", cb4.RangeStep(), b3.RangeStep())
	}
	if !cb4.Equals(b3) {
		t.Error("Cb4 should equal B3")
	}
	if cb4.Octave() != 4 || b3.Octave() != 3 {
		t.Errorf("octave fields = %d, %d, want 4, 3", cb4.Octave(), b3.Octave())
	}
	if !MustParse("B#3").Equals(MustParse("C4")) {
		t.Error("B#3 should equal C4")
	}
}

func TestIncrementDecrement(t *testing.T) {
	tests := []struct {
		from string
		n    int
		up   string
		down string
	}{
		{"B3", 1, "C4", "Bb3"},
		{"C4", 1, "Db4", "B3"},
		{"F#4", 1, "G4", "F4"},
		{"F#4", 2, "G#4", "E4"},
		{"Gb4", 2, "Ab4", "E4"},
		{"C4", 12, "C5", "C3"},
		{"C0", 1, "Db0", "C0"},
		{"C10", 1, "C10", "B9"},
		{"A4", 0, "A4", "A4"},
		{"C9", 24, "C10", "C7"},
		{"D1", 40, "Gb4", "C0"},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			p := MustParse(tt.from)
			up, err := p.Increment(tt.n)
			if err != nil {
				t.Fatal(err)
			}
			if up.String() != tt.up {
				t.Errorf("%s.Increment(%d) = %s, want %s", tt.from, tt.n, up, tt.up)
			}
			down, err := p.Decrement(tt.n)
			if err != nil {
				t.Fatal(err)
			}
			if down.String() != tt.down {
				t.Errorf("%s.Decrement(%d) = %s, want %s", tt.from, tt.n, down, tt.down)
			}
		})
	}
}

func TestIncrementNegative(t *testing.T) {
	p := MustParse("C4")
	if _, err := p.Increment(-1); !errors.Is(err, ErrInvalidMagnitude) {
		t.Errorf("Increment(-1) error = %v, want ErrInvalidMagnitude", err)
	}
	if _, err := p.Decrement(-3); !errors.Is(err, ErrInvalidMagnitude) {
		t.Errorf("Decrement(-3) error = %v, want ErrInvalidMagnitude", err)
	}
}

func TestIncrementDecrementInverse(t *testing.T) {
	l := DefaultLattice()
	for _, pref := range []Preference{PreferSharps, PreferFlats} {
		for rs := MinRangeStep; rs <= MaxRangeStep; rs++ {
			p := l.Lookup(pref, rs)
			for n := 0; rs+n <= MaxRangeStep && n <= 36; n++ {
				up, _ := p.Increment(n)
				back, _ := up.Decrement(n)
				if back.RangeStep() != p.RangeStep() || !back.Equals(p) {
					t.Fatalf("%s +%d -%d = %s", p, n, n, back)
				}
			}
		}
	}
}

func TestSaturation(t *testing.T) {
	c0 := MustParse("C0")
	got, _ := c0.Decrement(1)
	if got != MinPitch || got.RangeStep() != 0 {
		t.Errorf("C0.Decrement(1) = %v, want C0", got)
	}
	got, _ = c0.Decrement(500)
	if got != MinPitch {
		t.Errorf("C0.Decrement(500) = %v, want C0", got)
	}
	got, _ = MustParse("G9").Increment(100)
	if got != MaxPitch || got.RangeStep() != MaxRangeStep {
		t.Errorf("G9.Increment(100) = %v, want C10", got)
	}
}

func TestOctaveNeutralArithmetic(t *testing.T) {
	tests := []struct {
		from string
		n    int
		want string
	}{
		{"A", 3, "C"},
		{"Bb", 14, "C"},
		{"C", 13, "Db"},
		{"F#", 1, "G"},
		{"F#", 3, "A"},
		{"B", 1, "C"},
	}
	for _, tt := range tests {
		p := MustParse(tt.from)
		got, err := p.Increment(tt.n)
		if err != nil {
			t.Fatal(err)
		}
		if got.String() != tt.want || !got.IsOctaveNeutral() {
			t.Errorf("%s.Increment(%d) = %s, want neutral %s", tt.from, tt.n, got, tt.want)
		}
		if got.RangeStep() < 0 || got.RangeStep() > 11 {
			t.Errorf("%s.Increment(%d) range step %d, want 0..11", tt.from, tt.n, got.RangeStep())
		}
	}
	got, _ := MustParse("C").Decrement(1)
	if got.String() != "B" || got.RangeStep() != 11 {
		t.Errorf("C.Decrement(1) = %s (rs %d), want B (rs 11)", got, got.RangeStep())
	}
}

func TestPitchOnly(t *testing.T) {
	got, err := MustParse("B1").IncrementPitchOnly(3, PreferNone)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "D1" {
		t.Errorf("B1.IncrementPitchOnly(3) = %s, want D1", got)
	}
	got, _ = MustParse("D2").DecrementPitchOnly(4, PreferFlats)
	if got.String() != "Bb2" {
		t.Errorf("D2.DecrementPitchOnly(4, flats) = %s, want Bb2", got)
	}
	got, _ = MustParse("A3").IncrementPitchOnly(3, PreferSharps)
	if got.String() != "C3" {
		t.Errorf("A3.IncrementPitchOnly(3, sharps) = %s, want C3", got)
	}
	got, _ = MustParse("E").IncrementPitchOnly(2, PreferSharps)
	if got.String() != "F#" {
		t.Errorf("E.IncrementPitchOnly(2, sharps) = %s, want F#", got)
	}
	if _, err := MustParse("C4").IncrementPitchOnly(1, Preference(5)); !errors.Is(err, ErrInvalidPreference) {
		t.Errorf("invalid preference error = %v", err)
	}
}

func TestIncrementPreferring(t *testing.T) {
	tests := []struct {
		from string
		n    int
		pref Preference
		want string
	}{
		{"C4", 1, PreferSharps, "C#4"},
		{"C4", 1, PreferFlats, "Db4"},
		{"C4", 1, PreferNone, "Db4"},
		{"F#4", 4, PreferFlats, "Bb4"},
		{"F#4", 4, PreferSharps, "A#4"},
		{"A4", 2, PreferFlats, "B4"},
	}
	for _, tt := range tests {
		got, err := MustParse(tt.from).IncrementPreferring(tt.n, tt.pref)
		if err != nil {
			t.Fatal(err)
		}
		if got.String() != tt.want {
			t.Errorf("%s.IncrementPreferring(%d, %s) = %s, want %s", tt.from, tt.n, tt.pref, got, tt.want)
		}
	}
	got, _ := MustParse("E4").DecrementPreferring(3, PreferSharps)
	if got.String() != "C#4" {
		t.Errorf("E4.DecrementPreferring(3, sharps) = %s, want C#4", got)
	}
}

func TestEquals(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"F#4", "Gb4", true},
		{"F#4", "F#5", false},
		{"Cb4", "B3", true},
		{"F#", "Gb4", true},
		{"Gb2", "F#", true},
		{"C", "C#", false},
		{"R", "R", true},
		{"R", "C0", false},
		{"C0", "R", false},
	}
	for _, tt := range tests {
		if got := MustParse(tt.a).Equals(MustParse(tt.b)); got != tt.want {
			t.Errorf("%s.Equals(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareAndDifference(t *testing.T) {
	c4, e4 := MustParse("C4"), MustParse("E4")
	if c4.Compare(e4) != -1 || e4.Compare(c4) != 1 || c4.Compare(MustParse("B#3")) != 0 {
		t.Error("Compare does not order by range step")
	}
	if d := c4.Difference(e4); d != 4 {
		t.Errorf("C4.Difference(E4) = %d, want 4", d)
	}
	if d := e4.Difference(c4); d != -4 {
		t.Errorf("E4.Difference(C4) = %d, want -4", d)
	}
	if d := MustParse("A4").StepDifference(c4); d != 3 {
		t.Errorf("A4.StepDifference(C4) = %d, want 3", d)
	}
}

func TestChromaticScaleDegree(t *testing.T) {
	tests := []struct {
		token string
		want  int
	}{
		{"C4", 1}, {"B#3", 1}, {"Cb4", 12}, {"F#", 7}, {"Bb2", 11},
	}
	for _, tt := range tests {
		if got := MustParse(tt.token).ChromaticScaleDegree(); got != tt.want {
			t.Errorf("%s.ChromaticScaleDegree() = %d, want %d", tt.token, got, tt.want)
		}
	}
	if got := MustParse("D5").ChromaticScaleDegreeIn(MustParse("G")); got != 8 {
		t.Errorf("D5 in G = %d, want 8", got)
	}
	if got := MustParse("G").ChromaticScaleDegreeIn(MustParse("G2")); got != 1 {
		t.Errorf("G in G2 = %d, want 1", got)
	}
}

func TestTransposeOctaves(t *testing.T) {
	if got := MustParse("F#4").TransposeOctaves(2); got.String() != "F#6" {
		t.Errorf("F#4 +2 octaves = %s", got)
	}
	if got := MustParse("Cb4").TransposeOctaves(-1); got.String() != "Cb3" {
		t.Errorf("Cb4 -1 octave = %s", got)
	}
	if got := MustParse("C9").TransposeOctaves(3); got != MaxPitch {
		t.Errorf("C9 +3 octaves = %s, want C10", got)
	}
	if got := MustParse("D1").TransposeOctaves(-4); got != MinPitch {
		t.Errorf("D1 -4 octaves = %s, want C0", got)
	}
	if got := MustParse("Eb").TransposeOctaves(2); got.String() != "Eb" {
		t.Errorf("neutral Eb +2 octaves = %s", got)
	}
}

func TestPitchInversion(t *testing.T) {
	got := MustParse("E4").Inversion(MustParse("C4"))
	if got.String() != "Ab3" {
		t.Errorf("E4 inverted around C4 = %s, want Ab3", got)
	}
	got = MustParse("A3").Inversion(MustParse("C4"))
	if got.String() != "Eb4" {
		t.Errorf("A3 inverted around C4 = %s, want Eb4", got)
	}
}

func TestFrequency(t *testing.T) {
	tests := []struct {
		token string
		hz    float64
	}{
		{"A4", 440},
		{"A3", 220},
		{"C4", 261.6256},
		{"C", 0},
		{"R", 0},
	}
	for _, tt := range tests {
		if got := MustParse(tt.token).Frequency(); math.Abs(got-tt.hz) > 1e-3 {
			t.Errorf("%s.Frequency() = %f, want %f", tt.token, got, tt.hz)
		}
	}

	p, err := FromFrequency(466.16, PreferFlats)
	if err != nil {
		t.Fatal(err)
	}
	if p.String() != "Bb4" {
		t.Errorf("FromFrequency(466.16, flats) = %s, want Bb4", p)
	}
	if _, err := FromFrequency(-1, PreferNone); !errors.Is(err, ErrInvalidMagnitude) {
		t.Errorf("FromFrequency(-1) error = %v", err)
	}
	if _, err := FromFrequency(1e6, PreferNone); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("FromFrequency(1e6) error = %v", err)
	}
}

func TestParsePreference(t *testing.T) {
	for s, want := range map[string]Preference{"sharps": PreferSharps, "Flats": PreferFlats, "": PreferNone, "#": PreferSharps} {
		got, err := ParsePreference(s)
		if err != nil || got != want {
			t.Errorf("ParsePreference(%q) = %v, %v, want %v", s, got, err, want)
		}
	}
	if _, err := ParsePreference("key"); !errors.Is(err, ErrInvalidPreference) {
		t.Errorf("ParsePreference(key) error = %v", err)
	}
}
