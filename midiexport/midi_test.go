package midiexport

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/RyanBlaney/sonido-nota/logging"
	"github.com/RyanBlaney/sonido-nota/pitch"
)

func TestNoteNumber(t *testing.T) {
	tests := []struct {
		token string
		want  uint8
	}{
		{"C0", 12},
		{"A0", 21},
		{"C4", 60},
		{"B#3", 60},
		{"Cb4", 59},
		{"A4", 69},
		{"G9", 127},
	}
	for _, tt := range tests {
		got, err := NoteNumber(pitch.MustParse(tt.token))
		if err != nil {
			t.Errorf("NoteNumber(%s): %v", tt.token, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NoteNumber(%s) = %d, want %d", tt.token, got, tt.want)
		}
	}

	errTests := []struct {
		token string
		want  error
	}{
		{"C", ErrNoRegister},
		{"R", ErrNoRegister},
		{"G#9", pitch.ErrOutOfRange},
		{"C10", pitch.ErrOutOfRange},
	}
	for _, tt := range errTests {
		if _, err := NoteNumber(pitch.MustParse(tt.token)); !errors.Is(err, tt.want) {
			t.Errorf("NoteNumber(%s) error = %v, want %v", tt.token, err, tt.want)
		}
	}
}

func TestFromNoteNumber(t *testing.T) {
	tests := []struct {
		n    uint8
		pref pitch.Preference
		want string
	}{
		{60, pitch.PreferNone, "C4"},
		{61, pitch.PreferSharps, "C#4"},
		{61, pitch.PreferFlats, "Db4"},
		{12, pitch.PreferNone, "C0"},
		{127, pitch.PreferNone, "G9"},
	}
	for _, tt := range tests {
		got, err := FromNoteNumber(tt.n, tt.pref)
		if err != nil {
			t.Fatal(err)
		}
		if got.String() != tt.want {
			t.Errorf("FromNoteNumber(%d, %s) = %s, want %s", tt.n, tt.pref, got, tt.want)
		}
		back, _ := NoteNumber(got)
		if back != tt.n {
			t.Errorf("round trip of %d = %d", tt.n, back)
		}
	}
	if _, err := FromNoteNumber(11, pitch.PreferNone); !errors.Is(err, pitch.ErrOutOfRange) {
		t.Errorf("FromNoteNumber(11) error = %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("default options: %v", err)
	}
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"channel", func(o *Options) { o.Channel = 16 }},
		{"velocity zero", func(o *Options) { o.Velocity = 0 }},
		{"velocity high", func(o *Options) { o.Velocity = 200 }},
		{"ticks", func(o *Options) { o.TicksPerQuarter = 0 }},
		{"tempo", func(o *Options) { o.Tempo = -1 }},
		{"octave", func(o *Options) { o.NeutralOctave = 11 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			if _, err := NewExporter(opts, &logging.NoOpLogger{}); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("NewExporter error = %v", err)
			}
		})
	}
}

type noteEvent struct {
	on   bool
	key  uint8
	tick uint32
}

func readNotes(t *testing.T, data []byte) ([]noteEvent, *smf.SMF) {
	t.Helper()
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(s.Tracks) != 1 {
		t.Fatalf("%d tracks, want 1", len(s.Tracks))
	}
	var (
		out []noteEvent
		abs uint32
	)
	for _, ev := range s.Tracks[0] {
		abs += ev.Delta
		var ch, key, vel uint8
		msg := midi.Message(ev.Message)
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			out = append(out, noteEvent{on: true, key: key, tick: abs})
		case msg.GetNoteEnd(&ch, &key):
			out = append(out, noteEvent{on: false, key: key, tick: abs})
		}
	}
	return out, s
}

func TestWriteSequence(t *testing.T) {
	var buf bytes.Buffer
	in := []pitch.Pitch{pitch.MustParse("C4"), pitch.Silent, pitch.MustParse("E4"), pitch.MustParse("G")}
	if err := WriteSequence(&buf, in, DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	got, s := readNotes(t, buf.Bytes())
	want := []noteEvent{
		{true, 60, 0}, {false, 60, 960},
		{true, 64, 1920}, {false, 64, 2880},
		{true, 67, 2880}, {false, 67, 3840},
	}
	if !slices.Equal(got, want) {
		t.Errorf("events = %v\nwant %v", got, want)
	}
	if tf, ok := s.TimeFormat.(smf.MetricTicks); !ok || uint16(tf) != 960 {
		t.Errorf("time format = %v", s.TimeFormat)
	}
}

func TestWriteChord(t *testing.T) {
	opts := DefaultOptions()
	opts.NoteTicks = 480
	opts.TrackName = "chords"
	e, err := NewExporter(opts, &logging.NoOpLogger{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	cMajor := []pitch.Pitch{pitch.MustParse("C4"), pitch.MustParse("E4"), pitch.MustParse("G4")}
	fMajor := []pitch.Pitch{pitch.MustParse("F3"), pitch.MustParse("A3")}
	if err := e.WriteChord(&buf, cMajor, nil, fMajor); err != nil {
		t.Fatal(err)
	}
	got, _ := readNotes(t, buf.Bytes())
	want := []noteEvent{
		{true, 60, 0}, {true, 64, 0}, {true, 67, 0},
		{false, 60, 480}, {false, 64, 480}, {false, 67, 480},
		{true, 53, 960}, {true, 57, 960},
		{false, 53, 1440}, {false, 57, 1440},
	}
	if !slices.Equal(got, want) {
		t.Errorf("events = %v\nwant %v", got, want)
	}
}

func TestWriteRejectsUnplaceablePitches(t *testing.T) {
	opts := DefaultOptions()
	opts.NeutralOctave = pitch.NoOctave
	var buf bytes.Buffer
	err := WriteSequence(&buf, []pitch.Pitch{pitch.MustParse("C4"), pitch.MustParse("D")}, opts)
	if !errors.Is(err, ErrNoRegister) {
		t.Errorf("neutral pitch error = %v", err)
	}
	if buf.Len() != 0 {
		t.Error("partial file written")
	}
	if err := WriteChord(&buf, []pitch.Pitch{pitch.MustParse("C10")}, DefaultOptions()); !errors.Is(err, pitch.ErrOutOfRange) {
		t.Errorf("C10 error = %v", err)
	}
}
