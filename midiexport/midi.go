// Package midiexport maps pitches to MIDI note numbers and writes realized
// pitch sequences as Standard MIDI Files.
package midiexport

import (
	"errors"
	"fmt"
	"io"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/RyanBlaney/sonido-nota/logging"
	"github.com/RyanBlaney/sonido-nota/pitch"
)

const (
	// LowestNote is the MIDI note number of C0.
	LowestNote = 12
	// HighestNote is the highest MIDI note number (G9).
	HighestNote = 127
)

var (
	// ErrNoRegister is returned for octave-neutral pitches and rests, which
	// have no MIDI note number.
	ErrNoRegister = errors.New("pitch has no register")

	// ErrInvalidOptions is returned when export options are out of range.
	ErrInvalidOptions = errors.New("invalid MIDI export options")
)

// NoteNumber returns the MIDI note number of p. Middle C (C4) is 60.
func NoteNumber(p pitch.Pitch) (uint8, error) {
	if p.IsSilent() || p.IsOctaveNeutral() {
		return 0, fmt.Errorf("%s: %w", p, ErrNoRegister)
	}
	n := p.RangeStep() + LowestNote
	if n > HighestNote {
		return 0, fmt.Errorf("%s is MIDI note %d: %w", p, n, pitch.ErrOutOfRange)
	}
	return uint8(n), nil
}

// FromNoteNumber returns the pitch of MIDI note n spelled with pref. Notes
// below C0 are out of range.
func FromNoteNumber(n uint8, pref pitch.Preference) (pitch.Pitch, error) {
	if n < LowestNote || n > HighestNote {
		return pitch.Silent, fmt.Errorf("MIDI note %d: %w", n, pitch.ErrOutOfRange)
	}
	if !pref.Valid() {
		return pitch.Silent, fmt.Errorf("preference %d: %w", pref, pitch.ErrInvalidPreference)
	}
	return pitch.DefaultLattice().Lookup(pref, int(n)-LowestNote), nil
}

// Options controls how pitches are laid out in time
type Options struct {
	Channel         uint8   `json:"channel" yaml:"channel"`                     // 0..15
	Velocity        uint8   `json:"velocity" yaml:"velocity"`                   // 1..127
	TicksPerQuarter uint16  `json:"ticks_per_quarter" yaml:"ticks_per_quarter"` // file resolution
	NoteTicks       uint32  `json:"note_ticks" yaml:"note_ticks"`               // length of each note or chord, 0 = one quarter
	Tempo           float64 `json:"tempo" yaml:"tempo"`                         // beats per minute
	NeutralOctave   int     `json:"neutral_octave" yaml:"neutral_octave"`       // octave given to octave-neutral pitches, -1 rejects them
	TrackName       string  `json:"track_name" yaml:"track_name"`
}

// DefaultOptions returns channel 0, velocity 100, 960 ticks per quarter,
// quarter notes at 120 BPM, neutral pitches in octave 4.
func DefaultOptions() Options {
	return Options{
		Channel:         0,
		Velocity:        100,
		TicksPerQuarter: 960,
		Tempo:           120,
		NeutralOctave:   4,
	}
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	switch {
	case o.Channel > 15:
		return fmt.Errorf("channel %d: %w", o.Channel, ErrInvalidOptions)
	case o.Velocity == 0 || o.Velocity > 127:
		return fmt.Errorf("velocity %d: %w", o.Velocity, ErrInvalidOptions)
	case o.TicksPerQuarter == 0:
		return fmt.Errorf("ticks per quarter must be positive: %w", ErrInvalidOptions)
	case o.Tempo <= 0:
		return fmt.Errorf("tempo %v: %w", o.Tempo, ErrInvalidOptions)
	case o.NeutralOctave < pitch.NoOctave || o.NeutralOctave > pitch.MaxOctave:
		return fmt.Errorf("neutral octave %d: %w", o.NeutralOctave, ErrInvalidOptions)
	}
	return nil
}

func (o Options) noteTicks() uint32 {
	if o.NoteTicks == 0 {
		return uint32(o.TicksPerQuarter)
	}
	return o.NoteTicks
}

// Exporter writes pitch material as single-track Standard MIDI Files.
type Exporter struct {
	opts   Options
	logger logging.Logger
}

// NewExporter validates opts and returns an exporter. A nil logger uses the
// global logger.
func NewExporter(opts Options, logger logging.Logger) (*Exporter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.WithFields(logging.Fields{"component": "midi_export"})
	}
	return &Exporter{opts: opts, logger: logger}, nil
}

// Options returns the export options.
func (e *Exporter) Options() Options { return e.opts }

// key resolves the note number of p, placing octave-neutral pitches in the
// configured octave.
func (e *Exporter) key(p pitch.Pitch) (uint8, error) {
	if p.IsOctaveNeutral() && !p.IsSilent() && e.opts.NeutralOctave != pitch.NoOctave {
		placed, err := pitch.New(p.Step(), e.opts.NeutralOctave, p.Alteration())
		if err != nil {
			return 0, err
		}
		p = placed
	}
	return NoteNumber(p)
}

func (e *Exporter) newTrack() smf.Track {
	var tr smf.Track
	if e.opts.TrackName != "" {
		tr.Add(0, smf.MetaTrackSequenceName(e.opts.TrackName))
	}
	tr.Add(0, smf.MetaTempo(e.opts.Tempo))
	return tr
}

func (e *Exporter) write(w io.Writer, tr smf.Track, notes int) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(e.opts.TicksPerQuarter)
	if err := s.Add(tr); err != nil {
		return fmt.Errorf("add track: %w", err)
	}
	size, err := s.WriteTo(w)
	if err != nil {
		e.logger.Error(err, "Failed to write MIDI file", logging.Fields{"notes": notes})
		return fmt.Errorf("write MIDI file: %w", err)
	}
	e.logger.Debug("MIDI file written", logging.Fields{
		"notes": notes,
		"bytes": size,
		"tempo": e.opts.Tempo,
	})
	return nil
}

// Sequence builds a track that plays pitches one after another. Rests
// advance time without sounding.
func (e *Exporter) Sequence(pitches []pitch.Pitch) (smf.Track, error) {
	tr := e.newTrack()
	length := e.opts.noteTicks()
	var delta uint32
	for _, p := range pitches {
		if p.IsSilent() {
			delta += length
			continue
		}
		key, err := e.key(p)
		if err != nil {
			return nil, err
		}
		tr.Add(delta, midi.NoteOn(e.opts.Channel, key, e.opts.Velocity))
		tr.Add(length, midi.NoteOff(e.opts.Channel, key))
		delta = 0
	}
	tr.Close(delta)
	return tr, nil
}

// Chords builds a track that sounds each group of pitches together, one
// group after another. An empty group is a rest.
func (e *Exporter) Chords(chords ...[]pitch.Pitch) (smf.Track, error) {
	tr := e.newTrack()
	length := e.opts.noteTicks()
	var delta uint32
	for _, chord := range chords {
		keys := make([]uint8, 0, len(chord))
		for _, p := range chord {
			if p.IsSilent() {
				continue
			}
			key, err := e.key(p)
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
		}
		if len(keys) == 0 {
			delta += length
			continue
		}
		for _, key := range keys {
			tr.Add(delta, midi.NoteOn(e.opts.Channel, key, e.opts.Velocity))
			delta = 0
		}
		for i, key := range keys {
			off := uint32(0)
			if i == 0 {
				off = length
			}
			tr.Add(off, midi.NoteOff(e.opts.Channel, key))
		}
	}
	tr.Close(delta)
	return tr, nil
}

// WriteSequence writes pitches as a melody.
func (e *Exporter) WriteSequence(w io.Writer, pitches []pitch.Pitch) error {
	tr, err := e.Sequence(pitches)
	if err != nil {
		return err
	}
	return e.write(w, tr, len(pitches))
}

// WriteChord writes each group of pitches as a block chord.
func (e *Exporter) WriteChord(w io.Writer, chords ...[]pitch.Pitch) error {
	tr, err := e.Chords(chords...)
	if err != nil {
		return err
	}
	n := 0
	for _, c := range chords {
		n += len(c)
	}
	return e.write(w, tr, n)
}

// WriteSequence writes pitches as a melody with opts.
func WriteSequence(w io.Writer, pitches []pitch.Pitch, opts Options) error {
	e, err := NewExporter(opts, nil)
	if err != nil {
		return err
	}
	return e.WriteSequence(w, pitches)
}

// WriteChord writes pitches as a single block chord with opts.
func WriteChord(w io.Writer, pitches []pitch.Pitch, opts Options) error {
	e, err := NewExporter(opts, nil)
	if err != nil {
		return err
	}
	return e.WriteChord(w, pitches)
}
