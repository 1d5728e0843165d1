package pitch

// Enharmonic returns the equivalent spelling of p in the opposite accidental
// family. Sharpened pitches are re-spelled on the next letters up using
// naturals or flats, flattened pitches on the next letters down using
// naturals or sharps. The range step never changes; the written octave moves
// when the letter crosses B/C, so B#4 becomes C5 and Cb4 becomes B3.
//
// Naturals and Silent are returned unchanged.
func (p Pitch) Enharmonic() Pitch {
	if p.IsSilent() || p.alteration == Natural {
		return p
	}

	dir := p.alteration.Sign()
	from := p.step.letterIndex()
	if from < 0 {
		return p
	}
	accidentals := [3]Alteration{Natural, Alteration(-dir), Alteration(-2 * dir)}

	for k := 1; k <= 2; k++ {
		idx, octave := from+dir*k, p.octave
		switch {
		case idx > 6:
			idx -= 7
			if octave != NoOctave {
				octave++
			}
		case idx < 0:
			idx += 7
			if octave != NoOctave {
				octave--
				if octave < 0 {
					continue
				}
			}
		}
		if octave > MaxOctave {
			continue
		}
		for _, alt := range accidentals {
			q := fromParts(letters[idx], alt, octave)
			if q.rangeStep == p.rangeStep {
				return q
			}
		}
	}
	return p
}

// EnharmonicEquals reports whether p and other are different spellings of
// the same sound.
func (p Pitch) EnharmonicEquals(other Pitch) bool {
	return p.Equals(other) && (p.step != other.step || p.alteration != other.alteration)
}
