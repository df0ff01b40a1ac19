package contracts

import "errors"

// Tempo bounds and defaults, in beats per minute.
const (
	MinTempo     = 20.0
	MaxTempo     = 300.0
	DefaultTempo = 120.0
)

// DefaultPPQ is the tick resolution used for musical-position math when none is configured.
const DefaultPPQ = 960

// PulsesPerQuarter is the MIDI clock wire rate. It is fixed by the protocol and unrelated to PPQ.
const PulsesPerQuarter = 24

// PulsesPerBar is the number of MIDI clock pulses in one 4/4 bar.
const PulsesPerBar = PulsesPerQuarter * 4

var (
	// ErrInvalidTempo is returned when a tempo falls outside [MinTempo, MaxTempo].
	ErrInvalidTempo = errors.New("tempo out of range")
	// ErrInvalidPPQ is returned when a non-positive resolution is configured.
	ErrInvalidPPQ = errors.New("ppq must be positive")
	// ErrInvalidPosition is returned for musical positions below 1.
	ErrInvalidPosition = errors.New("position must be 1 or greater")
	// ErrUnknownNoteValue is returned for note values outside the NoteValue enumeration.
	ErrUnknownNoteValue = errors.New("unknown note value")
	// ErrUnknownModifier is returned for modifiers outside the Modifier enumeration.
	ErrUnknownModifier = errors.New("unknown note modifier")
)

// NoteValue is a note length expressed relative to a quarter note.
type NoteValue int

const (
	Whole NoteValue = iota
	Half
	Quarter
	Eighth
	Sixteenth
	ThirtySecond
)

// noteFractions holds each note value's length in quarter notes as num/den.
var noteFractions = [...]struct{ num, den int64 }{
	Whole:        {4, 1},
	Half:         {2, 1},
	Quarter:      {1, 1},
	Eighth:       {1, 2},
	Sixteenth:    {1, 4},
	ThirtySecond: {1, 8},
}

var noteNames = [...]string{
	Whole:        "whole",
	Half:         "half",
	Quarter:      "quarter",
	Eighth:       "eighth",
	Sixteenth:    "sixteenth",
	ThirtySecond: "thirty-second",
}

// Valid reports whether n is one of the declared note values.
func (n NoteValue) Valid() bool {
	return n >= Whole && n <= ThirtySecond
}

// Fraction returns the note length in quarter notes as an exact num/den pair.
func (n NoteValue) Fraction() (num, den int64) {
	if !n.Valid() {
		return 0, 1
	}
	f := noteFractions[n]
	return f.num, f.den
}

// Ratio returns the note length in quarter notes.
func (n NoteValue) Ratio() float64 {
	num, den := n.Fraction()
	return float64(num) / float64(den)
}

// Triplet returns the ratio of a triplet of this note value.
func (n NoteValue) Triplet() float64 { return n.Ratio() * 2.0 / 3.0 }

// Dotted returns the ratio of the dotted note value.
func (n NoteValue) Dotted() float64 { return n.Ratio() * 1.5 }

// Quintuplet returns the ratio of a quintuplet of this note value.
func (n NoteValue) Quintuplet() float64 { return n.Ratio() * 4.0 / 5.0 }

func (n NoteValue) String() string {
	if !n.Valid() {
		return "unknown"
	}
	return noteNames[n]
}

// Modifier alters a note value's length. Only one modifier applies to a note.
type Modifier int

const (
	ModifierNone Modifier = iota
	Triplet
	Dotted
	Quintuplet
)

var modifierFractions = [...]struct{ num, den int64 }{
	ModifierNone: {1, 1},
	Triplet:      {2, 3},
	Dotted:       {3, 2},
	Quintuplet:   {4, 5},
}

// Valid reports whether m is one of the declared modifiers.
func (m Modifier) Valid() bool {
	return m >= ModifierNone && m <= Quintuplet
}

// Fraction returns the scale factor this modifier applies as an exact num/den pair.
func (m Modifier) Fraction() (num, den int64) {
	if !m.Valid() {
		return 0, 1
	}
	f := modifierFractions[m]
	return f.num, f.den
}

func (m Modifier) String() string {
	switch m {
	case ModifierNone:
		return "none"
	case Triplet:
		return "triplet"
	case Dotted:
		return "dotted"
	case Quintuplet:
		return "quintuplet"
	}
	return "unknown"
}
