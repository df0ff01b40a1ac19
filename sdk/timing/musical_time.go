// Package timing converts between tempo, musical positions, ticks and wall-clock time.
//
// All conversions are pure; a MusicalTime only carries its fixed PPQ and may be
// shared freely between goroutines.
package timing

import (
	"fmt"
	"math"
	"time"

	"github.com/leandrodaf/midiclock/sdk/contracts"
)

// MusicalTime performs tick math at a fixed pulses-per-quarter-note resolution.
type MusicalTime struct {
	ppq int
}

// NewMusicalTime returns a MusicalTime with the given resolution.
func NewMusicalTime(ppq int) (*MusicalTime, error) {
	if ppq <= 0 {
		return nil, fmt.Errorf("%w: %d", contracts.ErrInvalidPPQ, ppq)
	}
	return &MusicalTime{ppq: ppq}, nil
}

// PPQ returns the resolution fixed at construction.
func (m *MusicalTime) PPQ() int { return m.ppq }

// ValidTempo reports whether bpm lies in the closed range [MinTempo, MaxTempo].
// NaN is never valid.
func ValidTempo(bpm float64) bool {
	return bpm >= contracts.MinTempo && bpm <= contracts.MaxTempo
}

// TempoToMicrosecondsPerQuarter converts a tempo to the length of one quarter note.
// bpm must be positive; callers validate with ValidTempo first.
func (m *MusicalTime) TempoToMicrosecondsPerQuarter(bpm float64) int64 {
	return int64(math.Round(60_000_000 / bpm))
}

// PulseInterval is the time between two MIDI clock pulses at bpm.
// The rounded quarter-note length in microseconds is divided by 24 with integer
// division, so the result is a whole number of microseconds.
func (m *MusicalTime) PulseInterval(bpm float64) time.Duration {
	us := m.TempoToMicrosecondsPerQuarter(bpm) / contracts.PulsesPerQuarter
	return time.Duration(us) * time.Microsecond
}

// PositionToTicks returns the tick at which the 1-based position of a note grid starts.
// Positions whose tick would not fit in an int are rejected with ErrInvalidPosition.
func (m *MusicalTime) PositionToTicks(position int, nv contracts.NoteValue, mod contracts.Modifier) (int, error) {
	if position < 1 {
		return 0, fmt.Errorf("%w: %d", contracts.ErrInvalidPosition, position)
	}
	num, den, err := ratio(nv, mod)
	if err != nil {
		return 0, err
	}
	steps, factor := int64(position-1), int64(m.ppq)*num
	if steps > math.MaxInt64/factor {
		return 0, fmt.Errorf("%w: %d overflows at ppq %d", contracts.ErrInvalidPosition, position, m.ppq)
	}
	ticks := steps * factor / den
	if ticks > math.MaxInt {
		return 0, fmt.Errorf("%w: %d overflows at ppq %d", contracts.ErrInvalidPosition, position, m.ppq)
	}
	return int(ticks), nil
}

// TicksToMicroseconds converts a tick count to microseconds at bpm.
// ticks times the quarter-note length must fit in an int64: about 3e12 ticks at
// 20 BPM. Larger counts wrap.
func (m *MusicalTime) TicksToMicroseconds(ticks int, bpm float64) int64 {
	return int64(ticks) * m.TempoToMicrosecondsPerQuarter(bpm) / int64(m.ppq)
}

// TicksToDuration is TicksToMicroseconds as a time.Duration.
func (m *MusicalTime) TicksToDuration(ticks int, bpm float64) time.Duration {
	return time.Duration(m.TicksToMicroseconds(ticks, bpm)) * time.Microsecond
}

// TicksPerBar returns the ticks in one bar of 4/4.
func (m *MusicalTime) TicksPerBar() int { return m.ppq * 4 }

// GridSize returns the grid spacing in ticks for a note value and modifier.
// It is 0 when the resolution is too coarse to represent the grid.
func (m *MusicalTime) GridSize(nv contracts.NoteValue, mod contracts.Modifier) int {
	num, den, err := ratio(nv, mod)
	if err != nil {
		return 0
	}
	return int(int64(m.ppq) * num / den)
}

// IsOnGrid reports whether tick falls on the grid of the given note value.
// A degenerate (zero) grid never matches.
func (m *MusicalTime) IsOnGrid(tick int, nv contracts.NoteValue, mod contracts.Modifier) bool {
	grid := m.GridSize(nv, mod)
	if grid == 0 {
		return false
	}
	return tick%grid == 0
}

func ratio(nv contracts.NoteValue, mod contracts.Modifier) (num, den int64, err error) {
	if !nv.Valid() {
		return 0, 1, fmt.Errorf("%w: %d", contracts.ErrUnknownNoteValue, int(nv))
	}
	if !mod.Valid() {
		return 0, 1, fmt.Errorf("%w: %d", contracts.ErrUnknownModifier, int(mod))
	}
	nn, nd := nv.Fraction()
	mn, md := mod.Fraction()
	return nn * mn, nd * md, nil
}
