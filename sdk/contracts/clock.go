package contracts

import "time"

// TransportState is the state of the clock's transport.
type TransportState int

const (
	// Stopped is the initial state; no pulses are emitted.
	Stopped TransportState = iota
	// Running means the pulse loop is active.
	Running
)

func (s TransportState) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Handlers groups the callbacks invoked by a running clock. Nil members are skipped.
//
// OnPulse, OnQuarterNote and OnBarStart run on the clock's loop goroutine and must
// return well within one pulse interval (about 8.3ms at 300 BPM). None of the
// handlers may call Start, Stop or Cleanup synchronously.
type Handlers struct {
	OnPulse       func(pulse int)
	OnQuarterNote func(quarter int)
	OnBarStart    func()
	OnTransport   func(state TransportState)
}

// EventKind identifies a ClockEvent.
type EventKind int

const (
	PulseEvent EventKind = iota
	QuarterNoteEvent
	BarStartEvent
	TransportEvent
)

// ClockEvent is the channel form of a handler invocation.
type ClockEvent struct {
	Kind      EventKind
	Pulse     int            // Pulse index, set for every event fired by the loop.
	Quarter   int            // Quarter-note index, set for QuarterNoteEvent.
	State     TransportState // Set for TransportEvent.
	Timestamp time.Time      // Time reported by the clock's TimeSource.
}

// Clock generates MIDI-clock-rate pulses from a mutable tempo.
type Clock interface {
	Start()                     // Starts the pulse loop; no-op when running.
	Stop()                      // Stops the pulse loop and waits for it to exit; no-op when stopped.
	SetTempo(bpm float64) error // Updates the tempo; out-of-range values are rejected with ErrInvalidTempo.
	Cleanup()                   // Stops a running clock and drops its handlers; no-op when stopped.

	IsPlaying() bool
	CurrentTempo() float64
	CurrentPulse() int
	State() TransportState

	AddHandlers(h Handlers) (remove func())
	Subscribe(ch chan<- ClockEvent) (unsubscribe func())
}

// Timer is a one-shot timer created by a TimeSource.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// TimeSource supplies wall-clock time and timers to the clock loop.
type TimeSource interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
}
