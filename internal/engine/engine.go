// Package engine implements the MIDI clock transport and its pulse loop.
package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/midiclock/sdk/contracts"
	"github.com/leandrodaf/midiclock/sdk/timing"
)

// handlerEntry pairs registered handlers with the id used to remove them.
type handlerEntry struct {
	id       uint64
	handlers contracts.Handlers
}

// Engine generates MIDI clock pulses at a mutable tempo.
//
// Transport transitions are serialized by mu. The loop goroutine only touches the
// atomics below and the handler snapshot, so tempo and state reads never block.
type Engine struct {
	logger contracts.Logger
	time   *timing.MusicalTime
	source contracts.TimeSource

	tempo   atomic.Uint64 // math.Float64bits of the tempo in BPM
	playing atomic.Bool
	pulse   atomic.Int64

	handlers   atomic.Pointer[[]handlerEntry]
	handlersMu sync.Mutex // serializes copy-on-write updates of handlers
	nextID     uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a stopped Engine. options must already carry defaults for every field.
func New(options *contracts.ClockOptions) (*Engine, error) {
	mt, err := timing.NewMusicalTime(options.PPQ)
	if err != nil {
		return nil, err
	}
	if !timing.ValidTempo(options.InitialTempo) {
		return nil, fmt.Errorf("%w: initial tempo %v", contracts.ErrInvalidTempo, options.InitialTempo)
	}

	e := &Engine{
		logger: options.Logger,
		time:   mt,
		source: options.TimeSource,
	}
	e.tempo.Store(math.Float64bits(options.InitialTempo))
	empty := []handlerEntry{}
	e.handlers.Store(&empty)
	for _, h := range options.Handlers {
		e.AddHandlers(h)
	}

	e.logger.Debug("Clock created",
		e.logger.Field().Int("ppq", mt.PPQ()),
		e.logger.Field().Float64("tempo", options.InitialTempo))
	return e, nil
}

// MusicalTime returns the tick math bound to this engine's PPQ.
func (e *Engine) MusicalTime() *timing.MusicalTime {
	return e.time
}

// Start begins emitting pulses from index 0. It does nothing when already running.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.cancel, e.done = cancel, done

	e.pulse.Store(0)
	e.playing.Store(true)
	origin := e.source.Now()

	e.logger.Info("Clock started", e.logger.Field().Float64("tempo", e.CurrentTempo()))
	go e.run(ctx, origin, done)
}

// Stop cancels the pulse loop and waits for it to exit. Once Stop returns no pulse,
// quarter-note or bar callback runs until the next Start. It does nothing when stopped.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

// stopLocked tears the loop down and reports whether one was running. e.mu must be held.
func (e *Engine) stopLocked() bool {
	if e.cancel == nil {
		return false
	}

	e.cancel()
	<-e.done
	e.cancel, e.done = nil, nil

	e.playing.Store(false)
	e.pulse.Store(0)

	e.logger.Info("Clock stopped")
	e.notifyTransport(contracts.Stopped)
	return true
}

// SetTempo updates the tempo used from the next pulse on. Values outside
// [MinTempo, MaxTempo] are logged, rejected with ErrInvalidTempo and leave the
// current tempo untouched.
func (e *Engine) SetTempo(bpm float64) error {
	if !timing.ValidTempo(bpm) {
		e.logger.Warn("Tempo out of range",
			e.logger.Field().Float64("bpm", bpm),
			e.logger.Field().Float64("current", e.CurrentTempo()))
		return fmt.Errorf("%w: %v not in [%v, %v]", contracts.ErrInvalidTempo, bpm, contracts.MinTempo, contracts.MaxTempo)
	}

	e.tempo.Store(math.Float64bits(bpm))
	e.logger.Debug("Tempo updated", e.logger.Field().Float64("bpm", bpm))
	return nil
}

// Cleanup stops a running clock and drops every registered handler. From Stopped
// it does nothing, so handlers registered before the first Start survive.
func (e *Engine) Cleanup() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.stopLocked() {
		return
	}

	e.handlersMu.Lock()
	empty := []handlerEntry{}
	e.handlers.Store(&empty)
	e.handlersMu.Unlock()
	e.logger.Debug("Clock handlers released")
}

// IsPlaying reports whether the pulse loop is running.
func (e *Engine) IsPlaying() bool {
	return e.playing.Load()
}

// CurrentTempo returns the tempo in BPM.
func (e *Engine) CurrentTempo() float64 {
	return math.Float64frombits(e.tempo.Load())
}

// CurrentPulse returns the index of the last dispatched pulse, or 0 when stopped.
func (e *Engine) CurrentPulse() int {
	return int(e.pulse.Load())
}

// State returns the transport state.
func (e *Engine) State() contracts.TransportState {
	if e.IsPlaying() {
		return contracts.Running
	}
	return contracts.Stopped
}

// AddHandlers registers callbacks and returns a function that removes them.
// A running loop picks the change up at its next pulse.
func (e *Engine) AddHandlers(h contracts.Handlers) (remove func()) {
	e.handlersMu.Lock()
	defer e.handlersMu.Unlock()

	e.nextID++
	id := e.nextID
	current := *e.handlers.Load()
	next := make([]handlerEntry, len(current), len(current)+1)
	copy(next, current)
	next = append(next, handlerEntry{id: id, handlers: h})
	e.handlers.Store(&next)

	var once sync.Once
	return func() {
		once.Do(func() { e.removeHandlers(id) })
	}
}

func (e *Engine) removeHandlers(id uint64) {
	e.handlersMu.Lock()
	defer e.handlersMu.Unlock()

	current := *e.handlers.Load()
	next := make([]handlerEntry, 0, len(current))
	for _, entry := range current {
		if entry.id != id {
			next = append(next, entry)
		}
	}
	e.handlers.Store(&next)
}

// Subscribe delivers clock events to ch. Sends never block the loop: when ch is
// full the event is dropped and a warning is logged.
func (e *Engine) Subscribe(ch chan<- contracts.ClockEvent) (unsubscribe func()) {
	send := func(ev contracts.ClockEvent) {
		ev.Timestamp = e.source.Now()
		select {
		case ch <- ev:
		default:
			e.logger.Warn("Clock event channel is full; event discarded",
				e.logger.Field().Int("kind", int(ev.Kind)),
				e.logger.Field().Int("pulse", ev.Pulse))
		}
	}

	var last atomic.Int64
	return e.AddHandlers(contracts.Handlers{
		OnPulse: func(pulse int) {
			last.Store(int64(pulse))
			send(contracts.ClockEvent{Kind: contracts.PulseEvent, Pulse: pulse})
		},
		OnQuarterNote: func(quarter int) {
			send(contracts.ClockEvent{Kind: contracts.QuarterNoteEvent, Pulse: int(last.Load()), Quarter: quarter})
		},
		OnBarStart: func() {
			send(contracts.ClockEvent{Kind: contracts.BarStartEvent, Pulse: int(last.Load())})
		},
		OnTransport: func(state contracts.TransportState) {
			send(contracts.ClockEvent{Kind: contracts.TransportEvent, State: state})
		},
	})
}

// run is the pulse loop. Deadlines are absolute: pulse n+1 is due at origin plus
// the sum of the intervals of pulses 0..n, each taken at the tempo read when that
// pulse fired. A missed deadline is not waited for.
func (e *Engine) run(ctx context.Context, origin time.Time, done chan<- struct{}) {
	defer close(done)

	e.notifyTransport(contracts.Running)

	deadline := origin
	for pulse := 0; ; pulse++ {
		if ctx.Err() != nil {
			return
		}

		interval := e.time.PulseInterval(e.CurrentTempo())
		e.dispatch(pulse)
		e.pulse.Store(int64(pulse))

		deadline = deadline.Add(interval)
		if !e.waitUntil(ctx, deadline, pulse+1) {
			return
		}
	}
}

func (e *Engine) dispatch(pulse int) {
	entries := *e.handlers.Load()

	for _, entry := range entries {
		if entry.handlers.OnPulse != nil {
			entry.handlers.OnPulse(pulse)
		}
	}

	if pulse%contracts.PulsesPerQuarter == 0 {
		quarter := pulse / contracts.PulsesPerQuarter
		for _, entry := range entries {
			if entry.handlers.OnQuarterNote != nil {
				entry.handlers.OnQuarterNote(quarter)
			}
		}
	}

	if pulse%contracts.PulsesPerBar == 0 {
		for _, entry := range entries {
			if entry.handlers.OnBarStart != nil {
				entry.handlers.OnBarStart()
			}
		}
	}
}

// waitUntil blocks until deadline or cancellation and reports whether the loop
// should continue.
func (e *Engine) waitUntil(ctx context.Context, deadline time.Time, next int) bool {
	wait := deadline.Sub(e.source.Now())
	if wait <= 0 {
		if wait < 0 {
			e.logger.Debug("Pulse behind schedule",
				e.logger.Field().Int("pulse", next),
				e.logger.Field().Duration("late", -wait))
		}
		return ctx.Err() == nil
	}

	timer := e.source.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C():
		return true
	}
}

func (e *Engine) notifyTransport(state contracts.TransportState) {
	for _, entry := range *e.handlers.Load() {
		if entry.handlers.OnTransport != nil {
			entry.handlers.OnTransport(state)
		}
	}
}
