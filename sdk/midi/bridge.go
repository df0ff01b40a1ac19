package midi

import (
	"sync"
	"sync/atomic"

	"github.com/leandrodaf/midiclock/sdk/contracts"
	"go.uber.org/multierr"
)

// Bridge forwards a clock to a ClockOutput as MIDI realtime messages: Start when
// the transport runs, Timing Clock on every pulse and Stop when it stops.
type Bridge struct {
	clock  contracts.Clock
	output contracts.ClockOutput
	logger contracts.Logger
	remove func()

	failing atomic.Bool
	dropped atomic.Int64

	// mu orders sends against Close: a pulse already dispatched when Close runs
	// either finishes before the final Stop or is discarded.
	mu       sync.Mutex
	closed   bool
	closeErr error
}

// Attach registers the bridge's handlers on c. Send failures are logged once per
// failing streak and counted, never returned to the clock loop.
func Attach(c contracts.Clock, output contracts.ClockOutput, logger contracts.Logger) *Bridge {
	b := &Bridge{clock: c, output: output, logger: logger}
	b.remove = c.AddHandlers(contracts.Handlers{
		OnPulse: func(int) { b.send(contracts.TimingClock) },
		OnTransport: func(state contracts.TransportState) {
			if state == contracts.Running {
				b.send(contracts.StartMsg)
				return
			}
			b.send(contracts.StopMsg)
		},
	})
	return b
}

func (b *Bridge) send(msg byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	if err := b.output.Send([]byte{msg}); err != nil {
		b.dropped.Add(1)
		if !b.failing.Swap(true) {
			b.logger.Error("Failed to send MIDI clock message",
				b.logger.Field().Uint8("status", msg),
				b.logger.Field().Error("error", err))
		}
		return
	}
	if b.failing.Swap(false) {
		b.logger.Info("MIDI clock output recovered", b.logger.Field().Int64("dropped", b.dropped.Load()))
	}
}

// Dropped returns the number of messages the output refused.
func (b *Bridge) Dropped() int64 {
	return b.dropped.Load()
}

// Close detaches the bridge, sends Stop if the clock is still running and stops
// the output. No message reaches the output after Close returns. Every failure
// is returned; later calls return the first result.
func (b *Bridge) Close() error {
	b.remove()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return b.closeErr
	}
	b.closed = true
	if b.clock.IsPlaying() {
		b.closeErr = multierr.Append(b.closeErr, b.output.Send([]byte{contracts.StopMsg}))
	}
	b.closeErr = multierr.Append(b.closeErr, b.output.Stop())
	return b.closeErr
}
