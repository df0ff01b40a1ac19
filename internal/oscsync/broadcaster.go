// Package oscsync publishes a clock over OSC using the oscsync addresses, so
// other oscsync slaves can follow its pulses and tempo.
package oscsync

import (
	"math"
	"sync/atomic"

	"github.com/hypebeast/go-osc/osc"
	"github.com/leandrodaf/midiclock/sdk/contracts"
)

// OSC addresses.
const (
	AddressPulse = "/sync/pulse"
	AddressTempo = "/sync/tempo"
)

// DefaultPort is the port oscsync slaves listen on.
const DefaultPort = 5776

type sender interface {
	Send(packet osc.Packet) error
}

// Broadcaster sends /sync/pulse on every pulse and /sync/tempo whenever the
// tempo it last announced changes.
type Broadcaster struct {
	client sender
	logger contracts.Logger

	lastTempo atomic.Uint64 // math.Float64bits of the last announced tempo
	failing   atomic.Bool
}

// NewBroadcaster creates a broadcaster sending UDP packets to host:port.
func NewBroadcaster(host string, port int, logger contracts.Logger) *Broadcaster {
	logger.Info("OSC sync target configured",
		logger.Field().String("host", host),
		logger.Field().Int("port", port))
	return &Broadcaster{client: osc.NewClient(host, port), logger: logger}
}

// Attach publishes c until the returned function is called.
func (b *Broadcaster) Attach(c contracts.Clock) (detach func()) {
	return c.AddHandlers(contracts.Handlers{
		OnPulse: func(pulse int) {
			tempo := c.CurrentTempo()
			if math.Float64bits(tempo) != b.lastTempo.Load() {
				b.SendTempo(tempo)
			}
			b.SendPulse(tempo, pulse)
		},
		OnTransport: func(state contracts.TransportState) {
			if state == contracts.Running {
				b.SendTempo(c.CurrentTempo())
			}
		},
	})
}

// SendPulse sends one /sync/pulse message carrying the tempo and pulse count.
func (b *Broadcaster) SendPulse(tempo float64, count int) {
	msg := osc.NewMessage(AddressPulse)
	msg.Append(float32(tempo))
	msg.Append(int32(count))
	b.send(msg)
}

// SendTempo announces tempo on /sync/tempo.
func (b *Broadcaster) SendTempo(tempo float64) {
	b.lastTempo.Store(math.Float64bits(tempo))
	msg := osc.NewMessage(AddressTempo)
	msg.Append(float32(tempo))
	b.send(msg)
}

func (b *Broadcaster) send(msg *osc.Message) {
	if err := b.client.Send(msg); err != nil {
		if !b.failing.Swap(true) {
			b.logger.Warn("Failed to send OSC sync message",
				b.logger.Field().String("address", msg.Address),
				b.logger.Field().Error("error", err))
		}
		return
	}
	b.failing.Store(false)
}
