// Package timesource adapts github.com/benbjohnson/clock to contracts.TimeSource.
package timesource

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/leandrodaf/midiclock/sdk/contracts"
)

type source struct {
	clock clock.Clock
}

// New returns a TimeSource backed by the system clock.
func New() contracts.TimeSource {
	return FromClock(clock.New())
}

// FromClock wraps any clock.Clock, including *clock.Mock.
func FromClock(c clock.Clock) contracts.TimeSource {
	return source{clock: c}
}

func (s source) Now() time.Time {
	return s.clock.Now()
}

func (s source) NewTimer(d time.Duration) contracts.Timer {
	return timer{t: s.clock.Timer(d)}
}

type timer struct {
	t *clock.Timer
}

func (t timer) C() <-chan time.Time { return t.t.C }

func (t timer) Stop() bool { return t.t.Stop() }
