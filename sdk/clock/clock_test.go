package clock

import (
	"errors"
	"testing"
	"time"

	mockclock "github.com/benbjohnson/clock"
	"github.com/leandrodaf/midiclock/internal/logger"
	"github.com/leandrodaf/midiclock/internal/timesource"
	"github.com/leandrodaf/midiclock/sdk/contracts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestApplyDefaultOptions(t *testing.T) {
	options, err := applyDefaultOptions()
	if err != nil {
		t.Fatalf("applyDefaultOptions: %v", err)
	}
	if options.Logger == nil {
		t.Fatalf("no default logger")
	}
	if options.TimeSource == nil {
		t.Fatalf("no default time source")
	}
	if options.PPQ != contracts.DefaultPPQ {
		t.Fatalf("PPQ = %d, want %d", options.PPQ, contracts.DefaultPPQ)
	}
	if options.InitialTempo != contracts.DefaultTempo {
		t.Fatalf("InitialTempo = %v, want %v", options.InitialTempo, contracts.DefaultTempo)
	}
	if options.LogLevel != contracts.InfoLevel {
		t.Fatalf("LogLevel = %v, want InfoLevel", options.LogLevel)
	}
}

func TestApplyDefaultOptionsKeepsExplicitValues(t *testing.T) {
	ts := timesource.FromClock(mockclock.NewMock())
	h := contracts.Handlers{OnBarStart: func() {}}
	options, err := applyDefaultOptions(
		contracts.WithPPQ(96),
		contracts.WithInitialTempo(87.5),
		contracts.WithTimeSource(ts),
		contracts.WithHandlers(h),
		contracts.WithHandlers(h),
	)
	if err != nil {
		t.Fatalf("applyDefaultOptions: %v", err)
	}
	if options.PPQ != 96 || options.InitialTempo != 87.5 || options.TimeSource != ts {
		t.Fatalf("explicit options overwritten: %+v", options)
	}
	if len(options.Handlers) != 2 {
		t.Fatalf("got %d handler sets, want 2", len(options.Handlers))
	}
}

func TestNewClockRejectsInvalidOptions(t *testing.T) {
	quiet := contracts.WithLogger(logger.NewFromZap(zap.NewNop()))

	if _, err := NewClock(quiet, contracts.WithPPQ(-1)); !errors.Is(err, contracts.ErrInvalidPPQ) {
		t.Fatalf("PPQ -1 error = %v, want ErrInvalidPPQ", err)
	}
	for _, bpm := range []float64{-120, 19, 301} {
		if _, err := NewClock(quiet, contracts.WithInitialTempo(bpm)); !errors.Is(err, contracts.ErrInvalidTempo) {
			t.Fatalf("tempo %v error = %v, want ErrInvalidTempo", bpm, err)
		}
	}
}

func TestNewClockAppliesLogLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c, err := NewClock(
		contracts.WithLogger(logger.NewFromZap(zap.New(core))),
		contracts.WithLogLevel(contracts.DebugLevel),
		contracts.WithInitialTempo(100),
	)
	if err != nil {
		t.Fatalf("NewClock: %v", err)
	}
	defer c.Cleanup()

	entries := logs.FilterMessage("Clock created").All()
	if len(entries) != 1 {
		t.Fatalf("got %d creation logs, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["tempo"]; got != 100.0 {
		t.Fatalf("logged tempo = %v, want 100", got)
	}
	if c.CurrentTempo() != 100 {
		t.Fatalf("CurrentTempo() = %v, want 100", c.CurrentTempo())
	}
}

func TestClockDrivenByMockTime(t *testing.T) {
	mock := mockclock.NewMock()
	quarters := make(chan int, 8)
	c, err := NewClock(
		contracts.WithLogger(logger.NewFromZap(zap.NewNop())),
		contracts.WithTimeSource(timesource.FromClock(mock)),
		contracts.WithInitialTempo(300),
		contracts.WithHandlers(contracts.Handlers{
			OnQuarterNote: func(q int) { quarters <- q },
		}),
	)
	if err != nil {
		t.Fatalf("NewClock: %v", err)
	}
	defer c.Cleanup()

	c.Start()
	select {
	case q := <-quarters:
		if q != 0 {
			t.Fatalf("first quarter = %d, want 0", q)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no quarter note after Start")
	}
	if !c.IsPlaying() || c.State() != contracts.Running {
		t.Fatalf("clock not running after Start")
	}

	c.Stop()
	if c.IsPlaying() || c.CurrentPulse() != 0 {
		t.Fatalf("clock state not reset by Stop")
	}
}
