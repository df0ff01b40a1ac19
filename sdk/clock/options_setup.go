package clock

import (
	"fmt"

	"github.com/leandrodaf/midiclock/internal/logger"
	"github.com/leandrodaf/midiclock/internal/timesource"
	"github.com/leandrodaf/midiclock/sdk/contracts"
)

// applyDefaultOptions sets default values for ClockOptions if not explicitly provided.
//
// A zero PPQ or tempo means "not set"; negative values are rejected.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClockOptions, error) {
	options := &contracts.ClockOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.PPQ == 0 {
		options.PPQ = contracts.DefaultPPQ
	}
	if options.PPQ < 0 {
		return *options, fmt.Errorf("%w: %d", contracts.ErrInvalidPPQ, options.PPQ)
	}
	if options.InitialTempo == 0 {
		options.InitialTempo = contracts.DefaultTempo
	}
	if options.TimeSource == nil {
		options.TimeSource = timesource.New()
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
