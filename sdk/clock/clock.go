// Package clock builds MIDI clocks: a 24 pulse-per-quarter transport driven by a
// mutable tempo, with quarter-note and bar-start callbacks.
package clock

import (
	"github.com/leandrodaf/midiclock/internal/engine"
	"github.com/leandrodaf/midiclock/sdk/contracts"
)

// NewClock creates a stopped clock with the specified options.
// It applies default options and initializes the engine.
//
// opts ...contracts.Option: A variadic list of option functions to customize the clock configuration.
//
// Returns:
//   - contracts.Clock: An instance of the clock.
//   - error: ErrInvalidPPQ or ErrInvalidTempo when an option is out of range.
func NewClock(opts ...contracts.Option) (contracts.Clock, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	e, err := engine.New(&options)
	if err != nil {
		options.Logger.Error("Failed to create clock", options.Logger.Field().Error("error", err))
		return nil, err
	}

	return e, nil
}
