package midi

import (
	"github.com/leandrodaf/midiclock/internal/logger"
	"github.com/leandrodaf/midiclock/sdk/contracts"
)

// applyDefaultOptions sets default values for OutputOptions if not explicitly provided.
//
// opts ...contracts.OutputOption: A variadic list of option functions that can modify OutputOptions.
//
// Returns:
//   - contracts.OutputOptions: A structure containing the finalized output options with defaults applied.
//   - error: An error if there was an issue applying the options.
func applyDefaultOptions(opts ...contracts.OutputOption) (contracts.OutputOptions, error) {
	options := &contracts.OutputOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: "Go MIDI Clock"}
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
