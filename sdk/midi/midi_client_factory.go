package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/midiclock/internal/midi/mididarwin"
	"github.com/leandrodaf/midiclock/internal/midi/midiport"
	"github.com/leandrodaf/midiclock/internal/midi/midiwindows"
	"github.com/leandrodaf/midiclock/sdk/contracts"
)

var (
	// ErrUnsupportedOS is returned when a backend is requested on an operating system it does not run on.
	ErrUnsupportedOS = errors.New("unsupported operating system")
	// ErrUnknownBackend is returned for a Backend value with no initializer.
	ErrUnknownBackend = errors.New("unknown MIDI backend")
)

type outputInitializer func(*contracts.OutputOptions) (contracts.ClockOutput, error)

// outputInitializers maps backends to their output initializers.
var outputInitializers = map[contracts.Backend]outputInitializer{
	contracts.BackendCoreMIDI: mididarwin.NewClockOutput,  // macOS (Darwin) CoreMIDI output.
	contracts.BackendWinMM:    midiwindows.NewClockOutput, // Windows multimedia output.
	contracts.BackendGoMIDI:   midiport.NewClockOutput,    // Any registered gomidi driver.
}

// nativeBackends maps OS names to the backend BackendNative resolves to.
var nativeBackends = map[string]contracts.Backend{
	"darwin":  contracts.BackendCoreMIDI,
	"windows": contracts.BackendWinMM,
}

// backendOS names the only OS a platform backend works on.
var backendOS = map[contracts.Backend]string{
	contracts.BackendCoreMIDI: "darwin",
	contracts.BackendWinMM:    "windows",
}

// resolveBackend picks the backend for goos. BackendNative falls back to gomidi
// on systems without a native backend.
func resolveBackend(b contracts.Backend, goos string) (contracts.Backend, error) {
	if b == contracts.BackendNative {
		if native, ok := nativeBackends[goos]; ok {
			return native, nil
		}
		return contracts.BackendGoMIDI, nil
	}
	if _, ok := outputInitializers[b]; !ok {
		return b, fmt.Errorf("%w: %q", ErrUnknownBackend, b)
	}
	if want, ok := backendOS[b]; ok && want != goos {
		return b, fmt.Errorf("%w: %s backend on %s", ErrUnsupportedOS, b, goos)
	}
	return b, nil
}

// NewOutput initializes a clock output for the configured backend on the current
// operating system.
func NewOutput(opts *contracts.OutputOptions) (contracts.ClockOutput, error) {
	backend, err := resolveBackend(opts.Backend, runtime.GOOS)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("MIDI backend resolved", opts.Logger.Field().String("backend", string(backend)))
	return outputInitializers[backend](opts)
}
