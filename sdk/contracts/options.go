package contracts

// ClockOptions defines the configuration options for a Clock.
type ClockOptions struct {
	Logger       Logger     // Logger for transport transitions and rejected input.
	LogLevel     LogLevel   // Level of logging to use.
	PPQ          int        // Tick resolution for musical-position math.
	InitialTempo float64    // Tempo in BPM before the first SetTempo call.
	TimeSource   TimeSource // Source of time and timers for the pulse loop.
	Handlers     []Handlers // Handlers registered at construction.
}

// Option is a function that modifies ClockOptions.
type Option func(*ClockOptions)

// WithLogger sets the logger for the clock.
func WithLogger(l Logger) Option {
	return func(opts *ClockOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the clock.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClockOptions) {
		opts.LogLevel = level
	}
}

// WithPPQ sets the tick resolution used for musical-position math.
func WithPPQ(ppq int) Option {
	return func(opts *ClockOptions) {
		opts.PPQ = ppq
	}
}

// WithInitialTempo sets the tempo the clock starts with.
func WithInitialTempo(bpm float64) Option {
	return func(opts *ClockOptions) {
		opts.InitialTempo = bpm
	}
}

// WithTimeSource replaces the wall clock, typically with a mock in tests.
func WithTimeSource(ts TimeSource) Option {
	return func(opts *ClockOptions) {
		opts.TimeSource = ts
	}
}

// WithHandlers registers callbacks at construction time.
func WithHandlers(h Handlers) Option {
	return func(opts *ClockOptions) {
		opts.Handlers = append(opts.Handlers, h)
	}
}

// Backend names a ClockOutput implementation.
type Backend string

const (
	// BackendNative picks CoreMIDI on macOS and winmm on Windows, falling back to BackendGoMIDI elsewhere.
	BackendNative Backend = ""
	// BackendCoreMIDI sends through CoreMIDI (macOS only).
	BackendCoreMIDI Backend = "coremidi"
	// BackendWinMM sends through the Windows multimedia API (Windows only).
	BackendWinMM Backend = "winmm"
	// BackendGoMIDI sends through whichever gomidi driver the program registered.
	BackendGoMIDI Backend = "gomidi"
)

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
}

// OutputOptions defines the configuration options for a ClockOutput.
type OutputOptions struct {
	Logger         Logger          // Logger for device events and send failures.
	LogLevel       LogLevel        // Level of logging to use.
	Backend        Backend         // Output implementation to use.
	CoreMIDIConfig *CoreMIDIConfig // Configuration specific to CoreMIDI.
	DeviceName     string          // Destination opened at construction; matched against DeviceInfo.Name.
}

// OutputOption is a function that modifies OutputOptions.
type OutputOption func(*OutputOptions)

// WithOutputLogger sets the logger for the output.
func WithOutputLogger(l Logger) OutputOption {
	return func(opts *OutputOptions) {
		opts.Logger = l
	}
}

// WithOutputLogLevel sets the logging level for the output.
func WithOutputLogLevel(level LogLevel) OutputOption {
	return func(opts *OutputOptions) {
		opts.LogLevel = level
	}
}

// WithBackend selects the output implementation.
func WithBackend(b Backend) OutputOption {
	return func(opts *OutputOptions) {
		opts.Backend = b
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration for the output.
func WithCoreMIDIConfig(config CoreMIDIConfig) OutputOption {
	return func(opts *OutputOptions) {
		opts.CoreMIDIConfig = &config
	}
}

// WithDeviceName opens the first destination whose name contains name.
func WithDeviceName(name string) OutputOption {
	return func(opts *OutputOptions) {
		opts.DeviceName = name
	}
}
