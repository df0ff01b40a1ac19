package midi

import (
	"errors"
	"runtime"
	"testing"

	"github.com/leandrodaf/midiclock/internal/logger"
	"github.com/leandrodaf/midiclock/sdk/contracts"
	"go.uber.org/zap"
)

func TestResolveBackend(t *testing.T) {
	cases := []struct {
		backend contracts.Backend
		goos    string
		want    contracts.Backend
		err     error
	}{
		{contracts.BackendNative, "darwin", contracts.BackendCoreMIDI, nil},
		{contracts.BackendNative, "windows", contracts.BackendWinMM, nil},
		{contracts.BackendNative, "linux", contracts.BackendGoMIDI, nil},
		{contracts.BackendGoMIDI, "darwin", contracts.BackendGoMIDI, nil},
		{contracts.BackendCoreMIDI, "darwin", contracts.BackendCoreMIDI, nil},
		{contracts.BackendCoreMIDI, "linux", "", ErrUnsupportedOS},
		{contracts.BackendWinMM, "darwin", "", ErrUnsupportedOS},
		{contracts.Backend("alsa"), "linux", "", ErrUnknownBackend},
	}
	for _, c := range cases {
		got, err := resolveBackend(c.backend, c.goos)
		if c.err != nil {
			if !errors.Is(err, c.err) {
				t.Fatalf("resolveBackend(%q, %s) error = %v, want %v", c.backend, c.goos, err, c.err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("resolveBackend(%q, %s): %v", c.backend, c.goos, err)
		}
		if got != c.want {
			t.Fatalf("resolveBackend(%q, %s) = %q, want %q", c.backend, c.goos, got, c.want)
		}
	}
}

func TestNewClockOutputRejectsForeignBackend(t *testing.T) {
	quiet := contracts.WithOutputLogger(logger.NewFromZap(zap.NewNop()))

	foreign := contracts.BackendWinMM
	if runtime.GOOS == "windows" {
		foreign = contracts.BackendCoreMIDI
	}
	if _, err := NewClockOutput(quiet, contracts.WithBackend(foreign)); !errors.Is(err, ErrUnsupportedOS) {
		t.Fatalf("NewClockOutput(%q) error = %v, want ErrUnsupportedOS", foreign, err)
	}
	if _, err := NewClockOutput(quiet, contracts.WithBackend("jack")); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("NewClockOutput(jack) error = %v, want ErrUnknownBackend", err)
	}
}

func TestApplyDefaultOptions(t *testing.T) {
	options, err := applyDefaultOptions(contracts.WithDeviceName("IAC"))
	if err != nil {
		t.Fatalf("applyDefaultOptions: %v", err)
	}
	if options.Logger == nil || options.CoreMIDIConfig == nil {
		t.Fatalf("defaults missing: %+v", options)
	}
	if options.CoreMIDIConfig.ClientName != "Go MIDI Clock" {
		t.Fatalf("ClientName = %q", options.CoreMIDIConfig.ClientName)
	}
	if options.Backend != contracts.BackendNative || options.DeviceName != "IAC" {
		t.Fatalf("unexpected options: %+v", options)
	}

	options, _ = applyDefaultOptions(contracts.WithCoreMIDIConfig(contracts.CoreMIDIConfig{ClientName: "Drum Brain"}))
	if options.CoreMIDIConfig.ClientName != "Drum Brain" {
		t.Fatalf("explicit CoreMIDI config overwritten: %q", options.CoreMIDIConfig.ClientName)
	}
}

func TestFindDevice(t *testing.T) {
	devices := []contracts.DeviceInfo{
		{ID: 0, Name: "IAC Driver Bus 1"},
		{ID: 1, Name: "Elektron Digitakt"},
		{ID: 2, Name: "Digitakt MIDI 2"},
	}
	if id, ok := FindDevice(devices, "digitakt"); !ok || id != 1 {
		t.Fatalf("FindDevice(digitakt) = %d, %v, want 1, true", id, ok)
	}
	if _, ok := FindDevice(devices, "Model:Cycles"); ok {
		t.Fatalf("FindDevice matched a missing device")
	}
}
