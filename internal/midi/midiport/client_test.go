package midiport

import (
	"bytes"
	"errors"
	"testing"

	"github.com/leandrodaf/midiclock/internal/logger"
	"github.com/leandrodaf/midiclock/sdk/contracts"
	"gitlab.com/gomidi/midi/v2/drivers"
	"go.uber.org/zap"
)

type fakeOut struct {
	name    string
	number  int
	open    bool
	openErr error
	sent    [][]byte
}

func (f *fakeOut) Open() error {
	if f.openErr != nil {
		return f.openErr
	}
	f.open = true
	return nil
}

func (f *fakeOut) Close() error {
	f.open = false
	return nil
}

func (f *fakeOut) IsOpen() bool            { return f.open }
func (f *fakeOut) Number() int             { return f.number }
func (f *fakeOut) String() string          { return f.name }
func (f *fakeOut) Underlying() interface{} { return f }

func (f *fakeOut) Send(data []byte) error {
	f.sent = append(f.sent, append([]byte(nil), data...))
	return nil
}

func newTestClient(outs ...*fakeOut) *ClientOut {
	list := make([]drivers.Out, len(outs))
	for i, o := range outs {
		list[i] = o
	}
	return newClient(logger.NewFromZap(zap.NewNop()), func() []drivers.Out { return list })
}

func TestListDevices(t *testing.T) {
	c := newTestClient(&fakeOut{name: "IAC Bus 1"}, &fakeOut{name: "Digitakt", number: 1})
	devices, err := c.ListDevices()
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(devices) != 2 || devices[1].Name != "Digitakt" || devices[1].ID != 1 {
		t.Fatalf("unexpected devices: %+v", devices)
	}

	if _, err := newTestClient().ListDevices(); !errors.Is(err, contracts.ErrNoMIDIDevices) {
		t.Fatalf("empty port list error = %v, want ErrNoMIDIDevices", err)
	}
}

func TestSendRequiresSelection(t *testing.T) {
	c := newTestClient(&fakeOut{name: "IAC Bus 1"})
	if err := c.Send([]byte{contracts.TimingClock}); !errors.Is(err, contracts.ErrNoDeviceSelected) {
		t.Fatalf("Send before SelectDevice error = %v, want ErrNoDeviceSelected", err)
	}
	if err := c.SelectDevice(3); !errors.Is(err, contracts.ErrInvalidMIDIDevice) {
		t.Fatalf("SelectDevice(3) error = %v, want ErrInvalidMIDIDevice", err)
	}
}

func TestSelectSendStop(t *testing.T) {
	first, second := &fakeOut{name: "IAC Bus 1"}, &fakeOut{name: "Digitakt"}
	c := newTestClient(first, second)

	if err := c.SelectDevice(0); err != nil {
		t.Fatalf("SelectDevice(0): %v", err)
	}
	if !first.open {
		t.Fatalf("port not opened")
	}
	if err := c.Send([]byte{contracts.StartMsg}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if err := c.SelectDevice(1); err != nil {
		t.Fatalf("SelectDevice(1): %v", err)
	}
	if first.open {
		t.Fatalf("previous port left open")
	}
	if err := c.Send([]byte{contracts.TimingClock}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(first.sent) != 1 || !bytes.Equal(first.sent[0], []byte{0xFA}) {
		t.Fatalf("first port got %x", first.sent)
	}
	if len(second.sent) != 1 || !bytes.Equal(second.sent[0], []byte{0xF8}) {
		t.Fatalf("second port got %x", second.sent)
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if second.open {
		t.Fatalf("port left open after Stop")
	}
	if err := c.Send([]byte{contracts.TimingClock}); !errors.Is(err, contracts.ErrNoDeviceSelected) {
		t.Fatalf("Send after Stop error = %v, want ErrNoDeviceSelected", err)
	}
}

func TestSelectDeviceOpenFailure(t *testing.T) {
	boom := errors.New("port busy")
	c := newTestClient(&fakeOut{name: "IAC Bus 1", openErr: boom})
	if err := c.SelectDevice(0); err == nil {
		t.Fatalf("SelectDevice succeeded on a port that cannot open")
	}
	if err := c.Send([]byte{contracts.TimingClock}); !errors.Is(err, contracts.ErrNoDeviceSelected) {
		t.Fatalf("Send after failed open error = %v, want ErrNoDeviceSelected", err)
	}
}
