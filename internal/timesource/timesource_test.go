package timesource

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestMockTimerFiresOnAdvance(t *testing.T) {
	mock := clock.NewMock()
	ts := FromClock(mock)

	start := ts.Now()
	tm := ts.NewTimer(20 * time.Millisecond)

	select {
	case <-tm.C():
		t.Fatalf("timer fired before the mock clock advanced")
	default:
	}

	mock.Add(20 * time.Millisecond)

	select {
	case at := <-tm.C():
		if got := at.Sub(start); got != 20*time.Millisecond {
			t.Fatalf("timer fired after %v, want 20ms", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timer did not fire after advancing the mock clock")
	}
}

func TestStopPreventsFiring(t *testing.T) {
	mock := clock.NewMock()
	ts := FromClock(mock)

	tm := ts.NewTimer(time.Millisecond)
	if !tm.Stop() {
		t.Fatalf("Stop on a pending timer = false")
	}
	mock.Add(time.Second)

	select {
	case <-tm.C():
		t.Fatalf("stopped timer fired")
	default:
	}
}

func TestSystemClock(t *testing.T) {
	ts := New()
	before := time.Now()
	if ts.Now().Before(before) {
		t.Fatalf("system time source went backwards")
	}
	tm := ts.NewTimer(time.Millisecond)
	defer tm.Stop()
	select {
	case <-tm.C():
	case <-time.After(time.Second):
		t.Fatalf("system timer did not fire")
	}
}
