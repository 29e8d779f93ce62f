package videogen

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestHeartbeatTicksUntilStopped(t *testing.T) {
	var ticks atomic.Int64
	hb := StartHeartbeat(5*time.Millisecond, func(int) { ticks.Add(1) })

	deadline := time.After(time.Second)
	for ticks.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("heartbeat never reached 3 ticks, got %d", ticks.Load())
		case <-time.After(time.Millisecond):
		}
	}

	hb.Stop()
	settled := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	// Allow one in-flight tick to land after Stop.
	if ticks.Load() > settled+1 {
		t.Fatalf("heartbeat kept ticking after Stop: %d -> %d", settled, ticks.Load())
	}
}

func TestHeartbeatStopIsIdempotent(t *testing.T) {
	hb := StartHeartbeat(time.Millisecond, func(int) {})
	hb.Stop()
	hb.Stop()
}
