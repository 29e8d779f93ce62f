package videogen

import (
	"sync"
	"time"
)

// Heartbeat invokes a callback on a fixed interval until stopped. It drives
// user-facing progress feedback while a generation request is in flight; ticks
// carry no information about real upstream progress and are never ordered
// against the request itself.
type Heartbeat struct {
	done chan struct{}
	once sync.Once
}

// StartHeartbeat begins ticking immediately. The callback receives the tick
// count starting at 1 and runs on the heartbeat's own goroutine.
func StartHeartbeat(interval time.Duration, fn func(tick int)) *Heartbeat {
	hb := &Heartbeat{done: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick := 0
		for {
			select {
			case <-ticker.C:
				tick++
				fn(tick)
			case <-hb.done:
				return
			}
		}
	}()
	return hb
}

// Stop cancels the heartbeat. Safe to call more than once.
func (h *Heartbeat) Stop() {
	h.once.Do(func() { close(h.done) })
}
