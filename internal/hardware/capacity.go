// Package hardware probes the GPU memory available to the local model
// backend.
package hardware

import (
	"context"
	"sync"

	"github.com/omniweb/omniweb/providers/observability"
)

// State describes what is known about the host's VRAM.
type State int

const (
	// StateUnknown means detection has not run yet.
	StateUnknown State = iota
	// StateDetected means a capacity was measured.
	StateDetected
	// StateAbsent means detection ran and found nothing usable.
	StateAbsent
)

func (s State) String() string {
	switch s {
	case StateDetected:
		return "detected"
	case StateAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// DetectFunc measures VRAM in bytes. ok is false when no capacity could be
// determined.
type DetectFunc func(ctx context.Context) (vram uint64, ok bool)

// Capacity caches the result of a DetectFunc for the life of the process.
// Detection runs at most once, on first use, and both outcomes are cached.
type Capacity struct {
	detect DetectFunc

	once  sync.Once
	mu    sync.RWMutex
	state State
	vram  uint64
}

// NewCapacity returns a Capacity backed by detect. A nil detect uses Detect.
func NewCapacity(detect DetectFunc) *Capacity {
	if detect == nil {
		detect = Detect
	}
	return &Capacity{detect: detect}
}

// VRAM returns the detected capacity in bytes, running detection on first
// call. Detection is not tied to the caller's cancellation, since its result
// outlives the call; each probe command carries its own timeout.
func (c *Capacity) VRAM(ctx context.Context) (uint64, bool) {
	c.once.Do(func() {
		vram, ok := c.detect(context.WithoutCancel(ctx))

		c.mu.Lock()
		if ok && vram > 0 {
			c.state, c.vram = StateDetected, vram
		} else {
			c.state = StateAbsent
		}
		c.mu.Unlock()

		if observer := observability.ObserverFromContext(ctx); observer != nil {
			observer.Info(ctx, "vram probe finished",
				observability.String("hardware.vram.state", c.State().String()),
				observability.Int64("hardware.vram.bytes", int64(vram)),
			)
		}
	})

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vram, c.state == StateDetected
}

// State reports the cache state without triggering detection.
func (c *Capacity) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}
