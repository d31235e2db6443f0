// Package rate paces simulated burst triggers.
package rate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// LeakyBucket spaces triggers at a fixed rate.
//
// The bucket tracks when the next trigger is due rather than how many
// tokens are left, so a slow consumer never causes a catch-up burst of
// triggers beyond maxBurst.
//
// # Thread Safety
//
// LeakyBucket is safe for concurrent use; several trigger streams may share
// one bucket to cap the combined rate.
//
// # Example
//
//	lb := NewLeakyBucket(2.0) // two bursts per second
//
//	for {
//	    if err := lb.Wait(ctx); err != nil {
//	        return
//	    }
//	    launcher.OnBurstTriggered(origin, tag)
//	}
type LeakyBucket struct {
	rate        float64   // triggers per second
	lastDrip    time.Time // when the last trigger was due
	accumulated float64   // fractional triggers owed
	maxBurst    float64
	mu          sync.Mutex

	triggers atomic.Int64
	waited   atomic.Int64 // nanoseconds
}

// NewLeakyBucket creates a bucket releasing rate triggers per second.
// A non-positive rate falls back to one per second. The first trigger is
// released immediately.
func NewLeakyBucket(rate float64) *LeakyBucket {
	if rate <= 0 {
		rate = 1.0
	}
	return &LeakyBucket{
		rate:        rate,
		lastDrip:    time.Now(),
		accumulated: 1.0,
		maxBurst:    1.0,
	}
}

// Next returns when the next trigger is due. A time in the past means
// the caller is behind schedule and should fire immediately.
func (lb *LeakyBucket) Next() time.Time {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(lb.lastDrip).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	lb.accumulated += elapsed * lb.rate
	if lb.accumulated > lb.maxBurst {
		lb.accumulated = lb.maxBurst
	}
	lb.triggers.Add(1)

	if lb.accumulated >= 1.0 {
		lb.accumulated -= 1.0
		lb.lastDrip = now
		return now
	}

	wait := time.Duration((1.0 - lb.accumulated) / lb.rate * float64(time.Second))
	lb.accumulated = 0
	next := now.Add(wait)

	// lastDrip moves to the scheduled time so waking up at next does not
	// count the same interval twice.
	lb.lastDrip = next
	lb.waited.Add(int64(wait))
	return next
}

// Wait blocks until the next trigger is due or ctx is done.
func (lb *LeakyBucket) Wait(ctx context.Context) error {
	d := time.Until(lb.Next())
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Rate returns the configured triggers per second.
func (lb *LeakyBucket) Rate() float64 {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.rate
}

// Stats contains bucket counters.
type Stats struct {
	Rate      float64       `json:"rate"`
	Triggers  int64         `json:"triggers"`
	TotalWait time.Duration `json:"totalWait"`
}

// Stats returns the bucket counters.
func (lb *LeakyBucket) Stats() Stats {
	return Stats{
		Rate:      lb.Rate(),
		Triggers:  lb.triggers.Load(),
		TotalWait: time.Duration(lb.waited.Load()),
	}
}
