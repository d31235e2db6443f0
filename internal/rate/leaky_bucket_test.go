package rate

import (
	"context"
	"testing"
	"time"
)

func TestNewLeakyBucket_DefaultsRate(t *testing.T) {
	if got := NewLeakyBucket(0).Rate(); got != 1.0 {
		t.Errorf("Rate() = %v, want 1.0", got)
	}
	if got := NewLeakyBucket(-3).Rate(); got != 1.0 {
		t.Errorf("Rate() = %v, want 1.0", got)
	}
}

func TestLeakyBucket_FirstTriggerImmediate(t *testing.T) {
	lb := NewLeakyBucket(1.0)
	if d := time.Until(lb.Next()); d > time.Millisecond {
		t.Errorf("first trigger due in %v, want immediate", d)
	}
}

func TestLeakyBucket_SpacesTriggers(t *testing.T) {
	lb := NewLeakyBucket(100.0) // 10ms apart
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 6; i++ {
		if err := lb.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	elapsed := time.Since(start)

	// One immediate trigger plus five spaced ones.
	if elapsed < 45*time.Millisecond {
		t.Errorf("6 triggers at 100/s took %v, want >= ~50ms", elapsed)
	}
	if lb.Stats().Triggers != 6 {
		t.Errorf("Triggers = %d, want 6", lb.Stats().Triggers)
	}
}

func TestLeakyBucket_WaitHonorsCancellation(t *testing.T) {
	lb := NewLeakyBucket(0.1) // one every 10s
	lb.Next()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := lb.Wait(ctx); err == nil {
		t.Fatal("Wait() returned nil, want context error")
	}
	if time.Since(start) > time.Second {
		t.Error("Wait() did not return promptly after cancellation")
	}
}

func TestLeakyBucket_NoCatchUpBurst(t *testing.T) {
	lb := NewLeakyBucket(50.0)
	lb.Next()
	time.Sleep(100 * time.Millisecond) // five intervals idle

	lb.Next() // allowed immediately
	if d := time.Until(lb.Next()); d <= 0 {
		t.Errorf("third trigger due immediately, want spacing after idle period")
	}
}
