package dispatch

import "log/slog"

// Inline runs each unit on the caller's goroutine before Submit returns.
//
// With Inline the launcher's initiation time includes the full stepping of
// every particle, so it is mainly useful for deterministic tests.
type Inline struct {
	tracker
}

// NewInline creates a synchronous dispatcher.
func NewInline(logger *slog.Logger) *Inline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inline{tracker: tracker{logger: logger}}
}

// Mode returns ModeInline.
func (d *Inline) Mode() Mode { return ModeInline }

// Submit runs task to completion.
func (d *Inline) Submit(task func()) error {
	d.mu.RLock()
	err := d.admit()
	d.mu.RUnlock()
	if err != nil {
		return err
	}
	d.run(task)
	return nil
}

// Wait returns once concurrent Submit calls have finished.
func (d *Inline) Wait() { d.wg.Wait() }

// Close rejects further units.
func (d *Inline) Close() error {
	d.shut()
	d.wg.Wait()
	return nil
}

// Stats returns the dispatcher counters.
func (d *Inline) Stats() Stats { return d.stats() }
