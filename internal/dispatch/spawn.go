package dispatch

import "log/slog"

// Spawn starts one goroutine per unit.
//
// There is no cap and no backpressure: repeated bursts overlap freely and
// the number of live goroutines is bounded only by memory. Use Pool where
// that ceiling matters.
type Spawn struct {
	tracker
}

// NewSpawn creates an unbounded dispatcher.
func NewSpawn(logger *slog.Logger) *Spawn {
	if logger == nil {
		logger = slog.Default()
	}
	return &Spawn{tracker: tracker{logger: logger}}
}

// Mode returns ModeSpawn.
func (s *Spawn) Mode() Mode { return ModeSpawn }

// Submit starts task on a new goroutine and returns immediately.
func (s *Spawn) Submit(task func()) error {
	s.mu.RLock()
	err := s.admit()
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	go s.run(task)
	return nil
}

// Wait blocks until every started goroutine has returned.
func (s *Spawn) Wait() { s.wg.Wait() }

// Close rejects further units and waits for the running ones.
func (s *Spawn) Close() error {
	s.shut()
	s.wg.Wait()
	return nil
}

// Stats returns the dispatcher counters.
func (s *Spawn) Stats() Stats { return s.stats() }
