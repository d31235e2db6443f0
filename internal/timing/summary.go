package timing

import (
	"time"

	"github.com/wesleyorama2/burstbench/internal/burst"
)

// RecordSeconds appends an initiation time given in seconds.
func (h *Harness) RecordSeconds(tag burst.Tag, seconds float64) error {
	return h.Record(tag, time.Duration(seconds*float64(time.Second)))
}

// StrategySummary contains the statistics of one strategy's history.
// All durations are in seconds.
type StrategySummary struct {
	Strategy burst.Tag `json:"strategy"`
	Count    int       `json:"count"`
	Average  float64   `json:"average"`
	Last     float64   `json:"last"`
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	StdDev   float64   `json:"stdDev"`
	P50      float64   `json:"p50"`
	P90      float64   `json:"p90"`
	P99      float64   `json:"p99"`
}

// Summary is a point-in-time view of the whole harness.
type Summary struct {
	Strategies     []StrategySummary `json:"strategies"`
	OverallAverage float64           `json:"overallAverage"`
	TotalBursts    int               `json:"totalBursts"`
	Timestamp      time.Time         `json:"timestamp"`
}

// Strategy returns the summary for tag, if present.
func (s *Summary) Strategy(tag burst.Tag) (StrategySummary, bool) {
	for _, ss := range s.Strategies {
		if ss.Strategy == tag {
			return ss, true
		}
	}
	return StrategySummary{}, false
}

// Summary returns statistics for every strategy.
func (h *Harness) Summary() *Summary {
	h.mu.RLock()

	sum := &Summary{Timestamp: h.clock.Now()}
	var total float64
	for _, tag := range h.strategies {
		history := h.histories[tag]
		hist := h.hists[tag]

		ss := StrategySummary{
			Strategy: tag,
			Count:    len(history),
			Average:  average(h.sums[tag], len(history)),
		}
		if n := len(history); n > 0 {
			ss.Last = history[n-1].ElapsedSeconds()
			ss.Min = seconds(hist.Min())
			ss.Max = seconds(hist.Max())
			ss.StdDev = hist.StdDev() / float64(time.Second)
			ss.P50 = seconds(hist.ValueAtQuantile(50))
			ss.P90 = seconds(hist.ValueAtQuantile(90))
			ss.P99 = seconds(hist.ValueAtQuantile(99))
		}

		total += ss.Average
		sum.TotalBursts += ss.Count
		sum.Strategies = append(sum.Strategies, ss)
	}
	h.mu.RUnlock()

	if len(h.strategies) > 0 {
		sum.OverallAverage = total / float64(len(h.strategies))
	}
	return sum
}

func seconds(ns int64) float64 {
	return time.Duration(ns).Seconds()
}
