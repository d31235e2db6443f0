package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/wesleyorama2/burstbench/internal/burst"
	"github.com/wesleyorama2/burstbench/internal/particle"
	"github.com/wesleyorama2/burstbench/internal/report"
	"github.com/wesleyorama2/burstbench/internal/timing"
)

// profile is the log-normal shape of one strategy's initiation times.
type profile struct {
	tag    burst.Tag
	median time.Duration
	sigma  float64
}

func main() {
	outputPath := "sample-burst-report.html"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	h := createSampleHarness(120)
	err := report.GenerateHTML("Burst Strategies - Sample Run", h.Summary(), h.AllRecords(), outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sample report generated: %s\n", outputPath)
}

// createSampleHarness fills a harness with n synthetic bursts per strategy.
func createSampleHarness(n int) *timing.Harness {
	profiles := []profile{
		{burst.Sequential, 180 * time.Microsecond, 0.35},
		{burst.Batch, 95 * time.Microsecond, 0.25},
		{burst.Concurrent, 140 * time.Microsecond, 0.6},
	}

	src := particle.NewSource(42)
	h := timing.NewHarness()
	for _, p := range profiles {
		dist := distuv.LogNormal{Mu: math.Log(p.median.Seconds()), Sigma: p.sigma, Src: src}
		for i := 0; i < n; i++ {
			_ = h.RecordSeconds(p.tag, dist.Rand())
		}
	}
	return h
}
