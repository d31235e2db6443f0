package engine

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/burstbench/internal/burst"
	"github.com/wesleyorama2/burstbench/internal/config"
	"github.com/wesleyorama2/burstbench/internal/particle"
	"github.com/wesleyorama2/burstbench/internal/timing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := config.Default()
	off := false
	cfg.Render.Enabled = &off
	cfg.Trigger.Rate = 500
	cfg.Trigger.Bursts = 3
	cfg.Seed = 11
	return cfg
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := NewEngine(nil, nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Trigger.Rate = 0
	_, err = NewEngine(cfg, quietLogger())
	assert.Error(t, err)
}

func TestEngine_Run(t *testing.T) {
	eng, err := NewEngine(testConfig(), quietLogger())
	require.NoError(t, err)
	assert.Equal(t, burst.Tags, eng.Strategies())

	var observed atomic.Int64
	eng.Harness().Observe(func(timing.Record) { observed.Add(1) })

	result, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "burstbench", result.Name)
	assert.Equal(t, 9, result.Summary.TotalBursts)
	assert.Equal(t, int64(9), observed.Load())
	for _, tag := range burst.Tags {
		ss, ok := result.Summary.Strategy(tag)
		require.True(t, ok)
		assert.Equal(t, 3, ss.Count, tag)
		assert.Equal(t, int64(3*particle.DefaultCount*particle.DefaultLifespan), result.Frames[tag], tag)
	}
	assert.Equal(t, int64(9*particle.DefaultCount), result.Stats.Particles)
	assert.False(t, result.EndTime.Before(result.StartTime))

	_, err = eng.Run(context.Background())
	assert.Error(t, err, "closed engine cannot run again")
}

func TestEngine_RunStopsAtDuration(t *testing.T) {
	cfg := testConfig()
	cfg.Trigger.Strategies = []string{"batch"}
	cfg.Trigger.Bursts = 0
	cfg.Trigger.Rate = 100
	cfg.Trigger.Duration = config.Duration(100 * time.Millisecond)

	eng, err := NewEngine(cfg, quietLogger())
	require.NoError(t, err)

	result, err := eng.Run(context.Background())
	require.NoError(t, err)
	assert.Greater(t, result.Summary.TotalBursts, 0)
	assert.Less(t, result.Duration, 5*time.Second)
}

func TestEngine_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Trigger.Bursts = 5
	cfg.Trigger.Rate = 1

	eng, err := NewEngine(cfg, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := eng.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Summary.TotalBursts)
}

func TestEngine_Trigger(t *testing.T) {
	cfg := testConfig()
	cfg.Trigger.Strategies = []string{"multithreading"}

	eng, err := NewEngine(cfg, quietLogger())
	require.NoError(t, err)

	require.NoError(t, eng.Trigger(particle.Point{X: 10, Y: 20}, burst.Concurrent))
	eng.Close()
	eng.Close()

	assert.Equal(t, 1, eng.Harness().Count(burst.Concurrent))
	assert.Equal(t, int64(particle.DefaultCount), eng.Stats().Particles)
	assert.Equal(t, int64(particle.DefaultCount*particle.DefaultLifespan), eng.Frames(burst.Concurrent))
}

func TestStreamSeed(t *testing.T) {
	assert.Equal(t, uint64(0), streamSeed(0, 2))
	assert.Equal(t, uint64(5), streamSeed(5, 0))
	assert.NotEqual(t, streamSeed(5, 1), streamSeed(5, 2))
}
