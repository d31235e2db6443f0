package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/burstbench/internal/burst"
	"github.com/wesleyorama2/burstbench/internal/config"
	"github.com/wesleyorama2/burstbench/internal/report"
)

// execute runs a fresh command tree and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRoot_PrintsHelp(t *testing.T) {
	out, _, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "burstbench")
	assert.Contains(t, out, "run")
	assert.Contains(t, out, "trigger")
	assert.Contains(t, out, "report")
}

func TestRun_QuickMode(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "bursts.csv")
	jsonPath := filepath.Join(dir, "summary.json")
	htmlPath := filepath.Join(dir, "report.html")

	out, _, err := execute(t, "run",
		"--bursts", "2",
		"--rate", "200",
		"--no-render",
		"--seed", "7",
		"--interval", "1h",
		"--csv", csvPath,
		"--json", jsonPath,
		"--html", htmlPath,
		"--log-level", "error",
		"--no-color",
	)
	require.NoError(t, err)

	for _, label := range []string{"Sequential", "Batch", "Concurrent"} {
		assert.Equal(t, 2, strings.Count(out, label+" method took"), label)
	}
	assert.Contains(t, out, "burstbench - Completed")
	assert.Contains(t, out, "Total Bursts:  6")

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := report.ReadCSV(f)
	require.NoError(t, err)
	assert.Len(t, records, 6)

	jf, err := os.Open(jsonPath)
	require.NoError(t, err)
	defer jf.Close()
	sum, err := report.ReadJSON(jf)
	require.NoError(t, err)
	assert.Equal(t, 6, sum.TotalBursts)
	for _, tag := range burst.Tags {
		ss, ok := sum.Strategy(tag)
		require.True(t, ok)
		assert.Equal(t, 2, ss.Count)
	}

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<td>Concurrent</td>")
}

func TestRun_SelectedStrategiesWithPool(t *testing.T) {
	out, _, err := execute(t, "run",
		"--strategies", "simd",
		"--bursts", "3",
		"--rate", "200",
		"--dispatch", "pool",
		"--workers", "4",
		"--no-render",
		"--log-level", "error",
		"-q",
	)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "bursts=3 overall="), out)
}

func TestRun_Duration(t *testing.T) {
	out, _, err := execute(t, "run",
		"--bursts", "0",
		"--duration", "150ms",
		"--rate", "50",
		"--strategies", "sequential",
		"--no-render",
		"--log-level", "error",
		"-q",
	)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "bursts="), out)
	assert.NotContains(t, out, "bursts=0 ")
}

func TestRun_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: from-file
trigger:
  strategies: [concurrent]
  bursts: 2
  rate: 100
render:
  enabled: false
report:
  quiet: true
log:
  level: error
`), 0644))

	out, _, err := execute(t, "run", "--config", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "bursts=2 "), out)
}

func TestRun_InvalidSettings(t *testing.T) {
	_, _, err := execute(t, "run", "--rate", "0", "--strategies", "rocket")
	var verrs *config.ValidationErrors
	require.True(t, errors.As(err, &verrs), "got %v", err)
	assert.Equal(t, []string{"trigger.strategies[0]", "trigger.rate"}, verrs.Fields())

	_, _, err = execute(t, "run", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")

	_, _, err = execute(t, "run", "extra")
	require.Error(t, err)
}

func TestTrigger(t *testing.T) {
	out, errOut, err := execute(t, "trigger",
		"--x", "10", "--y", "20",
		"--strategy", "multithreading",
		"--no-render",
		"--seed", "3",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Concurrent method took")
	assert.Contains(t, out, "Concurrent average time")
	assert.Contains(t, errOut, "burst finished")
	assert.Contains(t, errOut, "particles=50")
}

func TestTrigger_InvalidStrategy(t *testing.T) {
	_, _, err := execute(t, "trigger", "--strategy", "rocket")
	assert.True(t, errors.Is(err, burst.ErrInvalidStrategy), "got %v", err)
}

func TestReport_ReplaysCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bursts.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"strategy,seq,elapsed_seconds,timestamp\n"+
			"sequential,0,0.002,2024-03-09T18:30:05Z\n"+
			"sequential,1,0.004,2024-03-09T18:30:06Z\n"+
			"batch,0,0.001,2024-03-09T18:30:07Z\n"), 0644))

	out, _, err := execute(t, "report", path, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Sequential average time: 0.0030 seconds")
	assert.Contains(t, out, "Batch average time: 0.0010 seconds")
	assert.Contains(t, out, "Concurrent average time: 0.0000 seconds")
	assert.Contains(t, out, "Overall average time: 0.0013 seconds")
	assert.Contains(t, out, "bursts.csv - Completed")

	_, _, err = execute(t, "report", path, "--query", "$.totalBursts")
	assert.Error(t, err)
}

func TestReport_QueriesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"strategies": [
			{"strategy": "sequential", "count": 2, "average": 0.003},
			{"strategy": "batch", "count": 1, "average": 0.001}
		],
		"overallAverage": 0.002,
		"totalBursts": 3
	}`), 0644))

	out, _, err := execute(t, "report", path, "--query", "$.totalBursts")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	out, _, err = execute(t, "report", path,
		"-Q", `strategies.#(strategy=="batch").average`,
		"-Q", "$.overallAverage")
	require.NoError(t, err)
	assert.Contains(t, out, `strategies.#(strategy=="batch").average = 0.001`)
	assert.Contains(t, out, "$.overallAverage = 0.002")

	out, _, err = execute(t, "report", path, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Bursts:  3")

	_, _, err = execute(t, "report", path, "--query", "$.missing")
	assert.Error(t, err)

	_, _, err = execute(t, "report", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
