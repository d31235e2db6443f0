package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/burstbench/internal/config"
	"github.com/wesleyorama2/burstbench/internal/report"
	"github.com/wesleyorama2/burstbench/internal/timing"
	"github.com/wesleyorama2/burstbench/pkg/jsonpath"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Summarize a saved run",
		Long: `Print the summary of a saved run. CSV files written by "run --csv" are
replayed to rebuild averages and percentiles; JSON summaries written by
"run --json" are printed directly or queried.

  burstbench report bursts.csv
  burstbench report summary.json --query '$.overallAverage'
  burstbench report summary.json --query 'strategies.#(strategy=="batch").p99'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			queries, _ := cmd.Flags().GetStringArray("query")

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("error reading %s: %w", path, err)
			}

			var sum *timing.Summary
			switch strings.ToLower(filepath.Ext(path)) {
			case ".csv":
				if len(queries) > 0 {
					return fmt.Errorf("--query requires a JSON summary")
				}
				sum, err = replayCSV(data)
			default:
				if len(queries) > 0 {
					return printQueries(cmd, string(data), queries)
				}
				sum, err = report.ReadJSON(bytes.NewReader(data))
			}
			if err != nil {
				return err
			}

			cfg := config.Default()
			cfg.Name = filepath.Base(path)
			console := newConsole(cmd, cfg)
			console.PrintAverages(sum)
			console.PrintSummary(sum, 0)
			return nil
		},
	}

	cmd.Flags().StringArrayP("query", "Q", nil, "JSONPath or gjson query against a JSON summary (repeatable)")
	return cmd
}

// replayCSV rebuilds a summary from saved burst records.
func replayCSV(data []byte) (*timing.Summary, error) {
	records, err := report.ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	h := timing.NewHarness()
	for _, rec := range records {
		if err := h.Record(rec.Strategy, rec.Elapsed); err != nil {
			return nil, err
		}
	}
	return h.Summary(), nil
}

func printQueries(cmd *cobra.Command, doc string, queries []string) error {
	out := cmd.OutOrStdout()
	if len(queries) == 1 {
		v, err := jsonpath.Extract(doc, queries[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, v)
		return nil
	}

	values, err := jsonpath.ExtractAll(doc, queries)
	for _, q := range queries {
		if v, ok := values[q]; ok {
			fmt.Fprintf(out, "%s = %s\n", q, v)
		}
	}
	return err
}
