package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/burstbench/internal/config"
	"github.com/wesleyorama2/burstbench/internal/engine"
	"github.com/wesleyorama2/burstbench/internal/report"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a benchmark of simulated clicks",
		Long: `Simulate clicks at random points of the canvas, one click stream per
strategy, and report burst initiation times as they are recorded.

Config file mode:
  burstbench run --config bench.yaml

Quick CLI mode:
  burstbench run --strategies sequential,batch --bursts 20 --rate 5

Time-boxed run with a bounded worker pool:
  burstbench run --bursts 0 --duration 1m --dispatch pool --workers 64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := runConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := newLogger(cfg, cmd.ErrOrStderr())
			return runBench(ctx, cfg, newConsole(cmd, cfg), logger)
		},
	}

	cmd.Flags().StringP("config", "c", "", "Configuration file (YAML or JSON)")
	cmd.Flags().String("name", "", "Run name shown in the report")
	cmd.Flags().StringSlice("strategies", nil, "Strategies to run (sequential, batch, concurrent)")
	cmd.Flags().Int("bursts", 0, "Bursts per strategy (0 = until --duration)")
	cmd.Flags().Float64("rate", 0, "Bursts per second per strategy")
	cmd.Flags().Duration("duration", 0, "Maximum run time (e.g., 30s, 5m)")
	cmd.Flags().Int("width", 0, "Canvas width")
	cmd.Flags().Int("height", 0, "Canvas height")
	cmd.Flags().String("dispatch", "", "Dispatch mode: spawn, pool, inline")
	cmd.Flags().Int("workers", 0, "Pool workers (pool mode)")
	cmd.Flags().Int("queue", 0, "Pool queue capacity (pool mode)")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 = time based)")
	cmd.Flags().Bool("no-render", false, "Drain particles without frame pacing")
	cmd.Flags().Duration("frame-delay", 0, "Pause between frames of a particle")
	cmd.Flags().Duration("interval", 0, "Interval between average reports")
	cmd.Flags().String("csv", "", "Write every burst record to a CSV file")
	cmd.Flags().String("json", "", "Write the final summary to a JSON file")
	cmd.Flags().String("html", "", "Write an HTML report with a per-burst chart")
	cmd.Flags().BoolP("quiet", "q", false, "Only print the final summary")
	return cmd
}

// runConfig loads the configuration and applies the run flags.
func runConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Name, _ = flags.GetString("name")
	}
	if flags.Changed("strategies") {
		cfg.Trigger.Strategies, _ = flags.GetStringSlice("strategies")
	}
	if flags.Changed("bursts") {
		cfg.Trigger.Bursts, _ = flags.GetInt("bursts")
	}
	if flags.Changed("rate") {
		cfg.Trigger.Rate, _ = flags.GetFloat64("rate")
	}
	if flags.Changed("duration") {
		d, _ := flags.GetDuration("duration")
		cfg.Trigger.Duration = config.Duration(d)
	}
	if flags.Changed("width") {
		cfg.Canvas.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		cfg.Canvas.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("interval") {
		d, _ := flags.GetDuration("interval")
		cfg.Report.Interval = config.Duration(d)
	}
	if flags.Changed("csv") {
		cfg.Report.CSV, _ = flags.GetString("csv")
	}
	if flags.Changed("json") {
		cfg.Report.JSON, _ = flags.GetString("json")
	}
	if flags.Changed("html") {
		cfg.Report.HTML, _ = flags.GetString("html")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runBench runs the engine with the console, exporters and the periodic
// reporter attached, then prints the summary.
func runBench(ctx context.Context, cfg *config.Config, console *report.Console, logger *slog.Logger) error {
	eng, err := engine.NewEngine(cfg, logger)
	if err != nil {
		return err
	}
	report.Attach(eng.Harness(), console)

	var csv *report.CSVWriter
	if cfg.Report.CSV != "" {
		csv, err = report.NewCSVWriter(cfg.Report.CSV)
		if err != nil {
			eng.Close()
			return err
		}
		csv.Observe(eng.Harness())
	}

	console.PrintHeader(eng.Strategies(),
		fmt.Sprintf("Dispatch:   %s", eng.Dispatcher().Mode()),
		fmt.Sprintf("Bursts:     %s at %.2f/s per strategy", burstsLabel(cfg.Trigger.Bursts), cfg.Trigger.Rate),
		fmt.Sprintf("Canvas:     %dx%d", cfg.Canvas.Width, cfg.Canvas.Height),
	)

	reporterCtx, stopReporter := context.WithCancel(context.Background())
	reporterDone := make(chan struct{})
	reporter := report.NewReporter(eng.Harness(), console, time.Duration(cfg.Report.Interval))
	go func() {
		defer close(reporterDone)
		reporter.Run(reporterCtx)
	}()

	result, err := eng.Run(ctx)
	stopReporter()
	<-reporterDone
	if err != nil {
		return err
	}

	sum := result.Summary
	console.PrintSummary(sum, result.Duration)

	var errs []error
	if csv != nil {
		if err := csv.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if cfg.Report.JSON != "" {
		if err := report.WriteFile(cfg.Report.JSON, sum); err != nil {
			errs = append(errs, err)
		}
	}
	if cfg.Report.HTML != "" {
		if err := report.GenerateHTML(cfg.Name, sum, eng.Harness().AllRecords(), cfg.Report.HTML); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("writing results: %v", errs)
	}
	return nil
}

func burstsLabel(n int) string {
	if n == 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d", n)
}
