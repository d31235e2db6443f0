package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/burstbench/internal/config"
	"github.com/wesleyorama2/burstbench/internal/report"
)

// loadConfig reads --config when given, otherwise starts from defaults,
// then applies the shared flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("dispatch") {
		cfg.Dispatch.Mode, _ = flags.GetString("dispatch")
	}
	if flags.Changed("workers") {
		cfg.Dispatch.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("queue") {
		cfg.Dispatch.Queue, _ = flags.GetInt("queue")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("frame-delay") {
		d, _ := flags.GetDuration("frame-delay")
		cfg.Render.FrameDelay = config.Duration(d)
	}
	if flags.Changed("no-render") {
		off, _ := flags.GetBool("no-render")
		enabled := !off
		cfg.Render.Enabled = &enabled
	}
	if flags.Changed("quiet") {
		cfg.Report.Quiet, _ = flags.GetBool("quiet")
	}
	return cfg, nil
}

// newLogger builds the operational logger. Logs go to w, normally stderr.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newConsole(cmd *cobra.Command, cfg *config.Config) *report.Console {
	noColor, _ := cmd.Flags().GetBool("no-color")
	return report.NewConsole(report.ConsoleConfig{
		Name:    cfg.Name,
		Writer:  cmd.OutOrStdout(),
		Quiet:   cfg.Report.Quiet,
		NoColor: noColor,
	})
}
