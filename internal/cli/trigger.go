package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/burstbench/internal/burst"
	"github.com/wesleyorama2/burstbench/internal/engine"
	"github.com/wesleyorama2/burstbench/internal/particle"
	"github.com/wesleyorama2/burstbench/internal/report"
)

func newTriggerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Trigger a single burst",
		Long: `Trigger one burst at the given point and print its initiation time.
The command returns once every particle has faded out.

  burstbench trigger --x 120 --y 80 --strategy simd`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			selector, _ := cmd.Flags().GetString("strategy")
			tag, err := burst.ParseTag(selector)
			if err != nil {
				return err
			}
			x, _ := cmd.Flags().GetFloat64("x")
			y, _ := cmd.Flags().GetFloat64("y")
			origin := particle.Point{X: x, Y: y}

			cfg.Trigger.Strategies = []string{string(tag)}
			logger := newLogger(cfg, cmd.ErrOrStderr())
			eng, err := engine.NewEngine(cfg, logger)
			if err != nil {
				return err
			}
			report.Attach(eng.Harness(), newConsole(cmd, cfg))

			err = eng.Trigger(origin, tag)
			eng.Close()
			if err != nil {
				return fmt.Errorf("burst at %s: %w", origin, err)
			}

			stats := eng.Stats()
			if stats.Failures > 0 {
				return fmt.Errorf("burst at %s was not recorded", origin)
			}
			logger.Info("burst finished",
				"strategy", tag,
				"origin", origin.String(),
				"particles", stats.Particles,
				"frames", eng.Frames(tag),
			)
			return nil
		},
	}

	cmd.Flags().StringP("config", "c", "", "Configuration file (YAML or JSON)")
	cmd.Flags().StringP("strategy", "s", string(burst.Sequential), "Strategy: sequential, batch, concurrent")
	cmd.Flags().Float64("x", 150, "Burst origin x")
	cmd.Flags().Float64("y", 150, "Burst origin y")
	cmd.Flags().String("dispatch", "", "Dispatch mode: spawn, pool, inline")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 = time based)")
	cmd.Flags().Bool("no-render", false, "Drain particles without frame pacing")
	cmd.Flags().Duration("frame-delay", 0, "Pause between frames of a particle")
	return cmd
}
