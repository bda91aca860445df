package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/session"
	"github.com/ambia/UTAPWeLS/internal/sim"
)

func newSimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim <simulator> <well>",
		Short: "Run a logging-tool simulator against a well",
		Long: `Run a logging-tool simulator against a well's earth model and store
the produced curves in a log set.

Available simulators:
  resistivity  deep/shallow resistivity (RD, RS); tools: induction, laterolog
  nuclear      density, neutron porosity and gamma ray (RHOB, NPHI, GR); tools: standard, hires
  sonic        compressional slowness (DT); variants: wyllie, rhg`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, _ := cmd.Flags().GetString("tool")
			variant, _ := cmd.Flags().GetString("variant")
			outputs, _ := cmd.Flags().GetStringSlice("outputs")
			rate, _ := cmd.Flags().GetFloat64("rate")
			set, _ := cmd.Flags().GetString("set")

			return withWell(cmd, args[1], func(sess *session.Session, w *model.Well) error {
				cfg := sess.Config()
				base := sim.Config{SamplingRate: rate, LogSet: set}
				if base.SamplingRate == 0 {
					base.SamplingRate = cfg.Simulation.SamplingRate
				}

				var s sim.Simulator
				switch args[0] {
				case "resistivity":
					if tool == "" {
						tool = cfg.Simulation.ResistivityTool
					}
					s = &sim.Resistivity{Config: base, Tool: tool, Outputs: outputs}
				case "nuclear":
					if tool == "" {
						tool = cfg.Simulation.NuclearTool
					}
					s = &sim.Nuclear{Config: base, Tool: tool, Outputs: outputs}
				case "sonic":
					if variant == "" {
						variant = cfg.Simulation.SonicVariant
					}
					s = &sim.Sonic{Config: base, Variant: variant}
				default:
					return fmt.Errorf("unknown simulator %q (valid: resistivity, nuclear, sonic)", args[0])
				}

				if err := s.Run(context.Background(), w); err != nil {
					return fmt.Errorf("simulator %s failed: %w", s.Name(), err)
				}

				setName := set
				if setName == "" {
					setName = model.LogSetSimulated
				}
				logSet, err := w.LogSet(setName)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Ran %s on %s: %v in set %s\n", s.Name(), w.Name, logSet.Names(), setName)
				return nil
			})
		},
	}

	cmd.Flags().String("tool", "", "Tool variant (defaults from project config)")
	cmd.Flags().String("variant", "", "Sonic transform variant (defaults from project config)")
	cmd.Flags().StringSlice("outputs", nil, "Subset of output curves to produce")
	cmd.Flags().Float64("rate", 0, "Depth sampling rate in meters (defaults from project config)")
	cmd.Flags().String("set", "", "Destination log set (default Simulated)")

	return cmd
}
