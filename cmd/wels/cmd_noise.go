package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/noise"
	"github.com/ambia/UTAPWeLS/internal/session"
)

func newNoiseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "noise <well> <log>",
		Short: "Perturb a log with synthetic noise",
		Long: `Perturb a stored log in place with multiplicative and additive
Gaussian noise plus a constant bias. The applied parameters are recorded
in the log's metadata.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, _ := cmd.Flags().GetString("set")
			mult, _ := cmd.Flags().GetFloat64("mult")
			add, _ := cmd.Flags().GetFloat64("add")
			bias, _ := cmd.Flags().GetFloat64("bias")
			seed, _ := cmd.Flags().GetUint64("seed")

			return withWell(cmd, args[0], func(sess *session.Session, w *model.Well) error {
				setName := set
				if setName == "" {
					setName = model.LogSetSimulated
				}
				logSet, err := w.LogSet(setName)
				if err != nil {
					return err
				}
				if seed == 0 {
					seed = sess.Config().Noise.Seed
				}
				if err := noise.Apply(logSet, args[1], noise.Params{
					Mult: mult,
					Add:  add,
					Bias: bias,
					Seed: seed,
				}); err != nil {
					return fmt.Errorf("failed to add noise: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Perturbed %s/%s (mult=%.3g add=%.3g bias=%.3g)\n", setName, args[1], mult, add, bias)
				return nil
			})
		},
	}

	cmd.Flags().String("set", "", "Log set holding the log (default Simulated)")
	cmd.Flags().Float64("mult", 0, "Multiplicative noise standard deviation (fraction)")
	cmd.Flags().Float64("add", 0, "Additive noise standard deviation (log unit)")
	cmd.Flags().Float64("bias", 0, "Constant bias (log unit)")
	cmd.Flags().Uint64("seed", 0, "Random seed (defaults from project config)")

	return cmd
}
