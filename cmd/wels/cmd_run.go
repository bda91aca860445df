package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ambia/UTAPWeLS/internal/scenario"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario file against the project",
		Long: `Run a scenario: an ordered YAML list of modeling, calculation,
simulation, noise, export and plot steps. The run stops at the first
failing step; completed steps stay persisted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return fmt.Errorf("failed to load scenario: %w", err)
			}

			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			res, err := scenario.NewRunner(sess).Run(context.Background(), sc)
			if err != nil {
				if res != nil {
					return fmt.Errorf("scenario %s failed after %d step(s): %w", sc.Name, res.StepsRun, err)
				}
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scenario %s completed: %d step(s), run %s\n", res.Scenario, res.StepsRun, res.RunID)
			return nil
		},
	}

	return cmd
}
