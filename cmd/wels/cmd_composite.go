package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ambia/UTAPWeLS/internal/curves"
	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/session"
)

func newCompositeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "composite <well> <log>",
		Short: "Overlay a donor log onto a base log",
		Long: `Overlay a donor log onto a base log from the same set and store the
result in the well's Composite set under the base log's name.

By default the donor fills only the base log's gaps. With --top and
--bottom the donor replaces the base over that depth window instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, _ := cmd.Flags().GetString("set")
			donorName, _ := cmd.Flags().GetString("donor")
			top, _ := cmd.Flags().GetFloat64("top")
			bottom, _ := cmd.Flags().GetFloat64("bottom")
			windowed := cmd.Flags().Changed("top") || cmd.Flags().Changed("bottom")

			return withWell(cmd, args[0], func(sess *session.Session, w *model.Well) error {
				setName := set
				if setName == "" {
					setName = model.LogSetSimulated
				}
				base, err := w.FindLog(setName, args[1])
				if err != nil {
					return err
				}
				donor, err := w.FindLog(setName, donorName)
				if err != nil {
					return err
				}

				var out *curves.Log
				if windowed {
					out = base.Clone()
					if err := curves.Splice(out, donor, top, bottom); err != nil {
						return err
					}
				} else {
					out, err = curves.Composite(args[1], base, donor)
					if err != nil {
						return err
					}
				}
				if err := w.EnsureLogSet(model.LogSetComposite).Put(out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Composited %s over %s into %s/%s\n", donorName, args[1], model.LogSetComposite, args[1])
				return nil
			})
		},
	}

	cmd.Flags().String("set", "", "Log set holding both logs (default Simulated)")
	cmd.Flags().String("donor", "", "Donor log name")
	cmd.Flags().Float64("top", 0, "Top of the replacement window (m)")
	cmd.Flags().Float64("bottom", 0, "Bottom of the replacement window (m)")
	cmd.MarkFlagRequired("donor")

	return cmd
}
