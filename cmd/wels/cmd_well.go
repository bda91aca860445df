package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newWellCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "well",
		Short: "Create, list and delete wells",
	}

	cmd.AddCommand(
		newWellCreateCmd(),
		newWellListCmd(),
		newWellShowCmd(),
		newWellDeleteCmd(),
	)

	return cmd
}

func newWellCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a well with a single-layer earth model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			top, _ := cmd.Flags().GetFloat64("top")
			bottom, _ := cmd.Flags().GetFloat64("bottom")

			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			w, err := sess.CreateWell(context.Background(), args[0], top, bottom)
			if err != nil {
				return fmt.Errorf("failed to create well: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"name":      w.Name,
					"top_md":    w.TopMD,
					"bottom_md": w.BottomMD,
				})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Created well %s (%.4g-%.4g m)\n", w.Name, w.TopMD, w.BottomMD)
			}

			return nil
		},
	}

	cmd.Flags().Float64("top", 0, "Top measured depth of the modeled interval (m)")
	cmd.Flags().Float64("bottom", 0, "Bottom measured depth of the modeled interval (m)")
	cmd.MarkFlagRequired("top")
	cmd.MarkFlagRequired("bottom")

	return cmd
}

func newWellListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List wells in the project",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			names, err := sess.Wells(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list wells: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"wells": names,
					"count": len(names),
				})
				return nil
			}

			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No wells. Run 'wels well create' to add one.")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newWellShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a well's interval, layers and log sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			w, err := sess.Well(context.Background(), args[0])
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(w)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Well %s: %.4g-%.4g m\n", w.Name, w.TopMD, w.BottomMD)
			fmt.Fprintf(out, "Layers: %d\n", w.Earth.NumLayers())
			for i := 0; i < w.Earth.NumLayers(); i++ {
				top, bottom, err := w.Earth.LayerBounds(i)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %d: %.4g-%.4g m\n", i, top, bottom)
			}
			for _, setName := range w.LogSetNames() {
				set, err := w.LogSet(setName)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Log set %s: %v\n", setName, set.Names())
			}
			return nil
		},
	}
}

func newWellDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a well and its logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.DeleteWell(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete well: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{
					"status": "deleted",
					"well":   args[0],
				})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted well %s\n", args[0])
			}
			return nil
		},
	}
}
