package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ambia/UTAPWeLS/internal/model"
)

func newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs <well>",
		Short: "List a well's log sets, or print one log's samples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, _ := cmd.Flags().GetString("set")
			logName, _ := cmd.Flags().GetString("log")

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

			if logName != "" {
				if set == "" {
					set = model.LogSetSimulated
				}
				l, err := w.FindLog(set, logName)
				if err != nil {
					return err
				}
				if jsonOut {
					return json.NewEncoder(os.Stdout).Encode(l)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s), %d samples\n", l.Name, l.Unit, len(l.Depths))
				for i := range l.Depths {
					fmt.Fprintf(out, "%.4f\t%g\n", l.Depths[i], l.Values[i])
				}
				return nil
			}

			names := w.LogSetNames()
			if jsonOut {
				sets := make(map[string][]string, len(names))
				for _, name := range names {
					ls, err := w.LogSet(name)
					if err != nil {
						return err
					}
					sets[name] = ls.Names()
				}
				return json.NewEncoder(os.Stdout).Encode(sets)
			}

			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No log sets. Run 'wels sim' to produce logs.")
				return nil
			}
			for _, name := range names {
				ls, err := w.LogSet(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", name, ls.Names())
			}
			return nil
		},
	}

	cmd.Flags().String("set", "", "Log set to read from (default Simulated)")
	cmd.Flags().String("log", "", "Print this log's samples instead of listing sets")

	return cmd
}
