package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ambia/UTAPWeLS/internal/model"
	"github.com/ambia/UTAPWeLS/internal/plot"
	"github.com/ambia/UTAPWeLS/internal/session"
)

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot <well>",
		Short: "Render a well's logs as a tracked depth plot",
		Long: `Render a log set as an SVG depth plot with one track per curve.

By default the plot is written to a file. With --serve a local HTTP
server renders the plot live until Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, _ := cmd.Flags().GetString("set")
			logs, _ := cmd.Flags().GetStringSlice("logs")
			output, _ := cmd.Flags().GetString("output")
			serve, _ := cmd.Flags().GetBool("serve")
			noOpen, _ := cmd.Flags().GetBool("no-open")

			return withWell(cmd, args[0], func(sess *session.Session, w *model.Well) error {
				setName := set
				if setName == "" {
					setName = model.LogSetSimulated
				}

				if serve {
					return runPlotServer(cmd, w, setName, logs, noOpen)
				}

				if output == "" {
					output = w.Name + ".svg"
				}
				if err := plot.WriteSVGFile(output, w, setName, logs); err != nil {
					return fmt.Errorf("failed to render plot: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Plot written to %s\n", output)
				return nil
			})
		},
	}

	cmd.Flags().String("set", "", "Log set to plot (default Simulated)")
	cmd.Flags().StringSlice("logs", nil, "Subset of logs to plot (default all)")
	cmd.Flags().StringP("output", "o", "", "Output SVG path (default <well>.svg)")
	cmd.Flags().Bool("serve", false, "Serve the plot over a local HTTP server")
	cmd.Flags().Bool("no-open", false, "Don't open a browser when serving")

	return cmd
}

// runPlotServer starts a local HTTP server for the plot and blocks until
// Ctrl-C.
func runPlotServer(cmd *cobra.Command, w *model.Well, setName string, logs []string, noOpen bool) error {
	srv := plot.NewServer(w, setName, logs)

	srvCtx, srvCancel := context.WithCancel(context.Background())
	defer srvCancel()

	sigCh := make(chan os.Signal, 1)
	notifySignals(sigCh)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			srvCancel()
		case <-srvCtx.Done():
		}
	}()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(srvCtx) }()

	// Wait for server to start
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if srv.Addr() != "" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	addr := srv.Addr()
	if addr == "" {
		return fmt.Errorf("server failed to start")
	}

	url := "http://" + addr
	fmt.Fprintf(cmd.OutOrStdout(), "Plot server running at %s\n", url)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl-C to stop.\n")

	if !noOpen {
		if err := plot.OpenBrowser(url); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser: %v\nOpen %s manually.\n", err, url)
		}
	}

	if err := <-errCh; err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
