package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ambia/UTAPWeLS/internal/config"
	"github.com/ambia/UTAPWeLS/internal/logging"
	"github.com/ambia/UTAPWeLS/internal/session"
)

// openSession opens the project session for a CLI invocation, logging to
// stderr at the configured level.
func openSession(cmd *cobra.Command) (*session.Session, error) {
	root, _ := cmd.Flags().GetString("root")
	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
	return session.Open(root, logger)
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a modeling project in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")

			welsDir := filepath.Join(root, config.ProjectDirName)
			if err := os.MkdirAll(welsDir, 0755); err != nil {
				return fmt.Errorf("failed to create %s directory: %w", config.ProjectDirName, err)
			}

			// Write the default config so users have something to edit.
			configPath := filepath.Join(welsDir, "config.yaml")
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				data, err := yaml.Marshal(config.Default())
				if err != nil {
					return fmt.Errorf("failed to render default config: %w", err)
				}
				header := []byte("# UTAPWeLS project configuration\n# Values here override the built-in defaults; WELS_* environment\n# variables override both.\n")
				if err := os.WriteFile(configPath, append(header, data...), 0644); err != nil {
					return fmt.Errorf("failed to create config.yaml: %w", err)
				}
			}

			// The JSONL export target; the store re-imports it on open when
			// it is newer than the database.
			wellsPath := filepath.Join(welsDir, "wells.jsonl")
			if _, err := os.Stat(wellsPath); os.IsNotExist(err) {
				if err := os.WriteFile(wellsPath, []byte{}, 0644); err != nil {
					return fmt.Errorf("failed to create wells.jsonl: %w", err)
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{
					"status": "initialized",
					"path":   welsDir,
				})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s/ in %s\n", config.ProjectDirName, root)
			}

			return nil
		},
	}

	return cmd
}
