// ccnotify - Desktop notifications for Claude Code hooks
// Source: https://github.com/dazuiba/CCNotify

// Package cli provides the Cobra-based CLI for ccnotify. It defines
// the hook entry point invoked by Claude Code's hook configuration
// plus utility commands for troubleshooting (query, doctor, version).
package cli

import (
	"github.com/spf13/cobra"

	"github.com/dazuiba/ccnotify/internal/config"
)

// Command group IDs for organizing help output
const (
	GroupHooks     = "hooks"
	GroupUtilities = "utilities"
)

var rootCmd = &cobra.Command{
	Use:   "ccnotify",
	Short: "Desktop notifications for Claude Code sessions",
	Long: `ccnotify tracks Claude Code sessions and fires a desktop notification
when a task finishes or the assistant needs your input.

It is wired into Claude Code's hook configuration by the installer and
invoked once per lifecycle event, reading the event payload from stdin.`,
	Example: `  # Invoked by Claude Code's hook configuration:
  ccnotify hook UserPromptSubmit < payload.json
  ccnotify hook Stop < payload.json
  ccnotify hook Notification < payload.json

  # Troubleshooting
  ccnotify query 6f1b2c3d
  ccnotify doctor --send`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: GroupHooks, Title: "Hooks:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupUtilities, Title: "Utilities:"})
	rootCmd.SetHelpCommandGroupID(GroupUtilities)
	rootCmd.SetCompletionCommandGroupID(GroupUtilities)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", ".ccnotify/config.json", "Path to local config file")
	rootCmd.PersistentFlags().String("data-dir", "", "Override the data directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Mirror log output to stderr")
}

// loadConfig resolves the effective configuration for a command,
// applying the --data-dir flag override.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	configPath, _ := cmd.Flags().GetString("config")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}
