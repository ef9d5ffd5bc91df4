package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dazuiba/ccnotify/internal/config"
	"github.com/dazuiba/ccnotify/internal/hooks"
	"github.com/dazuiba/ccnotify/internal/logging"
	"github.com/dazuiba/ccnotify/internal/notify"
	"github.com/dazuiba/ccnotify/internal/store"
)

var hookCmd = &cobra.Command{
	Use:   "hook <event>",
	Short: "Handle a Claude Code lifecycle event",
	Long: `Handle one Claude Code lifecycle event, reading the JSON payload from
stdin. The installer registers this command in Claude Code's hook
configuration for UserPromptSubmit, Stop, and Notification.

The command always exits 0: a failed notification or a broken payload
is logged and swallowed so the hook pipeline is never interrupted.`,
	GroupID:       GroupHooks,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		runHook(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

// runHook is the process-per-event entry point. Everything it opens
// lives for this one invocation; nothing is cached across events.
func runHook(cmd *cobra.Command, event string) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := loadConfig(cmd)
	if err != nil {
		// Broken config degrades to defaults rather than killing the hook.
		fmt.Fprintf(os.Stderr, "ccnotify: warning: %v, using defaults\n", err)
		cfg = config.Default()
	}

	if err := cfg.EnsureDataDir(); err != nil {
		fmt.Fprintf(os.Stderr, "ccnotify: warning: %v\n", err)
	}

	// Tag this invocation's log lines; concurrent hook invocations
	// share one log file.
	invocationID := uuid.NewString()[:8]
	logging.Setup(cfg.LogPath(), invocationID, cfg.LogMaxAgeDays, verbose)
	log.Printf("[hook] event=%s", event)

	ctx := context.Background()

	var sessionStore hooks.SessionStore
	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		log.Printf("[hook] storage unavailable: %v", err)
	} else {
		sessionStore = st
		defer st.Close()
	}

	var notifier hooks.Notifier
	switch {
	case !cfg.Enabled:
		log.Printf("[hook] notifications disabled by config")
	case notify.RunningInCI():
		log.Printf("[hook] CI environment detected, notifications suppressed")
	default:
		chain := notify.Chain(cfg.Backends, notify.Options{
			Sound:        cfg.Sound,
			OpenInEditor: cfg.OpenInVSCode,
		})
		notifier = notify.NewDispatcher(chain, cfg.Timeout())
	}

	handler := hooks.NewHandler(sessionStore, notifier)
	handler.Handle(ctx, event, cmd.InOrStdin())

	// Best-effort retention sweep; failures only make the database
	// bigger, never the hook slower than one bounded delete.
	if cfg.RetentionDays > 0 && st != nil {
		cutoff := time.Now().AddDate(0, 0, -cfg.RetentionDays)
		if n, err := st.PurgeOlderThan(ctx, cutoff); err != nil {
			log.Printf("[hook] retention sweep failed: %v", err)
		} else if n > 0 {
			log.Printf("[hook] retention sweep removed %d sessions", n)
		}
	}
}
