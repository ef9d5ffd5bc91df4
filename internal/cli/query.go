package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dazuiba/ccnotify/internal/duration"
	"github.com/dazuiba/ccnotify/internal/store"
)

var queryCmd = &cobra.Command{
	Use:   "query <session-id>",
	Short: "Show the stored record for a session",
	Long: `Print the session record stored for the given session id. This is the
manual troubleshooting flow: check whether a prompt was recorded, when
it started, and whether the stop event arrived.`,
	GroupID: GroupUtilities,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		st, err := store.Open(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("failed to open session database: %w", err)
		}
		defer st.Close()

		rec, err := st.Get(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no record for session %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read session: %w", err)
		}

		fmt.Printf("session_id:   %s\n", rec.SessionID)
		fmt.Printf("prompt:       %s\n", rec.Prompt)
		fmt.Printf("cwd:          %s\n", rec.Cwd)
		fmt.Printf("created_at:   %s\n", rec.CreatedAt.Format(time.RFC3339))
		fmt.Printf("stopped_at:   %s\n", formatOptionalTime(rec.StoppedAt))
		fmt.Printf("last_wait_at: %s\n", formatOptionalTime(rec.LastWaitAt))

		if rec.StoppedAt != nil {
			if d, err := duration.Format(rec.CreatedAt, *rec.StoppedAt); err == nil {
				fmt.Printf("duration:     %s\n", d)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}
