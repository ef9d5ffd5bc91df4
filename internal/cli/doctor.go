package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dazuiba/ccnotify/internal/notify"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check notification backends on this machine",
	Long: `Probe the configured backend chain and report which backends are
available. With --send, a test notification is dispatched through the
chain exactly as a hook invocation would.`,
	GroupID: GroupUtilities,
	RunE: func(cmd *cobra.Command, args []string) error {
		send, _ := cmd.Flags().GetBool("send")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		chain := notify.Chain(cfg.Backends, notify.Options{
			Sound:        cfg.Sound,
			OpenInEditor: cfg.OpenInVSCode,
		})

		fmt.Println("Backend chain (in dispatch order):")
		for _, b := range chain {
			status := "unavailable"
			if b.Available() {
				status = "available"
			}
			fmt.Printf("  %-18s %s\n", b.Name(), status)
		}

		if code := notify.VSCodeCommand(); code != "" {
			fmt.Printf("\nVS Code command: %s\n", code)
		} else {
			fmt.Println("\nVS Code command not found; click-to-open is disabled")
		}

		if notify.RunningInCI() {
			fmt.Println("CI environment detected; hook invocations will not notify")
		}

		if !send {
			return nil
		}

		var sp *spinner.Spinner
		if term.IsTerminal(int(os.Stdout.Fd())) {
			sp = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " sending test notification..."
			sp.Start()
		}

		dispatcher := notify.NewDispatcher(chain, cfg.Timeout())
		backend, err := dispatcher.Dispatch(cmd.Context(), notify.Notification{
			Title:   "ccnotify",
			Message: notify.ComposeMessage("Test notification", time.Now()),
		})

		if sp != nil {
			sp.Stop()
		}
		if err != nil {
			return fmt.Errorf("test notification failed: %w", err)
		}
		fmt.Printf("Test notification delivered via %s\n", backend)
		return nil
	},
}

func init() {
	doctorCmd.Flags().Bool("send", false, "Send a test notification through the chain")
	rootCmd.AddCommand(doctorCmd)
}
