package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Print the ccnotify version",
	GroupID: GroupUtilities,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ccnotify %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
