// ccnotify - Desktop notifications for Claude Code hooks
// Source: https://github.com/dazuiba/CCNotify

package main

import (
	"os"

	"github.com/dazuiba/ccnotify/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
