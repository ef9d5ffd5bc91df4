package notify

import (
	"os"
	"os/exec"
	"runtime"
)

// VSCodeCommand locates the VS Code CLI for click-to-open targets.
// It checks PATH first, then well-known install locations per
// platform. Returns "" when no usable command is found; absence is
// not an error, the notification just loses its click action.
func VSCodeCommand() string {
	if path, err := exec.LookPath("code"); err == nil {
		return path
	}

	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{
			"/usr/local/bin/code",
			"/opt/homebrew/bin/code",
		}
	case "linux":
		candidates = []string{
			"/usr/bin/code",
			"/usr/local/bin/code",
		}
	case "windows":
		candidates = []string{
			"code.cmd",
			"code.exe",
		}
	}

	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path
		}
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}
