package notify

import (
	"fmt"
	"log"
	"runtime"
	"strings"
)

// Backend names accepted in the backends configuration list.
const (
	BackendTerminalNotifier = "terminal-notifier"
	BackendOsascript        = "osascript"
	BackendNotifySend       = "notify-send"
	BackendPowerShell       = "powershell"
	BackendBridge           = "bridge"
)

// Options tunes how native backends render a notification.
type Options struct {
	// Sound requests an audible alert where the backend supports one.
	Sound bool

	// OpenInEditor enables click-to-open of the session cwd in
	// VS Code on backends with action support.
	OpenInEditor bool
}

// newTerminalNotifierBackend uses the terminal-notifier binary
// (macOS). It is the only backend with click-to-open support.
func newTerminalNotifierBackend(opts Options) Backend {
	return &execBackend{
		name: BackendTerminalNotifier,
		bin:  "terminal-notifier",
		args: func(n Notification) []string {
			args := []string{"-title", n.Title, "-message", n.Message}
			if opts.Sound {
				args = append(args, "-sound", "default")
			}
			if opts.OpenInEditor && n.Cwd != "" {
				if code := VSCodeCommand(); code != "" {
					args = append(args, "-execute", fmt.Sprintf("%s %q", code, n.Cwd))
				}
			}
			return args
		},
	}
}

// newOsascriptBackend uses AppleScript's display notification (macOS).
func newOsascriptBackend(opts Options) Backend {
	return &execBackend{
		name: BackendOsascript,
		bin:  "osascript",
		args: func(n Notification) []string {
			script := fmt.Sprintf("display notification %q with title %q", n.Message, n.Title)
			if opts.Sound {
				script += ` sound name "Glass"`
			}
			return []string{"-e", script}
		},
	}
}

// newNotifySendBackend uses libnotify's notify-send (Linux).
func newNotifySendBackend() Backend {
	return &execBackend{
		name: BackendNotifySend,
		bin:  "notify-send",
		args: func(n Notification) []string {
			return []string{"-u", "normal", "-t", "10000", n.Title, n.Message}
		},
	}
}

// newPowerShellBackend shows a toast via PowerShell (Windows).
func newPowerShellBackend() Backend {
	return &execBackend{
		name: BackendPowerShell,
		bin:  "powershell",
		args: func(n Notification) []string {
			script := fmt.Sprintf(`
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
$textNodes = $template.GetElementsByTagName('text')
$textNodes.Item(0).AppendChild($template.CreateTextNode('%s')) | Out-Null
$textNodes.Item(1).AppendChild($template.CreateTextNode('%s')) | Out-Null
$toast = [Windows.UI.Notifications.ToastNotification]::new($template)
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier('CCNotify').Show($toast)
`, escapeForPowerShell(n.Title), escapeForPowerShell(n.Message))
			return []string{"-ExecutionPolicy", "Bypass", "-NoProfile", "-Command", script}
		},
	}
}

// escapeForPowerShell escapes special characters for PowerShell strings
func escapeForPowerShell(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch c {
		case '\'':
			b.WriteString("''")
		case '`', '$':
			b.WriteByte('`')
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// registry returns every backend constructible on this build, keyed
// by name. Availability is still probed per dispatch; the registry
// only decides what a configuration list may reference.
func registry(opts Options) map[string]Backend {
	return map[string]Backend{
		BackendTerminalNotifier: newTerminalNotifierBackend(opts),
		BackendOsascript:        newOsascriptBackend(opts),
		BackendNotifySend:       newNotifySendBackend(),
		BackendPowerShell:       newPowerShellBackend(),
		BackendBridge:           newBridgeBackend(),
	}
}

// Chain builds the ordered backend list for the dispatcher. An
// explicit list of names from configuration wins; otherwise the
// platform default order is used. Unknown names are skipped.
func Chain(names []string, opts Options) []Backend {
	all := registry(opts)

	if len(names) == 0 {
		return defaultChain(all)
	}

	var chain []Backend
	for _, name := range names {
		b, ok := all[name]
		if !ok {
			log.Printf("[notify] unknown backend %q in config, skipping", name)
			continue
		}
		chain = append(chain, b)
	}
	if len(chain) == 0 {
		return defaultChain(all)
	}
	return chain
}

// defaultChain mirrors the original fallback ordering per platform:
// native notifier first, cross-platform bridge as universal fallback.
// Windows prefers the bridge, which is more reliable than spawning
// PowerShell per toast.
func defaultChain(all map[string]Backend) []Backend {
	switch runtime.GOOS {
	case "darwin":
		return []Backend{all[BackendTerminalNotifier], all[BackendOsascript], all[BackendBridge]}
	case "linux":
		return []Backend{all[BackendNotifySend], all[BackendBridge]}
	case "windows":
		return []Backend{all[BackendBridge], all[BackendPowerShell]}
	default:
		return []Backend{all[BackendBridge]}
	}
}
