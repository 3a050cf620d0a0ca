// Package browser opens URLs in the user's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// start launches a command without waiting for it. Tests replace it.
var start = defaultStart

func defaultStart(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens the specified URL in the user's default browser. Only absolute
// http and https URLs are accepted: item image links come from other users
// and must never reach the OS opener as a file path or custom scheme.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("browser.Open: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("browser.Open: refusing to open %q: not an http(s) URL", rawURL)
	}
	target := u.String()

	switch runtime.GOOS {
	case "darwin":
		return start("open", target)
	case "linux":
		return start("xdg-open", target)
	case "windows":
		return start("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}
