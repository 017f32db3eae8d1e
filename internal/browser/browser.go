// Package browser hands item links off to the user's desktop browser.
package browser

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
)

// Open launches the default browser on rawURL. Only http(s) links are
// accepted; snapshot content is remote data and must not reach a shell
// with any other scheme.
func Open(rawURL string) error {
	if err := validate(rawURL); err != nil {
		return err
	}
	name, args := opener()
	return exec.Command(name, append(args, rawURL)...).Start()
}

func validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	return nil
}

// opener picks the launch command. $BROWSER wins when set, matching the
// convention terminal tools follow.
func opener() (string, []string) {
	if b := os.Getenv("BROWSER"); b != "" {
		return b, nil
	}
	switch runtime.GOOS {
	case "darwin":
		return "open", nil
	case "windows":
		// rundll32 avoids the shell interpretation cmd /c start would do
		return "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		return "xdg-open", nil
	}
}
