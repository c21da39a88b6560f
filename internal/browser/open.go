package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open launches the user's default browser at the given URL. Used for task
// attachment links; the TUI itself never renders file contents.
func Open(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return fmt.Errorf("no browser launcher for %s", runtime.GOOS)
	}
}
