// Package runtime resolves the host environment's defaults: which
// client command to launch when none was specified, and how to hand
// off to the legacy conhost implementation when one is requested.
package runtime

import (
	"os"
	"strings"
)

// ResolveDefaultClientCommand returns the console host's default client
// command: %WINDIR%\system32\cmd.exe, falling back to the stable
// C:\Windows path if WINDIR is unset or empty.
func ResolveDefaultClientCommand() string {
	windir := os.Getenv("WINDIR")
	if windir == "" {
		return `C:\Windows\system32\cmd.exe`
	}

	if !strings.HasSuffix(windir, `\`) && !strings.HasSuffix(windir, "/") {
		windir += `\`
	}
	return windir + `system32\cmd.exe`
}
