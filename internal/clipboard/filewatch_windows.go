//go:build windows

package clipboard

import (
	"context"
	"os/exec"
	"strings"
)

// WatchFiles emits the copied file paths each time Explorer's file drop list
// on the clipboard changes. The channel is closed when ctx is cancelled.
func WatchFiles(ctx context.Context) <-chan []string {
	return pollFileList(ctx, filePollInterval, func() []string { return fileDropList(ctx) })
}

// fileDropList reads CF_HDROP through PowerShell so the build needs no cgo.
func fileDropList(ctx context.Context) []string {
	out, err := exec.CommandContext(ctx,
		"powershell", "-NoProfile", "-NonInteractive", "-Command",
		`Add-Type -AssemblyName System.Windows.Forms; `+
			`$f = [System.Windows.Forms.Clipboard]::GetFileDropList(); `+
			`if ($f -and $f.Count -gt 0) { $f -join [char]10 }`,
	).Output()
	if err != nil {
		return nil
	}
	var paths []string
	for _, p := range strings.Split(string(out), "\n") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
