//go:build !windows

package clipboard

import "context"

// WatchFiles has no file list source outside Windows, so only copied
// images reach the watcher here. The nil channel never becomes ready.
func WatchFiles(context.Context) <-chan []string { return nil }
