package clipboard

import (
	"context"
	"slices"
	"time"
)

const filePollInterval = 500 * time.Millisecond

// pollFileList calls read every interval and emits its result whenever it
// differs from the previous non-empty list.
func pollFileList(ctx context.Context, interval time.Duration, read func() []string) <-chan []string {
	ch := make(chan []string, 4)
	go func() {
		defer close(ch)
		var last []string
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				paths := read()
				if slices.Equal(paths, last) {
					continue
				}
				last = paths
				if len(paths) == 0 {
					continue
				}
				select {
				case ch <- paths:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch
}
