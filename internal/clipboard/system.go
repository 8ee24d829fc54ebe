package clipboard

import (
	"context"

	xclip "golang.design/x/clipboard"
)

// Init connects to the platform clipboard. Run calls it before watching.
func Init() error {
	return xclip.Init()
}

// WatchImage streams each new image placed on the clipboard as PNG bytes
// until ctx ends.
func WatchImage(ctx context.Context) <-chan []byte {
	return xclip.Watch(ctx, xclip.FmtImage)
}
