// Package clipboard turns system clipboard changes into paste events.
//
// Copied images arrive as a single PNG item. On Windows, files copied in
// Explorer arrive as one item per file carrying the original file name.
package clipboard

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"github.com/gokulvs/pastemirror/internal/paste"
)

// DefaultMaxFileSize caps files read from a clipboard file list.
const DefaultMaxFileSize = 64 << 20

// Dispatcher delivers paste events to observers.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev *paste.Event)
}

// Watcher polls the system clipboard and dispatches each new payload.
type Watcher struct {
	out         Dispatcher
	logger      *slog.Logger
	MaxFileSize int64

	wg   sync.WaitGroup
	last [sha256.Size]byte
}

// NewWatcher creates a Watcher dispatching to out.
func NewWatcher(out Dispatcher, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{out: out, logger: logger, MaxFileSize: DefaultMaxFileSize}
}

// Run watches the clipboard until ctx is cancelled and waits for in-flight
// pastes before returning.
func (w *Watcher) Run(ctx context.Context) error {
	if err := Init(); err != nil {
		return fmt.Errorf("clipboard init: %w", err)
	}
	w.run(ctx, WatchImage(ctx), WatchFiles(ctx))
	return nil
}

func (w *Watcher) run(ctx context.Context, images <-chan []byte, files <-chan []string) {
	defer w.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-images:
			if !ok {
				images = nil
				continue
			}
			w.logger.Debug("clipboard image changed", "bytes", len(data))
			w.emit(ctx, []paste.Item{{Name: "image.png", MIME: "image/png", Data: data}})
		case paths, ok := <-files:
			if !ok {
				files = nil
				continue
			}
			items := w.readFiles(paths)
			if len(items) == 0 {
				continue
			}
			w.logger.Debug("clipboard files changed", "count", len(items))
			w.emit(ctx, items)
		}
	}
}

// emit dispatches items unless they repeat the previous payload. Each paste
// runs on its own goroutine so a slow write does not hold up the watcher.
func (w *Watcher) emit(ctx context.Context, items []paste.Item) {
	sum := digest(items)
	if sum == w.last {
		return
	}
	w.last = sum

	ev := paste.NewEvent(items...)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.out.Dispatch(ctx, ev)
	}()
}

func (w *Watcher) readFiles(paths []string) []paste.Item {
	items := make([]paste.Item, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if w.MaxFileSize > 0 && info.Size() > w.MaxFileSize {
			w.logger.Warn("clipboard file too large, skipped", "path", p, "bytes", info.Size())
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			w.logger.Warn("read clipboard file", "path", p, "error", err)
			continue
		}
		items = append(items, paste.Item{
			Name: filepath.Base(p),
			MIME: mime.TypeByExtension(filepath.Ext(p)),
			Data: data,
		})
	}
	return items
}

func digest(items []paste.Item) [sha256.Size]byte {
	var buf bytes.Buffer
	for _, it := range items {
		buf.WriteString(it.Name)
		buf.WriteByte(0)
		buf.Write(it.Data)
		buf.WriteByte(0)
	}
	return sha256.Sum256(buf.Bytes())
}
