package editor

import (
	"sync"

	"github.com/gokulvs/pastemirror/internal/assets"
)

// Workspace tracks the focused note.
type Workspace struct {
	mu     sync.RWMutex
	active *Note
}

// Focus makes n the active note. A nil note clears focus.
func (w *Workspace) Focus(n *Note) {
	w.mu.Lock()
	w.active = n
	w.mu.Unlock()
}

// Active returns the focused note, if any.
func (w *Workspace) Active() *Note {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.active
}

// ActiveEditor returns the focused note as an editing surface.
func (w *Workspace) ActiveEditor() (assets.Surface, bool) {
	n := w.Active()
	if n == nil {
		return nil, false
	}
	return n, true
}

// ActiveFile returns the focused note's vault path. Scratch buffers have
// none.
func (w *Workspace) ActiveFile() (string, bool) {
	n := w.Active()
	if n == nil || n.Path() == "" {
		return "", false
	}
	return n.Path(), true
}
