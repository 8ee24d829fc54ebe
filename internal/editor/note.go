// Package editor provides a file-backed editing surface for vault notes.
package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gokulvs/pastemirror/internal/assets"
)

// ErrInvalidPosition is returned when a position no longer falls inside the
// note's text.
var ErrInvalidPosition = errors.New("cursor position is no longer valid")

// Note is a markdown note backed by a file. The file is re-read before the
// cursor is resolved and before every edit, so changes made by other
// programs are kept. A Note without a file path is a scratch buffer.
type Note struct {
	mu        sync.Mutex
	path      string
	file      string
	text      string
	cursor    assets.Position
	hasCursor bool
}

// Open loads the note at notePath (vault relative) from file. A missing
// file yields an empty note that is created on first edit.
func Open(notePath, file string) (*Note, error) {
	n := &Note{path: strings.TrimPrefix(filepath.ToSlash(notePath), "/"), file: file}
	if err := n.reload(); err != nil {
		return nil, err
	}
	return n, nil
}

// reload replaces the cached text with the file contents. Callers hold mu
// except during Open.
func (n *Note) reload() error {
	if n.file == "" {
		return nil
	}
	data, err := os.ReadFile(n.file)
	switch {
	case err == nil:
		n.text = string(data)
	case errors.Is(err, fs.ErrNotExist):
		n.text = ""
	default:
		return fmt.Errorf("read note: %w", err)
	}
	return nil
}

// Scratch returns an unsaved buffer that has no file behind it.
func Scratch(text string) *Note {
	return &Note{text: text}
}

// Path returns the vault-relative note path, or "" for a scratch buffer.
func (n *Note) Path() string { return n.path }

// Text returns the current note contents.
func (n *Note) Text() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	_ = n.reload()
	return n.text
}

// SetCursor pins the cursor. Without it the cursor sits at the end of the
// text.
func (n *Note) SetCursor(pos assets.Position) {
	n.mu.Lock()
	n.cursor, n.hasCursor = pos, true
	n.mu.Unlock()
}

// Cursor returns the current cursor position.
func (n *Note) Cursor() assets.Position {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.hasCursor {
		return n.cursor
	}
	_ = n.reload()
	return positionAt(n.text, len(n.text))
}

// ReplaceRange inserts text at pos in the note as it is on disk now and
// saves it.
func (n *Note) ReplaceRange(text string, pos assets.Position) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.reload(); err != nil {
		return err
	}
	off, ok := offsetOf(n.text, pos)
	if !ok {
		return fmt.Errorf("insert at %s: %w", pos, ErrInvalidPosition)
	}
	updated := n.text[:off] + text + n.text[off:]
	if n.file != "" {
		if err := writeAtomic(n.file, []byte(updated)); err != nil {
			return err
		}
	}
	n.text = updated
	if n.hasCursor {
		if cur, ok := offsetOf(updated, n.cursor); ok && cur >= off {
			n.cursor = positionAt(updated, cur+len(text))
		}
	}
	return nil
}

func offsetOf(text string, pos assets.Position) (int, bool) {
	if pos.Line < 0 || pos.Ch < 0 {
		return 0, false
	}
	off := 0
	for line := 0; line < pos.Line; line++ {
		i := strings.IndexByte(text[off:], '\n')
		if i < 0 {
			return 0, false
		}
		off += i + 1
	}
	end := len(text)
	if i := strings.IndexByte(text[off:], '\n'); i >= 0 {
		end = off + i
	}
	off += pos.Ch
	if off > end {
		return 0, false
	}
	if off < len(text) && !utf8.RuneStart(text[off]) {
		return 0, false
	}
	return off, true
}

func positionAt(text string, off int) assets.Position {
	head := text[:off]
	line := strings.Count(head, "\n")
	return assets.Position{Line: line, Ch: off - (strings.LastIndexByte(head, '\n') + 1)}
}

func writeAtomic(file string, data []byte) error {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create note directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".note-*")
	if err != nil {
		return fmt.Errorf("create temp note: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp note: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp note: %w", err)
	}
	if err := os.Rename(tmp.Name(), file); err != nil {
		return fmt.Errorf("replace note: %w", err)
	}
	return nil
}
