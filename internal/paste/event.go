// Package paste routes paste events from a host into the asset placement
// pipeline.
package paste

import (
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Item is one entry of a paste's clipboard data.
type Item struct {
	Name string
	MIME string
	Data []byte
}

// IsFile reports whether the item carries binary content the host should
// not inline as text.
func (it Item) IsFile() bool {
	if it.Data == nil {
		return false
	}
	return it.MIME == "" || !strings.HasPrefix(it.MIME, "text/")
}

// Event is a single paste notification. The same Event is delivered to every
// observer; the first one that acts on it marks it handled.
type Event struct {
	ID    string
	Items []Item

	handled atomic.Bool
}

// NewEvent returns an unhandled event carrying items.
func NewEvent(items ...Item) *Event {
	return &Event{ID: uuid.NewString(), Items: items}
}

// Handled reports whether an observer already acted on the event.
func (e *Event) Handled() bool { return e.handled.Load() }

// MarkHandled stops later observers from processing the event.
func (e *Event) MarkHandled() { e.handled.Store(true) }
