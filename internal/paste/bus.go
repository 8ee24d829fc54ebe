package paste

import (
	"context"
	"sync"
)

// Observer receives paste events.
type Observer func(ctx context.Context, ev *Event)

// Source delivers paste events to registered observers.
type Source interface {
	OnPaste(obs Observer) (unsubscribe func())
}

// Bus is an in-process Source. Observers are called in registration order
// with the same Event.
type Bus struct {
	mu        sync.RWMutex
	nextID    int
	observers map[int]Observer
	order     []int
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{observers: make(map[int]Observer)}
}

// OnPaste registers obs and returns a function removing it again.
func (b *Bus) OnPaste(obs Observer) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.observers[id] = obs
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.observers, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Dispatch delivers ev to every observer registered at call time.
func (b *Bus) Dispatch(ctx context.Context, ev *Event) {
	b.mu.RLock()
	obs := make([]Observer, 0, len(b.order))
	for _, id := range b.order {
		obs = append(obs, b.observers[id])
	}
	b.mu.RUnlock()

	for _, o := range obs {
		o(ctx, ev)
	}
}
