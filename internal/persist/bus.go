// Package persist keeps JSON values durable in a key-value repository and keeps
// every consumer of a key in the process looking at the same value.
package persist

import (
	"sync"

	"github.com/google/uuid"
)

// Event announces a new value for a key within the process.
type Event struct {
	Key    string
	Origin string // ID of the publishing store
	Value  any    // Typed value, delivered as-is to stores of the same type
	Raw    []byte // JSON encoding of Value
}

// Bus is a process-local fan-out for store changes. Its ID tags every write the
// process makes so change notifications coming back from storage can be told
// apart from writes made elsewhere.
type Bus struct {
	id string

	mu          sync.RWMutex
	subs        map[string]map[int]func(Event)
	nextID      int
	lastWritten map[string][]byte
}

// NewBus creates a bus with a fresh process ID.
func NewBus() *Bus {
	return &Bus{
		id:          uuid.NewString(),
		subs:        make(map[string]map[int]func(Event)),
		lastWritten: make(map[string][]byte),
	}
}

// ID identifies this process as a write origin.
func (b *Bus) ID() string {
	return b.id
}

// Subscribe registers fn for events on key.
func (b *Bus) Subscribe(key string, fn func(Event)) (cancel func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[key] == nil {
		b.subs[key] = make(map[int]func(Event))
	}
	b.subs[key][id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[key], id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers ev synchronously to every subscriber of ev.Key, including
// the publisher; subscribers skip their own origin.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	handlers := make([]func(Event), 0, len(b.subs[ev.Key]))
	for _, fn := range b.subs[ev.Key] {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

func (b *Bus) recordWrite(key string, raw []byte) {
	b.mu.Lock()
	b.lastWritten[key] = raw
	b.mu.Unlock()
}

func (b *Bus) lastWrite(key string) []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastWritten[key]
}
