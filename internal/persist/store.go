package persist

import (
	"alcyxob/runrep/internal/repository"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

// ErrWatchUnsupported is returned by Watch when the backend cannot report
// writes made by other processes.
var ErrWatchUnsupported = errors.New("storage backend does not support change notifications")

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	logger *log.Logger
}

// WithLogger sets the logger read and write failures are reported to.
func WithLogger(logger *log.Logger) Option {
	return func(o *storeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Store keeps one JSON-serializable value of type T durable under key.
//
// Reads and writes are best-effort: failures are logged and never returned, and
// the cached value stays authoritative for the rest of the process lifetime.
// Updaters run under the store lock, so a sequence of updates folds in call
// order. Other stores of the same key on the same Bus see every successful
// write before Update returns.
type Store[T any] struct {
	key     string
	backend repository.KeyValueRepository
	bus     *Bus
	id      string
	logger  *log.Logger

	// writeMu orders update, durable write and broadcast as one step.
	writeMu sync.Mutex

	mu          sync.RWMutex
	value       T
	version     uint64
	loading     bool
	loadStarted bool
	subs        map[int]func(T)
	nextSubID   int

	ready     chan struct{}
	readyOnce sync.Once

	unsubscribe func()
}

// New creates a store holding defaultValue until Load completes. A nil bus
// gives the store a private one.
func New[T any](key string, defaultValue T, backend repository.KeyValueRepository, bus *Bus, opts ...Option) *Store[T] {
	o := storeOptions{logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if bus == nil {
		bus = NewBus()
	}
	s := &Store[T]{
		key:     key,
		backend: backend,
		bus:     bus,
		id:      uuid.NewString(),
		logger:  o.logger,
		value:   defaultValue,
		loading: true,
		subs:    make(map[int]func(T)),
		ready:   make(chan struct{}),
	}
	s.unsubscribe = bus.Subscribe(key, s.onBusEvent)
	return s
}

// Key returns the storage key.
func (s *Store[T]) Key() string {
	return s.key
}

// Load reads and decodes the persisted value. A missing or undecodable value
// leaves the default in place. The store is marked loaded whatever happens.
func (s *Store[T]) Load(ctx context.Context) {
	s.mu.Lock()
	s.loadStarted = true
	version := s.version
	s.mu.Unlock()
	defer s.markReady()

	raw, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Printf("ERROR: Error loading '%s' from storage: %v", s.key, err)
		}
		return
	}
	if len(raw) == 0 {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Printf("ERROR: Error decoding '%s' from storage, keeping default: %v", s.key, err)
		return
	}

	// A broadcast that arrived while we were reading is newer than what we read.
	s.mu.Lock()
	fresh := s.version == version
	if fresh {
		s.value = v
		s.version++
	}
	s.mu.Unlock()
	if fresh {
		s.notify(v)
	}
}

// LoadAsync runs Load in the background. Updates issued before it finishes
// wait for it so they never build on the default by mistake.
func (s *Store[T]) LoadAsync(ctx context.Context) {
	s.mu.Lock()
	s.loadStarted = true
	s.mu.Unlock()
	go s.Load(ctx)
}

// Ready is closed once the initial load attempt has finished.
func (s *Store[T]) Ready() <-chan struct{} {
	return s.ready
}

// Value returns the cached value and whether the initial load is still pending.
func (s *Store[T]) Value() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.loading
}

// Set replaces the value.
func (s *Store[T]) Set(ctx context.Context, value T) T {
	return s.Update(ctx, func(T) T { return value })
}

// Update computes the next value from the current one, caches it, writes it
// through and broadcasts it. fn must not modify prev in place.
func (s *Store[T]) Update(ctx context.Context, fn func(prev T) T) T {
	s.waitForLoad(ctx)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	next := fn(s.value)
	s.value = next
	s.version++
	s.mu.Unlock()

	raw, err := json.Marshal(next)
	if err != nil {
		s.logger.Printf("ERROR: Error encoding '%s': %v", s.key, err)
		s.notify(next)
		return next
	}

	// The write outlives the caller's request.
	writeCtx := context.WithoutCancel(ctx)
	s.bus.recordWrite(s.key, raw)
	if err := s.backend.Set(writeCtx, s.key, raw, s.bus.ID()); err != nil {
		s.logger.Printf("ERROR: Error saving '%s' to storage: %v", s.key, err)
		s.notify(next)
		return next
	}

	s.bus.Publish(Event{Key: s.key, Origin: s.id, Value: next, Raw: raw})
	s.notify(next)
	return next
}

// Subscribe calls fn with every new value. fn runs on the updating goroutine
// and must not call Set or Update on this store.
func (s *Store[T]) Subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Watch applies values written to the backend by other processes until ctx is
// done. Writes made by this process are skipped.
func (s *Store[T]) Watch(ctx context.Context) error {
	watcher, ok := s.backend.(repository.Watcher)
	if !ok {
		return ErrWatchUnsupported
	}
	changes, err := watcher.Watch(ctx, s.key)
	if err != nil {
		return fmt.Errorf("watch %s: %w", s.key, err)
	}
	go func() {
		for change := range changes {
			s.applyExternal(change)
		}
	}()
	return nil
}

// Close detaches the store from its bus.
func (s *Store[T]) Close() {
	s.unsubscribe()
}

func (s *Store[T]) applyExternal(change repository.Change) {
	// Deletions carry no value to adopt.
	if change.Value == nil {
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if change.Origin != "" {
		if change.Origin == s.bus.ID() {
			return
		}
	} else if bytes.Equal(change.Value, s.bus.lastWrite(s.key)) {
		// Backends without origins echo our own write back; only the
		// immediate echo is skipped.
		return
	}
	var v T
	if err := json.Unmarshal(change.Value, &v); err != nil {
		s.logger.Printf("ERROR: Error parsing storage change for '%s': %v", s.key, err)
		return
	}

	s.bus.recordWrite(s.key, nil)
	s.apply(v)
	s.bus.Publish(Event{Key: s.key, Origin: s.id, Value: v, Raw: change.Value})
}

func (s *Store[T]) onBusEvent(ev Event) {
	if ev.Origin == s.id {
		return
	}
	v, ok := ev.Value.(T)
	if !ok {
		if err := json.Unmarshal(ev.Raw, &v); err != nil {
			s.logger.Printf("ERROR: Error parsing broadcast for '%s': %v", s.key, err)
			return
		}
	}
	s.apply(v)
}

func (s *Store[T]) apply(v T) {
	s.mu.Lock()
	s.value = v
	s.version++
	s.mu.Unlock()
	s.notify(v)
}

func (s *Store[T]) notify(v T) {
	s.mu.RLock()
	subs := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(v)
	}
}

func (s *Store[T]) waitForLoad(ctx context.Context) {
	s.mu.RLock()
	pending := s.loadStarted && s.loading
	s.mu.RUnlock()
	if !pending {
		return
	}
	select {
	case <-s.ready:
	case <-ctx.Done():
		s.logger.Printf("WARN: Updating '%s' before it finished loading: %v", s.key, ctx.Err())
	}
}

func (s *Store[T]) markReady() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })
}
