// Package memory is an in-process key-value backend. Several stores sharing one
// repository see each other's writes through Watch, the way browser tabs share
// one localStorage.
package memory

import (
	"alcyxob/runrep/internal/repository"
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	origin    string
	updatedAt time.Time
}

// KeyValueRepository implements repository.KeyValueRepository and repository.Watcher.
type KeyValueRepository struct {
	mu       sync.RWMutex
	entries  map[string]entry
	watchers map[string]map[int]chan repository.Change
	nextID   int

	// FailWrites makes Set return ErrUpdateFailed, for exercising the
	// best-effort write path (storage full, storage disabled).
	FailWrites bool
}

// NewKeyValueRepository creates an empty memory backend.
func NewKeyValueRepository() *KeyValueRepository {
	return &KeyValueRepository{
		entries:  make(map[string]entry),
		watchers: make(map[string]map[int]chan repository.Change),
	}
}

// Get returns a copy of the stored bytes.
func (r *KeyValueRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores a copy of value and notifies watchers of key.
func (r *KeyValueRepository) Set(ctx context.Context, key string, value []byte, origin string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return repository.ErrEmptyKey
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites {
		return repository.ErrUpdateFailed
	}
	e := entry{value: append([]byte(nil), value...), origin: origin, updatedAt: time.Now().UTC()}
	r.entries[key] = e
	r.notifyLocked(repository.Change{Key: key, Value: e.value, Origin: origin, UpdatedAt: e.updatedAt})
	return nil
}

// Delete removes key; deleting a missing key returns ErrNotFound.
func (r *KeyValueRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.entries, key)
	r.notifyLocked(repository.Change{Key: key, UpdatedAt: time.Now().UTC()})
	return nil
}

// Watch streams changes to key until ctx is done.
func (r *KeyValueRepository) Watch(ctx context.Context, key string) (<-chan repository.Change, error) {
	if key == "" {
		return nil, repository.ErrEmptyKey
	}
	ch := make(chan repository.Change, 1)

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	if r.watchers[key] == nil {
		r.watchers[key] = make(map[int]chan repository.Change)
	}
	r.watchers[key][id] = ch
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		delete(r.watchers[key], id)
		r.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// notifyLocked hands each watcher of the key the change, replacing one it has
// not picked up yet. A slow watcher skips intermediate values but always ends
// on the newest.
func (r *KeyValueRepository) notifyLocked(change repository.Change) {
	for _, ch := range r.watchers[change.Key] {
		offerLatest(ch, change)
	}
}

func offerLatest(ch chan repository.Change, change repository.Change) {
	for {
		select {
		case ch <- change:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
