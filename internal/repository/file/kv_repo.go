// Package file stores each key as a JSON file in one directory. Writes go
// through a temp file and a rename so readers never see a torn value.
package file

import (
	"alcyxob/runrep/internal/repository"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const fileExt = ".json"

// KeyValueRepository implements repository.KeyValueRepository and repository.Watcher.
type KeyValueRepository struct {
	dir string
	mu  sync.RWMutex
}

// NewKeyValueRepository creates the directory if needed.
func NewKeyValueRepository(dir string) (*KeyValueRepository, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &KeyValueRepository{dir: filepath.Clean(dir)}, nil
}

func (r *KeyValueRepository) path(key string) string {
	return filepath.Join(r.dir, url.PathEscape(key)+fileExt)
}

// Get reads the file for key.
func (r *KeyValueRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, repository.ErrEmptyKey
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set replaces the file for key. The origin is not recorded on disk.
func (r *KeyValueRepository) Set(ctx context.Context, key string, value []byte, origin string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return repository.ErrEmptyKey
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tmp, err := os.CreateTemp(r.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

// Delete removes the file for key.
func (r *KeyValueRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(r.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Watch reports changes to the file for key made by any process, including
// this one. Consecutive identical contents are reported once.
func (r *KeyValueRepository) Watch(ctx context.Context, key string) (<-chan repository.Change, error) {
	if key == "" {
		return nil, repository.ErrEmptyKey
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", r.dir, err)
	}

	target := r.path(key)
	out := make(chan repository.Change)
	go func() {
		defer close(out)
		defer watcher.Close()

		var last []byte
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("WARN: file watcher error for '%s': %v", key, err)
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				change := repository.Change{Key: key, UpdatedAt: time.Now().UTC()}
				if ev.Has(fsnotify.Remove) {
					last = nil
				} else if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					data, err := os.ReadFile(target)
					if err != nil {
						// Renamed away or removed before we got to it.
						continue
					}
					if last != nil && bytes.Equal(last, data) {
						continue
					}
					last = data
					change.Value = data
				} else {
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
