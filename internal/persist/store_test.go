package persist

import (
	"alcyxob/runrep/internal/repository"
	"alcyxob/runrep/internal/repository/memory"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type counter struct {
	N     int      `json:"n"`
	Trail []string `json:"trail"`
}

func quietLogger(buf *bytes.Buffer) Option {
	return WithLogger(log.New(buf, "", 0))
}

func TestLoadMissingKeepsDefault(t *testing.T) {
	t.Parallel()

	backend := memory.NewKeyValueRepository()
	s := New("k", counter{N: 7}, backend, nil)
	if _, loading := s.Value(); !loading {
		t.Fatal("expected store to report loading before Load")
	}
	s.Load(context.Background())

	got, loading := s.Value()
	if loading {
		t.Fatal("expected loading=false after Load")
	}
	if got.N != 7 {
		t.Fatalf("n = %d, want 7", got.N)
	}
	select {
	case <-s.Ready():
	default:
		t.Fatal("ready channel not closed")
	}
}

func TestLoadReadsPersistedValue(t *testing.T) {
	t.Parallel()

	backend := memory.NewKeyValueRepository()
	if err := backend.Set(context.Background(), "k", []byte(`{"n":42}`), ""); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := New("k", counter{}, backend, nil)
	var seen int
	s.Subscribe(func(c counter) { seen = c.N })
	s.Load(context.Background())

	got, _ := s.Value()
	if got.N != 42 {
		t.Fatalf("n = %d, want 42", got.N)
	}
	if seen != 42 {
		t.Fatalf("subscriber saw %d, want 42", seen)
	}
}

func TestLoadCorruptValueFallsBackToDefault(t *testing.T) {
	t.Parallel()

	backend := memory.NewKeyValueRepository()
	if err := backend.Set(context.Background(), "k", []byte(`{not json`), ""); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var logs bytes.Buffer
	s := New("k", counter{N: 3}, backend, nil, quietLogger(&logs))
	s.Load(context.Background())

	got, loading := s.Value()
	if loading {
		t.Fatal("expected loading=false after failed decode")
	}
	if got.N != 3 {
		t.Fatalf("n = %d, want default 3", got.N)
	}
	if !strings.Contains(logs.String(), "ERROR:") {
		t.Fatalf("expected decode failure to be logged, got %q", logs.String())
	}
}

func TestUpdatesFoldInOrder(t *testing.T) {
	t.Parallel()

	backend := memory.NewKeyValueRepository()
	s := New("k", counter{}, backend, nil)
	s.Load(context.Background())

	for _, step := range []string{"a", "b", "c"} {
		step := step
		s.Update(context.Background(), func(prev counter) counter {
			return counter{N: prev.N + 1, Trail: append(append([]string(nil), prev.Trail...), step)}
		})
	}
	got, _ := s.Value()
	if got.N != 3 || strings.Join(got.Trail, "") != "abc" {
		t.Fatalf("got %+v, want n=3 trail=abc", got)
	}

	raw, err := backend.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("get persisted: %v", err)
	}
	var persisted counter
	if err := json.Unmarshal(raw, &persisted); err != nil {
		t.Fatalf("decode persisted: %v", err)
	}
	if persisted.N != 3 {
		t.Fatalf("persisted n = %d, want 3", persisted.N)
	}
}

func TestConcurrentUpdatesLoseNothing(t *testing.T) {
	t.Parallel()

	s := New("k", 0, memory.NewKeyValueRepository(), nil)
	s.Load(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(context.Background(), func(prev int) int { return prev + 1 })
		}()
	}
	wg.Wait()

	if got, _ := s.Value(); got != 50 {
		t.Fatalf("value = %d, want 50", got)
	}
}

func TestBroadcastReachesOtherStoresOfSameKey(t *testing.T) {
	t.Parallel()

	backend := memory.NewKeyValueRepository()
	bus := NewBus()
	a := New("k", counter{}, backend, bus)
	b := New("k", counter{}, backend, bus)
	other := New("other", counter{}, backend, bus)
	for _, s := range []*Store[counter]{a, b, other} {
		s.Load(context.Background())
	}

	a.Set(context.Background(), counter{N: 9})

	if got, _ := b.Value(); got.N != 9 {
		t.Fatalf("b.n = %d, want 9", got.N)
	}
	if got, _ := other.Value(); got.N != 0 {
		t.Fatalf("store of another key changed: %d", got.N)
	}

	b.Close()
	a.Set(context.Background(), counter{N: 10})
	if got, _ := b.Value(); got.N != 9 {
		t.Fatalf("closed store still receives broadcasts: %d", got.N)
	}
}

func TestFailedWriteKeepsInMemoryValue(t *testing.T) {
	t.Parallel()

	backend := memory.NewKeyValueRepository()
	backend.FailWrites = true
	bus := NewBus()
	var logs bytes.Buffer
	a := New("k", counter{}, backend, bus, quietLogger(&logs))
	b := New("k", counter{}, backend, bus, quietLogger(&logs))
	a.Load(context.Background())
	b.Load(context.Background())

	got := a.Set(context.Background(), counter{N: 5})
	if got.N != 5 {
		t.Fatalf("returned n = %d, want 5", got.N)
	}
	if v, _ := a.Value(); v.N != 5 {
		t.Fatalf("cached n = %d, want 5", v.N)
	}
	if v, _ := b.Value(); v.N != 0 {
		t.Fatalf("failed write was broadcast: b.n = %d", v.N)
	}
	if !strings.Contains(logs.String(), "Error saving") {
		t.Fatalf("expected write failure to be logged, got %q", logs.String())
	}
}

func TestLoadAsyncDefersUpdates(t *testing.T) {
	t.Parallel()

	backend := memory.NewKeyValueRepository()
	if err := backend.Set(context.Background(), "k", []byte(`10`), ""); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := New("k", 0, backend, nil)
	s.LoadAsync(context.Background())
	got := s.Update(context.Background(), func(prev int) int { return prev + 1 })
	if got != 11 {
		t.Fatalf("update built on %d, want 11", got)
	}
}

func TestWatchAppliesChangesFromAnotherProcess(t *testing.T) {
	t.Parallel()

	// Two buses on one backend behave like two tabs sharing storage.
	backend := memory.NewKeyValueRepository()
	tabA := New("k", counter{}, backend, NewBus())
	tabB := New("k", counter{}, backend, NewBus())
	tabA.Load(context.Background())
	tabB.Load(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := tabB.Watch(ctx); err != nil {
		t.Fatalf("watch: %v", err)
	}

	received := make(chan counter, 1)
	tabB.Subscribe(func(c counter) { received <- c })

	tabA.Set(context.Background(), counter{N: 21})

	select {
	case c := <-received:
		if c.N != 21 {
			t.Fatalf("tab b saw %d, want 21", c.N)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tab b never saw the change")
	}
}

func TestWatchSkipsOwnWrites(t *testing.T) {
	t.Parallel()

	backend := memory.NewKeyValueRepository()
	s := New("k", 0, backend, nil)
	s.Load(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Watch(ctx); err != nil {
		t.Fatalf("watch: %v", err)
	}
	var calls atomic.Int32
	s.Subscribe(func(int) { calls.Add(1) })

	s.Set(context.Background(), 1)
	time.Sleep(50 * time.Millisecond)

	if n := calls.Load(); n != 1 {
		t.Fatalf("subscriber called %d times, want 1", n)
	}
}

// originlessBackend records no write origin, like the file backend.
type originlessBackend struct {
	*memory.KeyValueRepository
}

func (b originlessBackend) Set(ctx context.Context, key string, value []byte, _ string) error {
	return b.KeyValueRepository.Set(ctx, key, value, "")
}

func waitForN(t *testing.T, ch <-chan counter, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case c := <-ch:
			if c.N == want {
				return
			}
		case <-deadline:
			t.Fatalf("never saw n = %d", want)
		}
	}
}

func TestWatchAppliesOtherWriterRestoringOwnValue(t *testing.T) {
	t.Parallel()

	backends := map[string]repository.KeyValueRepository{
		"with origin":    memory.NewKeyValueRepository(),
		"without origin": originlessBackend{memory.NewKeyValueRepository()},
	}
	for name, backend := range backends {
		tabA := New("k", counter{}, backend, NewBus())
		tabB := New("k", counter{}, backend, NewBus())
		tabA.Load(context.Background())
		tabB.Load(context.Background())

		ctx, cancel := context.WithCancel(context.Background())
		if err := tabA.Watch(ctx); err != nil {
			cancel()
			t.Fatalf("%s: watch: %v", name, err)
		}
		received := make(chan counter, 16)
		tabA.Subscribe(func(c counter) { received <- c })

		tabA.Set(context.Background(), counter{N: 0})
		tabB.Set(context.Background(), counter{N: 7})
		waitForN(t, received, 7)
		tabB.Set(context.Background(), counter{N: 0})
		waitForN(t, received, 0)

		if got, _ := tabA.Value(); got.N != 0 {
			t.Fatalf("%s: tab a cached n = %d, want 0", name, got.N)
		}
		cancel()
	}
}

func TestWatchSkipsOwnEchoWithoutOrigin(t *testing.T) {
	t.Parallel()

	s := New("k", 0, originlessBackend{memory.NewKeyValueRepository()}, nil)
	s.Load(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Watch(ctx); err != nil {
		t.Fatalf("watch: %v", err)
	}
	var calls atomic.Int32
	s.Subscribe(func(int) { calls.Add(1) })

	s.Set(context.Background(), 1)
	time.Sleep(50 * time.Millisecond)

	if n := calls.Load(); n != 1 {
		t.Fatalf("subscriber called %d times, want 1", n)
	}
}

// plainBackend forwards storage calls but does not offer Watch.
type plainBackend struct {
	repo *memory.KeyValueRepository
}

func (p plainBackend) Get(ctx context.Context, key string) ([]byte, error) {
	return p.repo.Get(ctx, key)
}

func (p plainBackend) Set(ctx context.Context, key string, value []byte, origin string) error {
	return p.repo.Set(ctx, key, value, origin)
}

func (p plainBackend) Delete(ctx context.Context, key string) error {
	return p.repo.Delete(ctx, key)
}

func TestWatchUnsupported(t *testing.T) {
	t.Parallel()

	s := New("k", 0, plainBackend{repo: memory.NewKeyValueRepository()}, nil)
	if err := s.Watch(context.Background()); !errors.Is(err, ErrWatchUnsupported) {
		t.Fatalf("watch err = %v, want %v", err, ErrWatchUnsupported)
	}
}
