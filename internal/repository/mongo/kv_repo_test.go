package mongo

import (
	"alcyxob/runrep/internal/repository"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// openTestRepo connects to MONGO_URI and uses a throwaway database.
func openTestRepo(t *testing.T) *KeyValueRepository {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	client, err := ConnectDB(uri)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	db := client.Database("runrep_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = DisconnectDB(client)
	})
	return NewMongoKeyValueRepository(db)
}

func TestRoundTripAndUpsert(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Get(ctx, "runrep-theme"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("get missing err = %v, want ErrNotFound", err)
	}
	if err := repo.Set(ctx, "runrep-theme", []byte(`"dark"`), "a"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, "runrep-theme", []byte(`"light"`), "b"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := repo.Get(ctx, "runrep-theme")
	if err != nil || string(got) != `"light"` {
		t.Fatalf("get = %q, %v; want \"light\"", got, err)
	}

	if err := repo.Delete(ctx, "runrep-theme"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "runrep-theme"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
	if err := repo.Set(ctx, "", []byte("1"), ""); !errors.Is(err, repository.ErrEmptyKey) {
		t.Fatalf("empty key err = %v, want ErrEmptyKey", err)
	}
}
