package service

import (
	"alcyxob/runrep/internal/domain"
	"alcyxob/runrep/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

type recordingStorage struct {
	objects map[string][]byte
	putErr  error
}

func (r *recordingStorage) PutObject(_ context.Context, key, contentType string, body []byte) error {
	if r.putErr != nil {
		return r.putErr
	}
	if contentType != "application/json" {
		return errors.New("unexpected content type " + contentType)
	}
	r.objects[key] = body
	return nil
}

func (r *recordingStorage) GeneratePresignedDownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return "https://example.com/" + key + "?expires=" + expires.String(), nil
}

func (r *recordingStorage) DeleteObject(_ context.Context, key string) error {
	if _, ok := r.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(r.objects, key)
	return nil
}

func TestExportFilename(t *testing.T) {
	t.Parallel()
	got := ExportFilename(time.Date(2026, time.March, 5, 23, 0, 0, 0, time.UTC))
	if want := "fitness-tracker-backup-2026-03-05.json"; got != want {
		t.Fatalf("filename = %q, want %q", got, want)
	}
}

func TestExportRoundTrips(t *testing.T) {
	t.Parallel()
	appState, _, clock := newTestAppState(t)
	appState.AddExerciseLog(context.Background(), domain.ExerciseLogInput{ExerciseID: "sun-main-1", Weight: ptr(90.0)})
	exports := NewExportService(appState, nil, 0, clock.Now, time.UTC)

	file, err := exports.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if file.Filename != "fitness-tracker-backup-2026-10-13.json" {
		t.Fatalf("filename = %q", file.Filename)
	}
	if !strings.HasPrefix(string(file.Data), "{\n  \"exerciseLogs\"") {
		t.Fatalf("export is not indented with two spaces: %.40q", file.Data)
	}
	var decoded domain.AppState
	if err := json.Unmarshal(file.Data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	state, _ := appState.State()
	if !reflect.DeepEqual(decoded, state) {
		t.Fatalf("export differs from state:\n got %+v\nwant %+v", decoded, state)
	}
}

func TestShareDisabledWithoutStorage(t *testing.T) {
	t.Parallel()
	appState, _, clock := newTestAppState(t)
	exports := NewExportService(appState, nil, 0, clock.Now, time.UTC)

	if exports.SharingEnabled() {
		t.Fatal("sharing enabled without storage")
	}
	if _, err := exports.Share(context.Background()); !errors.Is(err, ErrSharingDisabled) {
		t.Fatalf("share err = %v, want ErrSharingDisabled", err)
	}
	if err := exports.DeleteShared(context.Background(), "exports/x/y.json"); !errors.Is(err, ErrSharingDisabled) {
		t.Fatalf("delete err = %v, want ErrSharingDisabled", err)
	}
}

func TestShareUploadsAndDeletes(t *testing.T) {
	t.Parallel()
	appState, _, clock := newTestAppState(t)
	files := &recordingStorage{objects: make(map[string][]byte)}
	exports := NewExportService(appState, files, 2*time.Hour, clock.Now, time.UTC)
	ctx := context.Background()

	shared, err := exports.Share(ctx)
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	parts := strings.Split(shared.ObjectKey, "/")
	if len(parts) != 3 || parts[0] != "exports" || parts[2] != shared.Filename {
		t.Fatalf("object key = %q", shared.ObjectKey)
	}
	if _, ok := files.objects[shared.ObjectKey]; !ok {
		t.Fatal("export was not uploaded")
	}
	if !shared.ExpiresAt.Equal(testStart.Add(2 * time.Hour)) {
		t.Fatalf("expiresAt = %v", shared.ExpiresAt)
	}
	if !strings.Contains(shared.URL, "expires=2h0m0s") {
		t.Fatalf("url = %q, want configured expiry", shared.URL)
	}

	if err := exports.DeleteShared(ctx, "exports/../secrets.json"); !errors.Is(err, ErrInvalidExportKey) {
		t.Fatalf("traversal err = %v, want ErrInvalidExportKey", err)
	}
	if err := exports.DeleteShared(ctx, shared.ObjectKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := exports.DeleteShared(ctx, shared.ObjectKey); !errors.Is(err, ErrSharedNotFound) {
		t.Fatalf("second delete err = %v, want ErrSharedNotFound", err)
	}
}

func TestShareUploadFailure(t *testing.T) {
	t.Parallel()
	appState, _, clock := newTestAppState(t)
	files := &recordingStorage{objects: make(map[string][]byte), putErr: errors.New("bucket unreachable")}
	exports := NewExportService(appState, files, 0, clock.Now, time.UTC)

	if _, err := exports.Share(context.Background()); !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("err = %v, want ErrUploadFailed", err)
	}
}
