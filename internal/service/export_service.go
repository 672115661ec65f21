package service

import (
	"alcyxob/runrep/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	exportContentType = "application/json"
	exportKeyPrefix   = "exports/"
)

var (
	ErrSharingDisabled  = errors.New("export sharing is not configured")
	ErrExportFailed     = errors.New("failed to encode export")
	ErrUploadFailed     = errors.New("failed to upload export")
	ErrInvalidExportKey = errors.New("invalid export object key")
	ErrSharedNotFound   = errors.New("shared export not found")
)

// ExportFile is a downloadable backup of the app document.
type ExportFile struct {
	Filename string
	Data     []byte
}

// SharedExport is an export uploaded to object storage.
type SharedExport struct {
	ObjectKey string    `json:"objectKey"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportService produces JSON backups of the app document.
type ExportService interface {
	Export() (*ExportFile, error)
	Share(ctx context.Context) (*SharedExport, error)
	DeleteShared(ctx context.Context, objectKey string) error
	SharingEnabled() bool
}

type exportService struct {
	appState    AppStateService
	fileStorage storage.FileStorage // nil when sharing is not configured
	linkExpiry  time.Duration
	clock       Clock
	loc         *time.Location
}

// NewExportService creates a new ExportService. fileStorage may be nil.
func NewExportService(appState AppStateService, fileStorage storage.FileStorage, linkExpiry time.Duration, clock Clock, loc *time.Location) ExportService {
	if clock == nil {
		clock = SystemClock
	}
	if loc == nil {
		loc = time.Local
	}
	if linkExpiry <= 0 {
		linkExpiry = storage.DefaultPresignedURLExpiry
	}
	return &exportService{
		appState:    appState,
		fileStorage: fileStorage,
		linkExpiry:  linkExpiry,
		clock:       clock,
		loc:         loc,
	}
}

// ExportFilename names a backup taken at now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("fitness-tracker-backup-%s.json", now.Format("2006-01-02"))
}

// Export encodes the current document with two-space indentation.
func (s *exportService) Export() (*ExportFile, error) {
	state, _ := s.appState.State()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Printf("ERROR: Failed to encode export: %v", err)
		return nil, ErrExportFailed
	}
	return &ExportFile{
		Filename: ExportFilename(s.clock().In(s.loc)),
		Data:     data,
	}, nil
}

func (s *exportService) SharingEnabled() bool {
	return s.fileStorage != nil
}

// Share uploads an export under a random prefix and returns a time-limited
// download link.
func (s *exportService) Share(ctx context.Context) (*SharedExport, error) {
	if s.fileStorage == nil {
		return nil, ErrSharingDisabled
	}
	file, err := s.Export()
	if err != nil {
		return nil, err
	}

	objectKey := path.Join(exportKeyPrefix+uuid.NewString(), file.Filename)
	if err := s.fileStorage.PutObject(ctx, objectKey, exportContentType, file.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, s.linkExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	log.Printf("INFO: Shared export '%s'", objectKey)
	return &SharedExport{
		ObjectKey: objectKey,
		Filename:  file.Filename,
		URL:       url,
		ExpiresAt: s.clock().Add(s.linkExpiry),
	}, nil
}

// DeleteShared removes an export uploaded by Share. Only keys under the export
// prefix are accepted.
func (s *exportService) DeleteShared(ctx context.Context, objectKey string) error {
	if s.fileStorage == nil {
		return ErrSharingDisabled
	}
	if !strings.HasPrefix(objectKey, exportKeyPrefix) || strings.Contains(objectKey, "..") {
		return ErrInvalidExportKey
	}
	if err := s.fileStorage.DeleteObject(ctx, objectKey); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return ErrSharedNotFound
		}
		return err
	}
	return nil
}
