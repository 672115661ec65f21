package storage

import (
	"alcyxob/runrep/internal/config"
	"context"
	"testing"
)

func TestEndpointURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		endpoint string
		useSSL   bool
		want     string
	}{
		{"localhost:9000", false, "http://localhost:9000"},
		{"nyc3.digitaloceanspaces.com", true, "https://nyc3.digitaloceanspaces.com"},
		{"http://minio:9000", true, "http://minio:9000"},
		{"https://s3.example.com", false, "https://s3.example.com"},
	}
	for _, tt := range tests {
		if got := endpointURL(tt.endpoint, tt.useSSL); got != tt.want {
			t.Fatalf("endpointURL(%q, %v) = %q, want %q", tt.endpoint, tt.useSSL, got, tt.want)
		}
	}
}

func TestNewS3StorageRequiresBucket(t *testing.T) {
	t.Parallel()

	if _, err := NewS3Storage(context.Background(), config.S3Config{Region: "us-east-1"}); err == nil {
		t.Fatal("expected error without bucket name")
	}
}

func TestPresignedDownloadURL(t *testing.T) {
	t.Parallel()

	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test-secret",
		BucketName:      "exports",
	})
	if err != nil {
		t.Fatalf("NewS3Storage: %v", err)
	}
	url, err := fs.GeneratePresignedDownloadURL(context.Background(), "exports/abc/backup.json", 0)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	want := "http://localhost:9000/exports/exports/abc/backup.json?"
	if len(url) < len(want) || url[:len(want)] != want {
		t.Fatalf("url = %q, want prefix %q", url, want)
	}
}
