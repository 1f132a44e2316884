package storage

import (
	"testing"

	"github.com/timmy/astroinsight/internal/config"
)

func TestDetectStorageType(t *testing.T) {
	tests := []struct {
		endpoint string
		want     StorageType
	}{
		{"https://abc.r2.cloudflarestorage.com", StorageTypeR2},
		{"s3.eu-west-1.amazonaws.com", StorageTypeS3},
		{"localhost:9000", StorageTypeS3Compatible},
	}
	for _, tt := range tests {
		if got := detectStorageType(tt.endpoint); got != tt.want {
			t.Errorf("detectStorageType(%q) = %s, want %s", tt.endpoint, got, tt.want)
		}
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	if got := normalizeEndpoint("https://minio.local:9000/some/path"); got != "minio.local:9000" {
		t.Errorf("normalizeEndpoint = %q", got)
	}
}

func TestGetURL(t *testing.T) {
	s, err := NewS3Storage(&S3Config{Endpoint: "http://localhost:9000", Bucket: "almanac", AccessKey: "a", SecretKey: "b"})
	if err != nil {
		t.Fatalf("NewS3Storage: %v", err)
	}
	if got := s.GetURL("almanac/2026-10-18/en.json"); got != "http://localhost:9000/almanac/almanac/2026-10-18/en.json" {
		t.Errorf("GetURL = %q", got)
	}

	s.publicURL = "https://cdn.example.com"
	if got := s.GetURL("k.json"); got != "https://cdn.example.com/k.json" {
		t.Errorf("GetURL with public URL = %q", got)
	}
}

func TestNewStorageRequiresEndpoint(t *testing.T) {
	if _, err := NewStorage(&config.StorageConfig{Bucket: "almanac"}); err == nil {
		t.Error("expected error without endpoint")
	}
}
