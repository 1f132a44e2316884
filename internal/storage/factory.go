package storage

import (
	"fmt"
	"strings"

	"github.com/timmy/astroinsight/internal/config"
)

// NewStorage creates the configured object storage.
// Parameters:
//   - cfg: storage configuration including endpoint, credentials, and bucket.
//
// Returns:
//   - ObjectStorage: initialized storage client.
//   - error: non-nil if storage is not configured or the client cannot be created.
func NewStorage(cfg *config.StorageConfig) (ObjectStorage, error) {
	s, err := NewS3FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewS3FromConfig builds an S3Storage from the application configuration.
func NewS3FromConfig(cfg *config.StorageConfig) (*S3Storage, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("storage is not configured: endpoint and bucket are required")
	}

	storeType := StorageType(strings.ToLower(cfg.Type))
	if storeType == "" {
		storeType = detectStorageType(cfg.Endpoint)
	}

	return NewS3Storage(&S3Config{
		Type:      storeType,
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		PublicURL: cfg.PublicURL,
	})
}

// detectStorageType guesses the provider from the endpoint host.
func detectStorageType(endpoint string) StorageType {
	endpoint = strings.ToLower(endpoint)

	switch {
	case strings.Contains(endpoint, "r2.cloudflarestorage.com"):
		return StorageTypeR2
	case strings.Contains(endpoint, "amazonaws.com"):
		return StorageTypeS3
	default:
		return StorageTypeS3Compatible
	}
}
