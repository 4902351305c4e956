package filestore

import (
	"strings"

	"github.com/koustreak/aam/internal/errs"
)

// Provider identifies the file storage backend.
type Provider string

const (
	ProviderLocal Provider = "local"
	ProviderMinIO Provider = "minio"
)

// ParseProvider accepts the names used in aam.yml. An empty name selects
// the local filesystem.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local", "file":
		return ProviderLocal, nil
	case "minio", "s3":
		return ProviderMinIO, nil
	}
	return "", errs.Newf(errs.ErrKindInvalidInput, "unknown export target %q", s)
}

// Config holds all settings needed to reach a file storage backend.
type Config struct {
	// Provider is the storage backend (e.g. ProviderMinIO).
	Provider Provider

	// Path is the root directory of the local store.
	Path string

	// Endpoint is the host:port of the storage server.
	// Example: "localhost:9000" for local MinIO.
	Endpoint string

	// AccessKey is the access key ID (MinIO / S3 style).
	AccessKey string

	// SecretKey is the secret access key.
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Region is used by region-aware backends (e.g. AWS S3).
	// Empty means us-east-1, which is what MinIO reports.
	Region string

	// Bucket receives every object the store writes.
	Bucket string
}

// DefaultConfig returns a local store rooted at dir.
func DefaultConfig(dir string) *Config {
	return &Config{
		Provider: ProviderLocal,
		Path:     dir,
	}
}

// Validate checks the fields the selected provider needs.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.Path == "" {
			return errs.New(errs.ErrKindInvalidInput, "local export needs a path")
		}
	case ProviderMinIO:
		if c.Endpoint == "" {
			return errs.New(errs.ErrKindInvalidInput, "minio export needs an endpoint")
		}
		if c.Bucket == "" {
			return errs.New(errs.ErrKindInvalidInput, "minio export needs a bucket")
		}
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unknown export target %q", c.Provider)
	}
	return nil
}
