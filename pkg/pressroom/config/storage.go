package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pressroomhq/pressroom/pkg/pressroom"
	fsstorage "github.com/pressroomhq/pressroom/pkg/pressroom/storage/fs"
	memorystorage "github.com/pressroomhq/pressroom/pkg/pressroom/storage/memory"
	s3storage "github.com/pressroomhq/pressroom/pkg/pressroom/storage/s3"
)

// StorageSpec is a parsed storage URL.
//
// Supported forms:
//
//	memory://                        in-memory storage (tests, development)
//	file:///var/lib/pressroom       filesystem storage rooted at the path
//	file://./uploads                 relative paths work too
//	s3://bucket?region=us-east-1     S3 or S3-compatible storage
//
// S3 query parameters: region, endpoint, access_key_id, secret_access_key,
// path_style (true/false), create_bucket (true/false).
type StorageSpec struct {
	Type    string // "memory", "fs", "s3"
	BaseDir string // fs only
	S3      s3storage.Config
}

// ParseStorageURL parses a storage URL into a StorageSpec.
func ParseStorageURL(storageURL string) (*StorageSpec, error) {
	if storageURL == "" || storageURL == "memory://" || storageURL == "memory" {
		return &StorageSpec{Type: "memory"}, nil
	}

	switch {
	case strings.HasPrefix(storageURL, "file://"):
		baseDir := strings.TrimPrefix(storageURL, "file://")
		if baseDir == "" {
			return nil, fmt.Errorf("file:// storage URL requires a path")
		}
		return &StorageSpec{Type: "fs", BaseDir: baseDir}, nil

	case strings.HasPrefix(storageURL, "s3://"):
		parsed, err := url.Parse(storageURL)
		if err != nil {
			return nil, fmt.Errorf("invalid s3 storage URL: %w", err)
		}
		if parsed.Host == "" {
			return nil, fmt.Errorf("s3:// storage URL requires a bucket")
		}
		query := parsed.Query()
		return &StorageSpec{
			Type: "s3",
			S3: s3storage.Config{
				Bucket:                 parsed.Host,
				Region:                 query.Get("region"),
				Endpoint:               query.Get("endpoint"),
				AccessKeyID:            query.Get("access_key_id"),
				SecretAccessKey:        query.Get("secret_access_key"),
				UsePathStyle:           query.Get("path_style") == "true",
				CreateBucketIfNotExist: query.Get("create_bucket") == "true",
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage URL: %s (use memory://, file://, or s3://)", storageURL)
	}
}

// Build constructs the blob store the parsed URL describes.
func (s *StorageSpec) Build() (pressroom.BlobStore, error) {
	switch s.Type {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: s.BaseDir})
	case "s3":
		return s3storage.New(s.S3)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", s.Type)
	}
}
