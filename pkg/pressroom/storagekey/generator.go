// Package storagekey generates storage keys for uploaded attachment files.
package storagekey

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// Generator defines the interface for attachment key generation strategies
type Generator interface {
	// GenerateKey creates a storage key for an uploaded file
	GenerateKey(now time.Time, fileName string) string
}

// TimestampGenerator produces collision-resistant keys by prefixing the
// sanitized original filename with the upload time in milliseconds:
// files/1756711000123-annual_report.pdf
type TimestampGenerator struct {
	// Prefix is the fixed directory all keys are placed under (default "files")
	Prefix string
}

// NewTimestampGenerator creates a generator with the default "files" prefix.
func NewTimestampGenerator() *TimestampGenerator {
	return &TimestampGenerator{Prefix: "files"}
}

func (g *TimestampGenerator) GenerateKey(now time.Time, fileName string) string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = "files"
	}
	return fmt.Sprintf("%s/%d-%s", prefix, now.UnixMilli(), sanitizeFilename(fileName))
}

// sanitizeFilename strips any path components from the submitted name and
// replaces characters that are unsafe in keys or URLs.
func sanitizeFilename(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "file"
	}

	replacer := strings.NewReplacer(
		" ", "_",
		"#", "_",
		"?", "_",
		"&", "_",
		"%", "_",
	)
	return replacer.Replace(base)
}
