// Package fsutil reads notes and writes configuration files for stickymd.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// MaxDocumentSize bounds the notes ReadDocument accepts.
const MaxDocumentSize int64 = 16 << 20

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrTooLarge indicates the file exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
)

// ReadDocument reads a note from disk. It rejects directories and files
// larger than limit bytes; a non-positive limit means MaxDocumentSize.
// Missing files keep fs.ErrNotExist in the error chain.
func ReadDocument(ctx context.Context, path string, limit int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if limit <= 0 {
		limit = MaxDocumentSize
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	if stat.Size() > limit {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrTooLarge, path, stat.Size(), limit)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return content, nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
