// Package blob stores photo content outside the entity store. Callers keep
// only the returned handle; the bytes live here.
package blob

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Handle identifies stored content. It is opaque to callers.
type Handle string

// Store puts bytes under a key and loads them back by handle
type Store interface {
	Put(ctx context.Context, key string, data []byte) (Handle, error)
	Load(ctx context.Context, h Handle) ([]byte, error)
}

// ErrNotFound is returned when a handle has no content behind it
var ErrNotFound = errors.New("blob: not found")

// sanitizeKey keeps keys relative and inside the store root
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key contains '..'")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key")
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}
