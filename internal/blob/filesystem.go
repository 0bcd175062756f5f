package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const filesystemPrefix = "fs:"

// Filesystem stores content as files below a root directory
type Filesystem struct {
	root string
}

// NewFilesystem returns a store rooted at root, creating it if needed
func NewFilesystem(root string) (*Filesystem, error) {
	if root == "" {
		return nil, fmt.Errorf("blob root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &Filesystem{root: root}, nil
}

// Put writes data atomically under key; errors if key exists
func (s *Filesystem) Put(_ context.Context, key string, data []byte) (Handle, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.root, filepath.FromSlash(k))
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("blob %s already exists", k)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return Handle(filesystemPrefix + k), nil
}

// Load reads the file behind h
func (s *Filesystem) Load(_ context.Context, h Handle) ([]byte, error) {
	k, ok := trimHandle(h, filesystemPrefix)
	if !ok {
		return nil, fmt.Errorf("blob: foreign handle %q", h)
	}
	k, err := sanitizeKey(k)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(k)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}
