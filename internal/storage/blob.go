// Package storage holds the blob store boundary product images pass
// through. The core keeps whatever URL the store returns and never
// interprets it.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type BlobStore interface {
	Put(ctx context.Context, data []byte, ext string) (string, error)
}

// DiskBlobStore writes blobs under a local directory served statically at
// baseURL.
type DiskBlobStore struct {
	dir     string
	baseURL string
}

func NewDiskBlobStore(dir, baseURL string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskBlobStore{dir: dir, baseURL: baseURL}, nil
}

func (d *DiskBlobStore) Put(ctx context.Context, data []byte, ext string) (string, error) {
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(d.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return d.baseURL + "/" + name, nil
}
