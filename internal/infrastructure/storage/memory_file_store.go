// Package storage provides object storage for order file attachments.
package storage

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFileStore keeps order files in memory. Use it for development
// and tests; it mirrors the S3FileStore behavior including per-order
// prefixes and zip archiving.
type MemoryFileStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

// NewMemoryFileStore creates an empty in-memory file store
func NewMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{
		objects: make(map[string][]byte),
		baseURL: "https://storage.example.com",
	}
}

// Upload stores a file under the order's prefix and returns its key
func (s *MemoryFileStore) Upload(ctx context.Context, orderNo, filename string, body io.Reader, contentType string) (string, error) {
	if orderNo == "" {
		return "", errors.New("order number is required")
	}
	if filename == "" {
		return "", errors.New("filename is required")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	key := orderKey(orderNo, filename)
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return key, nil
}

// ListKeys returns the storage keys of all files under an order's prefix
func (s *MemoryFileStore) ListKeys(ctx context.Context, orderNo string) ([]string, error) {
	if orderNo == "" {
		return nil, errors.New("order number is required")
	}

	prefix := orderKeyPrefix + orderNo + "/"

	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes a single object from storage
func (s *MemoryFileStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// DeleteAll removes every file under an order's prefix
func (s *MemoryFileStore) DeleteAll(ctx context.Context, orderNo string) error {
	keys, err := s.ListKeys(ctx, orderNo)
	if err != nil {
		return err
	}

	s.mu.Lock()
	for _, key := range keys {
		delete(s.objects, key)
	}
	s.mu.Unlock()
	return nil
}

// DownloadURL returns a fake URL carrying the key and expiry
func (s *MemoryFileStore) DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	if expiresIn <= 0 {
		expiresIn = defaultURLExpiry
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.baseURL + "/" + key + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt, nil
}

// PublicURL returns the public-facing URL for a key
func (s *MemoryFileStore) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

// ArchiveZip writes every file under an order's prefix into a zip archive
func (s *MemoryFileStore) ArchiveZip(ctx context.Context, orderNo string, w io.Writer) error {
	keys, err := s.ListKeys(ctx, orderNo)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return errors.New("order has no files")
	}

	zw := zip.NewWriter(w)
	for _, key := range keys {
		s.mu.RLock()
		data := s.objects[key]
		s.mu.RUnlock()

		entry, err := zw.Create(path.Base(key))
		if err != nil {
			zw.Close()
			return err
		}
		if _, err := io.Copy(entry, bytes.NewReader(data)); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

// Size returns the number of stored objects (for testing)
func (s *MemoryFileStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
