// Package objstore serves cache entries from an object storage bucket.
//
// Every key is stored as one object named prefix+key whose body is the raw
// entry. Enumeration lists the prefix, so keys are ordered by object name.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/schema"
)

// ErrNotFound is returned by Bucket.Read when the object does not exist.
var ErrNotFound = errors.New("object not found")

// Bucket is the subset of an object storage API used by Store.
type Bucket interface {
	// Kind names the backend, e.g. "s3".
	Kind() string
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, name string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Store is a contract.Store over a Bucket.
type Store struct {
	bucket Bucket
	prefix string
}

var (
	_ contract.Store          = &Store{} // Compile-time check
	_ contract.KeyLister      = &Store{} // Compile-time check
	_ contract.StatusReporter = &Store{} // Compile-time check
)

// New returns a Store keeping objects under prefix. A nil bucket yields a
// store that reports itself unavailable.
func New(bucket Bucket, prefix string) *Store {
	return &Store{bucket: bucket, prefix: prefix}
}

// Available implements contract.Store.
func (s *Store) Available() bool {
	return s.bucket != nil
}

// Len implements contract.Store.
func (s *Store) Len(ctx context.Context) (int, error) {
	keys, err := s.Keys(ctx)
	return len(keys), err
}

// Key implements contract.Store. Each call lists the bucket, prefer Keys.
func (s *Store) Key(ctx context.Context, index int) (string, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(keys) {
		return "", contract.ErrIndexOutOfRange
	}
	return keys[index], nil
}

// Keys implements contract.KeyLister.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if s.bucket == nil {
		return nil, nil
	}
	names, err := s.bucket.List(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s objects under %q: %w", s.bucket.Kind(), s.prefix, err)
	}
	keys := make([]string, 0, len(names))
	for _, name := range names {
		key, ok := strings.CutPrefix(name, s.prefix)
		if !ok || key == "" {
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

// GetItem implements contract.Store.
func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	if s.bucket == nil {
		return "", false, nil
	}
	data, err := s.bucket.Read(ctx, s.prefix+key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// SetItem implements contract.Store.
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	if s.bucket == nil {
		return nil
	}
	return s.bucket.Write(ctx, s.prefix+key, []byte(value))
}

// RemoveItem implements contract.Store.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	if s.bucket == nil {
		return nil
	}
	return s.bucket.Delete(ctx, s.prefix+key)
}

// Status implements contract.StatusReporter.
func (s *Store) Status(ctx context.Context) (schema.CacheStatus, error) {
	if s.bucket == nil {
		return schema.CacheStatus{Backend: "object"}, nil
	}
	status := schema.CacheStatus{
		Backend:   s.bucket.Kind(),
		Connected: true,
	}
	keys, err := s.Keys(ctx)
	if err != nil {
		return status, err
	}
	status.TotalEntries = len(keys)
	return status, nil
}

// Close releases the bucket client.
func (s *Store) Close() error {
	if s.bucket == nil {
		return nil
	}
	return s.bucket.Close()
}
