// Package kv provides the durable local storage capability: a narrow
// key-value contract with a SQLite backend (default), a plain-file
// backend, and an in-memory backend for tests.
package kv

import "errors"

// ErrNotFound is returned by Get when the key has never been written
// or has been deleted.
var ErrNotFound = errors.New("kv: key not found")

// Store reads and writes opaque values under string keys.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}
