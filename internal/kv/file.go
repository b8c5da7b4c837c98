package kv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

// File is a plain-file backend: one file per key under a base
// directory. Useful when the data should stay greppable on disk.
type File struct {
	d *diskv.Diskv
}

// NewFile creates a file-backed store rooted at basePath.
func NewFile(basePath string) (*File, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &File{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return nil },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}, nil
}

func (f *File) Get(key string) ([]byte, error) {
	value, err := f.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

func (f *File) Put(key string, value []byte) error {
	if err := f.d.Write(key, value); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (f *File) Delete(key string) error {
	err := f.d.Erase(key)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (f *File) Close() error {
	return nil
}

// DefaultFilePath returns ~/.config/moodo/data (per-OS config dir).
func DefaultFilePath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "moodo", "data"), nil
}
