// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kv

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// File stores each key as dir/<key>.json. Writes go through a temporary
// file and a rename, so a crash leaves either the old or the new value.
type File struct {
	dir string
}

var _ Backend = (*File)(nil)

// NewFile creates dir if needed and returns a File backend rooted there.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, eris.New("file store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "file store: create %s", dir)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get implements Backend.
func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, eris.Wrapf(err, "file store: read %s", key)
	}
	return string(data), true, nil
}

// Set implements Backend.
func (f *File) Set(_ context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(f.dir, ".kv-*.tmp")
	if err != nil {
		return eris.Wrap(err, "file store: create temp file")
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.WriteString(value)
	syncErr := tmpFile.Sync()
	closeErr := tmpFile.Close()
	for _, err := range []error{writeErr, syncErr, closeErr} {
		if err != nil {
			os.Remove(tmpPath)
			return eris.Wrapf(err, "file store: write %s", key)
		}
	}

	if err := os.Rename(tmpPath, f.path(key)); err != nil {
		os.Remove(tmpPath)
		return eris.Wrapf(err, "file store: rename %s", key)
	}
	return nil
}

// Delete implements Backend.
func (f *File) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return eris.Wrapf(err, "file store: delete %s", key)
	}
	return nil
}

// Close implements Backend.
func (f *File) Close() error { return nil }
