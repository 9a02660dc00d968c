package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local is the file:// backend. It is also the fallback used when a publish
// destination is a plain directory path.
type Local struct{}

// NewLocal creates a local filesystem backend.
func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	path, err := requireScheme(uri, "file")
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

func (l *Local) Put(ctx context.Context, uri string, data io.Reader) error {
	path, err := requireScheme(uri, "file")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		return fmt.Errorf("write destination file: %w", err)
	}
	return nil
}

func (l *Local) Delete(ctx context.Context, uri string) error {
	path, err := requireScheme(uri, "file")
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (l *Local) Exists(ctx context.Context, uri string) (bool, error) {
	path, err := requireScheme(uri, "file")
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
