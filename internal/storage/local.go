package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStorage keeps blobs as files in a single directory.
type LocalStorage struct {
	rootPath string
}

// NewLocalStorage creates rootPath when missing.
func NewLocalStorage(rootPath string) (*LocalStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create directory %s: %w", rootPath, err)
	}

	return &LocalStorage{rootPath: rootPath}, nil
}

func (s *LocalStorage) Put(ctx context.Context, name string, body io.Reader, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !ValidName(name) {
		return fmt.Errorf("storage: invalid blob name %q", name)
	}

	targetPath := filepath.Join(s.rootPath, name)

	f, err := os.CreateTemp(s.rootPath, ".upload-*")
	if err != nil {
		return fmt.Errorf("storage: failed to create file: %w", err)
	}
	defer f.Close()
	tempPath := f.Name()

	if _, err := io.Copy(f, body); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("storage: failed to write file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("storage: failed to close file: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("storage: failed to rename file: %w", err)
	}

	return nil
}

func (s *LocalStorage) Get(ctx context.Context, name string) (*Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !ValidName(name) {
		return nil, ErrNotFound
	}

	f, err := os.Open(filepath.Join(s.rootPath, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("storage: failed to stat file: %w", err)
	}

	if info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}

	return &Blob{
		Body:        f,
		ContentType: contentTypeByName(name),
		Size:        info.Size(),
	}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !ValidName(name) {
		return fmt.Errorf("storage: invalid blob name %q", name)
	}

	err := os.Remove(filepath.Join(s.rootPath, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: failed to delete file: %w", err)
	}

	return nil
}
