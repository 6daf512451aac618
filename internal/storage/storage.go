package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

var ErrNotFound = errors.New("blob not found")

// Blob is an open stored file. Callers must close Body.
type Blob struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Blobs is the area uploaded attachments are written to and served from.
// Names are flat, generated by FileName, and never contain separators.
type Blobs interface {
	Put(ctx context.Context, name string, body io.Reader, contentType string) error
	Get(ctx context.Context, name string) (*Blob, error)
	Delete(ctx context.Context, name string) error
}

// ValidName reports whether name is a single flat path element. Names with a
// leading dot are reserved for in-progress writes.
func ValidName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}

	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

// DetectContentType sniffs the magic bytes in head, falling back to the
// extension of name.
func DetectContentType(head []byte, name string) string {
	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}

	return contentTypeByName(name)
}

func contentTypeByName(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}

	return "application/octet-stream"
}
