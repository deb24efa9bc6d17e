// Package vault contains the uploaded-file storage abstraction. Backends must
// rely on streaming I/O only; callers never receive whole files in memory.
package vault

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// MaxFileSize is the upload cap in bytes. Anything larger is rejected and any
// partially written bytes are discarded.
const MaxFileSize = 10_000_000

var (
	// ErrNotFound reports that the requested file does not exist in the vault.
	ErrNotFound = errors.New("file not found")
	// ErrDisallowedType reports a file extension or declared content type
	// outside the allow-list. Both are checked independently.
	ErrDisallowedType = errors.New("file type not allowed")
	// ErrTooLarge reports an upload exceeding MaxFileSize.
	ErrTooLarge = errors.New("file exceeds size limit")
)

var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".pdf":  true,
}

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"application/pdf": true,
}

// FileInfo describes one stored file.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Vault is the filesystem abstraction for uploaded files. Paths are relative
// to the vault root; the vault holds plain bytes and knows nothing about the
// records that reference them.
type Vault interface {
	// Store validates the upload and writes it under a generated
	// collision-free name, returning the relative path.
	Store(ctx context.Context, r io.Reader, originalName, contentType string, size int64) (string, error)
	// Open returns a streaming reader for the file at path.
	Open(ctx context.Context, path string) (io.ReadCloser, FileInfo, error)
	// Exists reports whether path refers to a stored file. It never fails;
	// any backend error reads as absence.
	Exists(ctx context.Context, path string) bool
	// Delete removes the file at path. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error
	// List enumerates the relative paths of every stored file.
	List(ctx context.Context) ([]string, error)
}

// ValidateUpload applies the shared allow-list and size checks. The extension
// and the declared content type must each pass on their own; an allowed
// extension cannot vouch for a disallowed type or the other way around.
func ValidateUpload(originalName, contentType string, size int64) error {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExts[ext] {
		return ErrDisallowedType
	}
	if !allowedContentTypes[normalizeContentType(contentType)] {
		return ErrDisallowedType
	}
	if size > MaxFileSize {
		return ErrTooLarge
	}
	return nil
}

// normalizeContentType strips parameters such as "; charset=binary" that
// multipart headers sometimes carry.
func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
