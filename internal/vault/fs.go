package vault

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// fsVault stores files flatly under a single directory on local disk.
// It is safe for concurrent use; no locks are held across operations, so a
// delete racing a read on the same file surfaces as ErrNotFound to the reader.
type fsVault struct {
	root string
}

// NewFS creates a filesystem vault rooted at dir, creating it if missing.
func NewFS(dir string) (Vault, error) {
	if dir == "" {
		return nil, fmt.Errorf("vault dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	return &fsVault{root: dir}, nil
}

func (v *fsVault) Store(ctx context.Context, r io.Reader, originalName, contentType string, size int64) (string, error) {
	if err := ValidateUpload(originalName, contentType, size); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext

	f, err := os.OpenFile(filepath.Join(v.root, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	// Copy at most one byte over the cap so oversized streams are detected
	// even when the declared size lied.
	written, err := io.Copy(f, io.LimitReader(r, MaxFileSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(v.root, name))
		return "", fmt.Errorf("write file: %w", err)
	}
	if written > MaxFileSize {
		_ = os.Remove(filepath.Join(v.root, name))
		return "", ErrTooLarge
	}

	return name, nil
}

func (v *fsVault) Open(ctx context.Context, path string) (io.ReadCloser, FileInfo, error) {
	full, err := v.resolve(path)
	if err != nil {
		return nil, FileInfo{}, err
	}
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, FileInfo{}, ErrNotFound
		}
		return nil, FileInfo{}, fmt.Errorf("open file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, FileInfo{}, fmt.Errorf("stat file: %w", err)
	}
	return f, FileInfo{Path: path, Size: st.Size(), ModTime: st.ModTime()}, nil
}

func (v *fsVault) Exists(ctx context.Context, path string) bool {
	full, err := v.resolve(path)
	if err != nil {
		return false
	}
	st, err := os.Stat(full)
	return err == nil && !st.IsDir()
}

func (v *fsVault) Delete(ctx context.Context, path string) error {
	full, err := v.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (v *fsVault) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(v.root)
	if err != nil {
		return nil, fmt.Errorf("read vault dir: %w", err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, e.Name())
	}
	return paths, nil
}

// resolve joins path with the root and rejects anything escaping it.
func (v *fsVault) resolve(path string) (string, error) {
	full := filepath.Join(v.root, filepath.Clean("/"+path))
	if rel, err := filepath.Rel(v.root, full); err != nil || strings.HasPrefix(rel, "..") {
		return "", ErrNotFound
	}
	return full, nil
}
