package vault

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		wantErr     error
	}{
		{"allowed png", "scan.png", "image/png", 1024, nil},
		{"allowed pdf uppercase ext", "SCAN.PDF", "application/pdf", 1024, nil},
		{"allowed jpeg with charset param", "photo.jpeg", "image/jpeg; charset=binary", 1024, nil},
		{"allowed ext disallowed type", "scan.png", "application/octet-stream", 1024, ErrDisallowedType},
		{"disallowed ext allowed type", "scan.exe", "image/png", 1024, ErrDisallowedType},
		{"no extension", "scan", "image/png", 1024, ErrDisallowedType},
		{"too large", "scan.png", "image/png", MaxFileSize + 1, ErrTooLarge},
		{"exactly at cap", "scan.png", "image/png", MaxFileSize, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.filename, tt.contentType, tt.size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFSVault_StoreAndOpen(t *testing.T) {
	ctx := context.Background()
	v, err := NewFS(t.TempDir())
	require.NoError(t, err)

	content := []byte("hello vault")
	path, err := v.Store(ctx, bytes.NewReader(content), "photo.jpg", "image/jpeg", int64(len(content)))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".jpg"))
	assert.True(t, v.Exists(ctx, path))

	rc, info, err := v.Open(ctx, path)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, path, info.Path)
}

func TestFSVault_StoreRejectsDisallowedType(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	v, err := NewFS(dir)
	require.NoError(t, err)

	_, err = v.Store(ctx, strings.NewReader("x"), "malware.exe", "application/pdf", 1)
	assert.ErrorIs(t, err, ErrDisallowedType)

	_, err = v.Store(ctx, strings.NewReader("x"), "scan.pdf", "text/html", 1)
	assert.ErrorIs(t, err, ErrDisallowedType)

	// Nothing was left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFSVault_StoreDiscardsOversizedStream(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	v, err := NewFS(dir)
	require.NoError(t, err)

	// Declared size is fine but the stream itself exceeds the cap.
	big := io.MultiReader(
		bytes.NewReader(bytes.Repeat([]byte("a"), MaxFileSize)),
		strings.NewReader("overflow"),
	)
	_, err = v.Store(ctx, big, "big.png", "image/png", 1024)
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial bytes must be discarded")
}

func TestFSVault_StoreOversizedDeclaredSize(t *testing.T) {
	ctx := context.Background()
	v, err := NewFS(t.TempDir())
	require.NoError(t, err)

	_, err = v.Store(ctx, strings.NewReader("x"), "big.png", "image/png", MaxFileSize+1)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFSVault_OpenMissing(t *testing.T) {
	ctx := context.Background()
	v, err := NewFS(t.TempDir())
	require.NoError(t, err)

	_, _, err = v.Open(ctx, "nope.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSVault_DeleteMissingIsNoError(t *testing.T) {
	ctx := context.Background()
	v, err := NewFS(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, v.Delete(ctx, "gone.png"))
}

func TestFSVault_DeleteRemovesFile(t *testing.T) {
	ctx := context.Background()
	v, err := NewFS(t.TempDir())
	require.NoError(t, err)

	path, err := v.Store(ctx, strings.NewReader("content"), "doc.pdf", "application/pdf", 7)
	require.NoError(t, err)
	require.True(t, v.Exists(ctx, path))

	assert.NoError(t, v.Delete(ctx, path))
	assert.False(t, v.Exists(ctx, path))
}

func TestFSVault_List(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	v, err := NewFS(dir)
	require.NoError(t, err)

	p1, err := v.Store(ctx, strings.NewReader("a"), "a.jpg", "image/jpeg", 1)
	require.NoError(t, err)
	p2, err := v.Store(ctx, strings.NewReader("b"), "b.pdf", "application/pdf", 1)
	require.NoError(t, err)

	// Subdirectories are not part of the flat vault layout.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	paths, err := v.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{p1, p2}, paths)
}

func TestFSVault_PathEscapeRejected(t *testing.T) {
	ctx := context.Background()
	v, err := NewFS(t.TempDir())
	require.NoError(t, err)

	_, _, err = v.Open(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, v.Exists(ctx, "../secrets"))
}
