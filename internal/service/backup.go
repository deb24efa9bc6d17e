package service

import (
	"archive/zip"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/klauspost/compress/flate"

	"memberdocs/internal/database"
	"memberdocs/internal/model"
	"memberdocs/internal/repository"
	"memberdocs/internal/vault"
)

// RawSnapshot is the JSON shape of a database export. Credential hashes are
// excluded by the model's marshalling rules.
type RawSnapshot struct {
	ExportDate string           `json:"exportDate"`
	Members    []model.Member   `json:"members"`
	Documents  []model.Document `json:"documents"`
	Admins     []model.Admin    `json:"admins"`
}

// BackupService produces the export artifacts: raw JSON snapshots, the
// storage file itself, archives of the vault, and per-member bundles.
type BackupService interface {
	// BuildRawSnapshot collects all records into an export structure.
	BuildRawSnapshot(ctx context.Context) (*RawSnapshot, error)

	// WriteRawSnapshot streams a built snapshot as indented JSON to w.
	WriteRawSnapshot(snap *RawSnapshot, w io.Writer) error

	// OpenStorageFile opens the underlying database file for download.
	// Returns ErrStorageFileUnavailable when the configured driver does not
	// keep its data in a single local file.
	OpenStorageFile(ctx context.Context) (io.ReadCloser, string, error)

	// WriteFilesArchive streams a zip of every vault file to w, each entry
	// placed under a top-level "uploads/" folder.
	WriteFilesArchive(ctx context.Context, w io.Writer) error

	// WriteFullBundle streams a zip combining the storage file and all
	// vault files to w. The storage-file entry is skipped when the
	// configured driver does not keep its data in a single local file.
	WriteFullBundle(ctx context.Context, w io.Writer) error

	// PrepareMemberBundle resolves a member and its documents ahead of
	// streaming, so missing members and empty document sets can be
	// reported before any bytes are written.
	PrepareMemberBundle(ctx context.Context, memberID int64) (*model.Member, []model.Document, error)

	// WriteMemberBundle streams a zip of the given documents to w, entries
	// named after each document's type.
	WriteMemberBundle(ctx context.Context, docs []model.Document, w io.Writer) error
}

type backupService struct {
	members repository.MemberRepository
	docs    repository.DocumentRepository
	admins  repository.AdminRepository
	vault   vault.Vault
	db      database.Info
}

// NewBackupService constructs a new BackupService.
func NewBackupService(members repository.MemberRepository, docs repository.DocumentRepository, admins repository.AdminRepository, v vault.Vault, db database.Info) BackupService {
	return &backupService{members: members, docs: docs, admins: admins, vault: v, db: db}
}

// newZipWriter returns a zip writer with deflate at maximum compression.
func newZipWriter(w io.Writer) *zip.Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})
	return zw
}

func (s *backupService) BuildRawSnapshot(ctx context.Context) (*RawSnapshot, error) {
	members, err := s.members.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	docs, err := s.docs.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return &RawSnapshot{
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		Members:    members,
		Documents:  docs,
		Admins:     admins,
	}, nil
}

func (s *backupService) WriteRawSnapshot(snap *RawSnapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func (s *backupService) OpenStorageFile(ctx context.Context) (io.ReadCloser, string, error) {
	if s.db.FilePath == "" {
		return nil, "", ErrStorageFileUnavailable
	}
	f, err := os.Open(s.db.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrStorageFileUnavailable
		}
		return nil, "", fmt.Errorf("open storage file: %w", err)
	}
	return f, s.db.FilePath, nil
}

func (s *backupService) WriteFilesArchive(ctx context.Context, w io.Writer) error {
	zw := newZipWriter(w)
	if err := s.addVaultFiles(ctx, zw); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func (s *backupService) WriteFullBundle(ctx context.Context, w io.Writer) error {
	zw := newZipWriter(w)

	rc, _, err := s.OpenStorageFile(ctx)
	switch {
	case errors.Is(err, ErrStorageFileUnavailable):
		// Server-backed databases carry no single file; the bundle then
		// holds the vault files only.
	case err != nil:
		zw.Close()
		return err
	default:
		entry, cerr := zw.Create("database.sqlite")
		if cerr == nil {
			_, cerr = io.Copy(entry, rc)
		}
		rc.Close()
		if cerr != nil {
			zw.Close()
			return fmt.Errorf("archive storage file: %w", cerr)
		}
	}

	if err := s.addVaultFiles(ctx, zw); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// addVaultFiles copies every vault object into the archive under "uploads/".
// Objects that disappear between listing and reading are skipped.
func (s *backupService) addVaultFiles(ctx context.Context, zw *zip.Writer) error {
	paths, err := s.vault.List(ctx)
	if err != nil {
		return fmt.Errorf("list vault: %w", err)
	}
	for _, p := range paths {
		rc, _, err := s.vault.Open(ctx, p)
		if err != nil {
			if errors.Is(err, vault.ErrNotFound) {
				continue
			}
			return fmt.Errorf("open %s: %w", p, err)
		}
		entry, err := zw.Create("uploads/" + p)
		if err != nil {
			rc.Close()
			return err
		}
		if _, err := io.Copy(entry, rc); err != nil {
			rc.Close()
			return fmt.Errorf("archive %s: %w", p, err)
		}
		rc.Close()
	}
	return nil
}

func (s *backupService) PrepareMemberBundle(ctx context.Context, memberID int64) (*model.Member, []model.Document, error) {
	m, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrMemberNotFound
		}
		return nil, nil, err
	}
	docs, err := s.docs.ListByMember(ctx, memberID)
	if err != nil {
		return nil, nil, err
	}
	if len(docs) == 0 {
		return nil, nil, ErrNoDocuments
	}
	return m, docs, nil
}

func (s *backupService) WriteMemberBundle(ctx context.Context, docs []model.Document, w io.Writer) error {
	zw := newZipWriter(w)
	for _, doc := range docs {
		rc, _, err := s.vault.Open(ctx, doc.FilePath)
		if err != nil {
			if errors.Is(err, vault.ErrNotFound) {
				continue
			}
			zw.Close()
			return fmt.Errorf("open %s: %w", doc.FilePath, err)
		}
		// Entry names keep the document type plus the stored extension.
		// Documents sharing a type produce colliding names, which the zip
		// format tolerates.
		entry, err := zw.Create(string(doc.DocType) + path.Ext(doc.FilePath))
		if err != nil {
			rc.Close()
			zw.Close()
			return err
		}
		if _, err := io.Copy(entry, rc); err != nil {
			rc.Close()
			zw.Close()
			return fmt.Errorf("archive %s: %w", doc.FilePath, err)
		}
		rc.Close()
	}
	return zw.Close()
}
