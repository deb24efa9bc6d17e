package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"memberdocs/internal/model"
	"memberdocs/internal/repository"
	"memberdocs/internal/vault"
)

// CascadeResult reports the outcome of a cascading delete: how many document
// records were removed and which stored files could not be deleted.
type CascadeResult struct {
	Deleted     int      `json:"deleted"`
	FailedFiles []string `json:"failed_files,omitempty"`
}

// DocumentService defines the use cases for scanned-document handling.
type DocumentService interface {
	// Upload validates and stores the file in the vault, then records the
	// document. The stored file is removed again if the record cannot be
	// written. An empty title defaults to "Document"; unknown doc types are
	// coerced to "other".
	Upload(ctx context.Context, memberID int64, r io.Reader, originalName, contentType string, size int64, title, docType string) (*model.Document, error)

	// Get returns a single document by ID.
	Get(ctx context.Context, id int64) (*model.Document, error)

	// ListForMember returns a member's documents, newest first.
	ListForMember(ctx context.Context, memberID int64) ([]model.Document, error)

	// Delete removes the record and best-effort deletes the stored file.
	Delete(ctx context.Context, id int64) error

	// DeleteAllForMember removes every document of a member, files first.
	DeleteAllForMember(ctx context.Context, memberID int64) (*CascadeResult, error)
}

type documentService struct {
	repo    repository.DocumentRepository
	members repository.MemberRepository
	vault   vault.Vault
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(repo repository.DocumentRepository, members repository.MemberRepository, v vault.Vault) DocumentService {
	return &documentService{repo: repo, members: members, vault: v}
}

func (s *documentService) Upload(ctx context.Context, memberID int64, r io.Reader, originalName, contentType string, size int64, title, docType string) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if _, err := s.members.FindByID(ctx, memberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	path, err := s.vault.Store(ctx, r, originalName, contentType, size)
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = "Document"
	}
	now := time.Now().UTC()
	doc := &model.Document{
		MemberID:  memberID,
		Title:     title,
		FilePath:  path,
		DocType:   model.NormalizeDocType(docType),
		CreatedAt: now,
		UpdatedAt: now,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Do not leave an orphaned file behind.
		if delErr := s.vault.Delete(ctx, path); delErr != nil {
			logEvent("warn", "document_upload_rollback_failed", map[string]any{
				"path":  path,
				"error": delErr.Error(),
			})
		}
		return nil, fmt.Errorf("create document: %w", err)
	}
	return stored, nil
}

func (s *documentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) ListForMember(ctx context.Context, memberID int64) ([]model.Document, error) {
	if _, err := s.members.FindByID(ctx, memberID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return s.repo.ListByMember(ctx, memberID)
}

func (s *documentService) Delete(ctx context.Context, id int64) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDocumentNotFound
		}
		return err
	}

	// A missing or undeletable file must not block removing the record.
	if err := s.vault.Delete(ctx, doc.FilePath); err != nil && !errors.Is(err, vault.ErrNotFound) {
		logEvent("warn", "document_file_delete_failed", map[string]any{
			"document_id": doc.ID,
			"path":        doc.FilePath,
			"error":       err.Error(),
		})
	}
	return s.repo.Delete(ctx, id)
}

func (s *documentService) DeleteAllForMember(ctx context.Context, memberID int64) (*CascadeResult, error) {
	docs, err := s.repo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	res := &CascadeResult{}
	for _, doc := range docs {
		if err := s.vault.Delete(ctx, doc.FilePath); err != nil && !errors.Is(err, vault.ErrNotFound) {
			logEvent("warn", "document_file_delete_failed", map[string]any{
				"document_id": doc.ID,
				"path":        doc.FilePath,
				"error":       err.Error(),
			})
			res.FailedFiles = append(res.FailedFiles, doc.FilePath)
		}
	}
	if err := s.repo.DeleteByMember(ctx, memberID); err != nil {
		return nil, fmt.Errorf("delete documents: %w", err)
	}
	res.Deleted = len(docs)
	return res, nil
}
