package service

import "errors"

var (
	ErrIDRequired       = errors.New("id is required")
	ErrMemberNotFound   = errors.New("member not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrNoDocuments      = errors.New("no documents found")
	ErrReaderNil        = errors.New("reader is nil")

	// ErrStorageFileUnavailable reports that the configured backend has no
	// single database file to export (non-file backend or missing file).
	ErrStorageFileUnavailable = errors.New("database file not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrSecurityNotSet     = errors.New("security question not set")
	ErrIncorrectAnswer    = errors.New("incorrect security answer")
	ErrInvalidRecoveryKey = errors.New("invalid recovery key")
)
