package model

import "time"

// DocType classifies a scanned document.
type DocType string

const (
	DocTypePhoto            DocType = "photo"
	DocTypeCitizenshipFront DocType = "citizenship_front"
	DocTypeCitizenshipBack  DocType = "citizenship_back"
	DocTypeNID              DocType = "nid"
	DocTypePAN              DocType = "pan"
	DocTypeOther            DocType = "other"
)

// NormalizeDocType coerces any value outside the known set to DocTypeOther.
// Unknown values are accepted, not rejected.
func NormalizeDocType(s string) DocType {
	switch DocType(s) {
	case DocTypePhoto, DocTypeCitizenshipFront, DocTypeCitizenshipBack, DocTypeNID, DocTypePAN, DocTypeOther:
		return DocType(s)
	default:
		return DocTypeOther
	}
}

// Document associates a member with one stored file in the vault.
// FilePath is relative to the vault root and points at a file that existed
// when the record was created.
type Document struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"memberId"`
	Title     string    `json:"title"`
	FilePath  string    `json:"filePath"`
	DocType   DocType   `json:"docType"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
