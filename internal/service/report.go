package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"memberdocs/internal/model"
	"memberdocs/internal/repository"
)

// ReportService renders printable member profiles.
type ReportService interface {
	// Generate writes a PDF profile of the member to w and returns the
	// member so callers can derive a download filename.
	Generate(ctx context.Context, memberID int64, w io.Writer) (*model.Member, error)
}

type reportService struct {
	members repository.MemberRepository
	docs    repository.DocumentRepository
}

// NewReportService constructs a new ReportService.
func NewReportService(members repository.MemberRepository, docs repository.DocumentRepository) ReportService {
	return &reportService{members: members, docs: docs}
}

func (s *reportService) Generate(ctx context.Context, memberID int64, w io.Writer) (*model.Member, error) {
	m, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	docs, err := s.docs.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 12, "Member Profile", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated: "+time.Now().Format("1/2/2006"), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, "Personal Information", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	profileRow(pdf, "Member ID", m.CustomID)
	profileRow(pdf, "Name", m.Name)
	profileRow(pdf, "Email", m.Email)
	profileRow(pdf, "Address", m.Address)
	profileRow(pdf, "Phone", m.Phone)
	profileRow(pdf, "PAN Number", m.PANNumber)
	profileRow(pdf, "Citizenship Number", m.CitizenshipNumber)
	profileRow(pdf, "NID Number", m.NIDNumber)
	since := m.CreatedAt.Format("1/2/2006")
	profileRow(pdf, "Member Since", &since)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, "Documents", "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 12)
	if len(docs) == 0 {
		pdf.CellFormat(0, 7, "No documents uploaded", "", 1, "L", false, 0, "")
	} else {
		for i, doc := range docs {
			line := fmt.Sprintf("%d. %s - Uploaded: %s", i+1, doc.DocType, doc.CreatedAt.Format("1/2/2006"))
			pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
		}
	}

	pdf.SetY(-25)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, "This is a computer-generated document.", "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return nil, fmt.Errorf("render profile: %w", err)
	}
	return m, nil
}

// profileRow prints a label/value pair, substituting "N/A" for missing values.
func profileRow(pdf *fpdf.Fpdf, label string, value *string) {
	v := "N/A"
	if value != nil && *value != "" {
		v = *value
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(55, 7, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, v, "", 1, "L", false, 0, "")
}
