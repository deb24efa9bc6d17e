package handler

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"memberdocs/internal/model"
	"memberdocs/internal/service"
)

func attachment(c *fiber.Ctx, filename, contentType string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
}

// bundleBaseName derives a filename-safe member name for download bundles.
func bundleBaseName(m *model.Member) string {
	if m.Name == nil || *m.Name == "" {
		return "member"
	}
	return strings.Join(strings.Fields(*m.Name), "_")
}

// ExportDatabase streams the full record snapshot as pretty-printed JSON.
// The snapshot is collected before any headers go out, so query failures
// still produce an error response.
func ExportDatabase(svc service.BackupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := svc.BuildRawSnapshot(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		attachment(c, fmt.Sprintf("database-backup-%d.json", time.Now().UnixMilli()), fiber.MIMEApplicationJSON)

		rid := requestIDFromCtx(c)
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			if err := svc.WriteRawSnapshot(snap, w); err != nil {
				logStreamError(rid, "database_export_failed", err)
			}
		})
		return nil
	}
}

// DownloadStorageFile serves the raw database file when the configured
// driver keeps its data in one local file.
func DownloadStorageFile(svc service.BackupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, _, err := svc.OpenStorageFile(c.UserContext())
		if err != nil {
			if errors.Is(err, service.ErrStorageFileUnavailable) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "storage file not available")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		attachment(c, fmt.Sprintf("database-backup-%d.sqlite", time.Now().UnixMilli()), fiber.MIMEOctetStream)
		return c.SendStream(rc)
	}
}

// DownloadFilesArchive streams a zip of every stored file.
func DownloadFilesArchive(svc service.BackupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		attachment(c, fmt.Sprintf("files-backup-%d.zip", time.Now().UnixMilli()), "application/zip")

		ctx := c.UserContext()
		rid := requestIDFromCtx(c)
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			if err := svc.WriteFilesArchive(ctx, w); err != nil {
				logStreamError(rid, "files_archive_failed", err)
			}
		})
		return nil
	}
}

// DownloadFullBundle streams a zip combining the storage file and all files.
func DownloadFullBundle(svc service.BackupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		attachment(c, fmt.Sprintf("full-backup-%d.zip", time.Now().UnixMilli()), "application/zip")

		ctx := c.UserContext()
		rid := requestIDFromCtx(c)
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			if err := svc.WriteFullBundle(ctx, w); err != nil {
				logStreamError(rid, "full_bundle_failed", err)
			}
		})
		return nil
	}
}

// DownloadMemberBundle streams a zip of one member's documents. Missing
// members and empty document sets are rejected before streaming starts.
func DownloadMemberBundle(svc service.BackupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		m, docs, err := svc.PrepareMemberBundle(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrMemberNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "member not found")
			case errors.Is(err, service.ErrNoDocuments):
				return writeError(c, fiber.StatusNotFound, "NO_DOCUMENTS", "member has no documents")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		attachment(c, fmt.Sprintf("%s-documents-%d.zip", bundleBaseName(m), time.Now().UnixMilli()), "application/zip")

		ctx := c.UserContext()
		rid := requestIDFromCtx(c)
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			if err := svc.WriteMemberBundle(ctx, docs, w); err != nil {
				logStreamError(rid, "member_bundle_failed", err)
			}
		})
		return nil
	}
}

// MemberProfilePDF renders and serves the member's profile report.
func MemberProfilePDF(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var buf bytes.Buffer
		m, err := svc.Generate(c.UserContext(), id, &buf)
		if err != nil {
			if errors.Is(err, service.ErrMemberNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "member not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		attachment(c, fmt.Sprintf("%s-profile-%d.pdf", bundleBaseName(m), time.Now().UnixMilli()), "application/pdf")
		return c.Send(buf.Bytes())
	}
}
