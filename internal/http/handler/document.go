package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"memberdocs/internal/service"
	"memberdocs/internal/vault"
)

// UploadDocument stores a scanned document for a member.
// Expects multipart/form-data with field "document" plus optional "title"
// and "docType" fields.
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		fh, err := c.FormFile("document")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "document file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := svc.Upload(c.UserContext(), id, f, fh.Filename, ct, fh.Size,
			c.FormValue("title"), c.FormValue("docType"))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrMemberNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "member not found")
			case errors.Is(err, vault.ErrDisallowedType):
				return writeError(c, fiber.StatusBadRequest, "INVALID_FILE_TYPE", "only image and pdf files are allowed")
			case errors.Is(err, vault.ErrTooLarge):
				return writeError(c, fiber.StatusBadRequest, "FILE_TOO_LARGE", "file exceeds the size limit")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListMemberDocuments returns a member's documents, newest first.
func ListMemberDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		docs, err := svc.ListForMember(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrMemberNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "member not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(docs)
	}
}

// DeleteDocument removes a single document record and its stored file.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrDocumentNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
