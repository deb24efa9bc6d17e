package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"memberdocs/internal/model"
	"memberdocs/internal/service"
)

// parseID parses a positive int64 route parameter.
func parseID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// CreateMember registers a new member from a JSON body of optional fields.
func CreateMember(svc service.MemberService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var attrs model.MemberAttrs
		if err := c.BodyParser(&attrs); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		m, err := svc.Create(c.UserContext(), attrs)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

// ListMembers returns every member, newest first.
func ListMembers(svc service.MemberService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		members, err := svc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(members)
	}
}

// GetMember returns a single member by ID.
func GetMember(svc service.MemberService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		m, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrMemberNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "member not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(m)
	}
}

// UpdateMember applies a partial update; empty fields leave stored values alone.
func UpdateMember(svc service.MemberService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var attrs model.MemberAttrs
		if err := c.BodyParser(&attrs); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		m, err := svc.Update(c.UserContext(), id, attrs)
		if err != nil {
			if errors.Is(err, service.ErrMemberNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "member not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(m)
	}
}

// DeleteMember removes the member along with its documents and files.
func DeleteMember(svc service.MemberService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		res, err := svc.Delete(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrMemberNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "member not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}
