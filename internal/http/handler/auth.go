package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"memberdocs/internal/http/middleware"
	"memberdocs/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type setSecurityRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type verifySecurityRequest struct {
	Username    string `json:"username"`
	Answer      string `json:"answer"`
	NewPassword string `json:"newPassword"`
}

type emergencyResetRequest struct {
	Username    string `json:"username"`
	RecoveryKey string `json:"recoveryKey"`
	NewPassword string `json:"newPassword"`
}

// Login checks credentials and returns a bearer token.
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil || req.Username == "" || req.Password == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "username and password are required")
		}

		token, needsSetup, err := svc.Login(c.UserContext(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		return c.JSON(fiber.Map{
			"token":              token,
			"needsSecuritySetup": needsSetup,
		})
	}
}

// ChangePassword replaces the authenticated admin's password.
func ChangePassword(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req changePasswordRequest
		if err := c.BodyParser(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "current and new password are required")
		}

		adminID, _ := c.Locals(middleware.AdminIDLocalKey).(int64)
		if err := svc.ChangePassword(c.UserContext(), adminID, req.CurrentPassword, req.NewPassword); err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "current password is incorrect")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"message": "password changed"})
	}
}

// SetSecurity stores the authenticated admin's recovery question and answer.
func SetSecurity(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req setSecurityRequest
		if err := c.BodyParser(&req); err != nil || req.Question == "" || req.Answer == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "question and answer are required")
		}

		adminID, _ := c.Locals(middleware.AdminIDLocalKey).(int64)
		if err := svc.SetSecurity(c.UserContext(), adminID, req.Question, req.Answer); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"message": "security question set"})
	}
}

// SecurityQuestion returns the stored recovery question for a username.
func SecurityQuestion(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username := c.Query("username")
		if username == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "username is required")
		}

		q, err := svc.SecurityQuestion(c.UserContext(), username)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrAdminNotFound), errors.Is(err, service.ErrSecurityNotSet):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "no security question available")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(fiber.Map{"question": q})
	}
}

// VerifySecurity checks the recovery answer and resets the password on match.
func VerifySecurity(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req verifySecurityRequest
		if err := c.BodyParser(&req); err != nil || req.Username == "" || req.Answer == "" || req.NewPassword == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "username, answer and new password are required")
		}

		err := svc.VerifySecurityAndReset(c.UserContext(), req.Username, req.Answer, req.NewPassword)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrAdminNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "account not found")
			case errors.Is(err, service.ErrSecurityNotSet):
				return writeError(c, fiber.StatusBadRequest, "SECURITY_NOT_SET", "no security question configured")
			case errors.Is(err, service.ErrIncorrectAnswer):
				return writeError(c, fiber.StatusUnauthorized, "INCORRECT_ANSWER", "security answer is incorrect")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(fiber.Map{"message": "password reset"})
	}
}

// EmergencyReset resets a password using the configured recovery key.
func EmergencyReset(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req emergencyResetRequest
		if err := c.BodyParser(&req); err != nil || req.Username == "" || req.NewPassword == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "username and new password are required")
		}

		err := svc.EmergencyReset(c.UserContext(), req.Username, req.RecoveryKey, req.NewPassword)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidRecoveryKey):
				return writeError(c, fiber.StatusUnauthorized, "INVALID_RECOVERY_KEY", "recovery key is invalid")
			case errors.Is(err, service.ErrAdminNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "account not found")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(fiber.Map{"message": "password reset"})
	}
}
