package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"memberdocs/internal/config"
	"memberdocs/internal/model"
	"memberdocs/internal/repository"
)

const tokenTTL = 5 * time.Hour

// AuthService handles admin credentials, tokens and the recovery flows.
type AuthService interface {
	// EnsureDefaultAdmin seeds the configured admin account when no admin
	// exists yet. Safe to call on every start.
	EnsureDefaultAdmin(ctx context.Context) error

	// Login verifies the credentials and issues a signed token. The second
	// return value signals that the account has no security question yet.
	Login(ctx context.Context, username, password string) (string, bool, error)

	// ChangePassword replaces the password after checking the current one.
	ChangePassword(ctx context.Context, adminID int64, current, next string) error

	// SetSecurity stores the recovery question and its hashed answer.
	SetSecurity(ctx context.Context, adminID int64, question, answer string) error

	// SecurityQuestion returns the stored question for a username.
	SecurityQuestion(ctx context.Context, username string) (string, error)

	// VerifySecurityAndReset checks the answer and, on match, sets the new
	// password.
	VerifySecurityAndReset(ctx context.Context, username, answer, newPassword string) error

	// EmergencyReset resets the password when the recovery key matches the
	// configured one.
	EmergencyReset(ctx context.Context, username, recoveryKey, newPassword string) error

	// ParseToken validates a token and returns its admin claims.
	ParseToken(token string) (int64, string, error)
}

type authService struct {
	repo repository.AdminRepository
	cfg  config.AuthConfig
}

// NewAuthService constructs a new AuthService.
func NewAuthService(repo repository.AdminRepository, cfg config.AuthConfig) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) EnsureDefaultAdmin(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	admin := &model.Admin{
		Username:     s.cfg.AdminUsername,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logEvent("info", "default_admin_created", map[string]any{"username": s.cfg.AdminUsername})
	return nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, bool, error) {
	admin, err := s.findByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return "", false, ErrInvalidCredentials
		}
		return "", false, err
	}
	if bcrypt.CompareHashAndPassword(admin.PasswordHash, []byte(password)) != nil {
		return "", false, ErrInvalidCredentials
	}

	token, err := s.signToken(admin)
	if err != nil {
		return "", false, err
	}
	needsSetup := admin.SecurityQuestion == nil || *admin.SecurityQuestion == ""
	return token, needsSetup, nil
}

func (s *authService) ChangePassword(ctx context.Context, adminID int64, current, next string) error {
	admin, err := s.findByID(ctx, adminID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword(admin.PasswordHash, []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	return s.setPassword(ctx, admin, next)
}

func (s *authService) SetSecurity(ctx context.Context, adminID int64, question, answer string) error {
	admin, err := s.findByID(ctx, adminID)
	if err != nil {
		return err
	}
	// Answers are matched case-insensitively, so normalize before hashing.
	hash, err := bcrypt.GenerateFromPassword([]byte(strings.ToLower(answer)), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash answer: %w", err)
	}
	admin.SecurityQuestion = &question
	admin.SecurityAnswer = hash
	admin.UpdatedAt = time.Now().UTC()
	if _, err := s.repo.Update(ctx, admin); err != nil {
		return fmt.Errorf("update admin: %w", err)
	}
	return nil
}

func (s *authService) SecurityQuestion(ctx context.Context, username string) (string, error) {
	admin, err := s.findByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if admin.SecurityQuestion == nil || *admin.SecurityQuestion == "" {
		return "", ErrSecurityNotSet
	}
	return *admin.SecurityQuestion, nil
}

func (s *authService) VerifySecurityAndReset(ctx context.Context, username, answer, newPassword string) error {
	admin, err := s.findByUsername(ctx, username)
	if err != nil {
		return err
	}
	if len(admin.SecurityAnswer) == 0 {
		return ErrSecurityNotSet
	}
	if bcrypt.CompareHashAndPassword(admin.SecurityAnswer, []byte(strings.ToLower(answer))) != nil {
		return ErrIncorrectAnswer
	}
	return s.setPassword(ctx, admin, newPassword)
}

func (s *authService) EmergencyReset(ctx context.Context, username, recoveryKey, newPassword string) error {
	if s.cfg.RecoveryKey == "" || recoveryKey != s.cfg.RecoveryKey {
		return ErrInvalidRecoveryKey
	}
	admin, err := s.findByUsername(ctx, username)
	if err != nil {
		return err
	}
	logEvent("warn", "emergency_password_reset", map[string]any{"username": username})
	return s.setPassword(ctx, admin, newPassword)
}

func (s *authService) ParseToken(token string) (int64, string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return 0, "", ErrInvalidCredentials
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidCredentials
	}
	id, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", ErrInvalidCredentials
	}
	username, _ := claims["username"].(string)
	return int64(id), username, nil
}

func (s *authService) signToken(admin *model.Admin) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      admin.ID,
		"username": admin.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) setPassword(ctx context.Context, admin *model.Admin, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin.PasswordHash = hash
	admin.UpdatedAt = time.Now().UTC()
	if _, err := s.repo.Update(ctx, admin); err != nil {
		return fmt.Errorf("update admin: %w", err)
	}
	return nil
}

func (s *authService) findByID(ctx context.Context, id int64) (*model.Admin, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}

func (s *authService) findByUsername(ctx context.Context, username string) (*model.Admin, error) {
	admin, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}
