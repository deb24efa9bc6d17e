package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"memberdocs/internal/model"
	"memberdocs/internal/repository"
)

// MemberService defines the use cases for managing member identity records.
type MemberService interface {
	// Create assigns a new id and persists the provided optional fields as
	// given; unspecified fields stay null.
	Create(ctx context.Context, attrs model.MemberAttrs) (*model.Member, error)

	// Update overwrites stored values only for fields that arrive non-empty.
	// An empty or absent field is treated as "no change", so a value can
	// never be cleared through Update. Longstanding behavior, kept as is.
	Update(ctx context.Context, id int64, attrs model.MemberAttrs) (*model.Member, error)

	// Get returns a single member by ID.
	Get(ctx context.Context, id int64) (*model.Member, error)

	// List returns all members, most recently created first.
	List(ctx context.Context) ([]model.Member, error)

	// Delete removes the member after cascading to its documents and their
	// stored files. The returned CascadeResult reports files whose deletion
	// failed; the records are removed regardless.
	Delete(ctx context.Context, id int64) (*CascadeResult, error)
}

type memberService struct {
	repo repository.MemberRepository
	docs DocumentService
}

// NewMemberService constructs a new MemberService.
func NewMemberService(repo repository.MemberRepository, docs DocumentService) MemberService {
	return &memberService{repo: repo, docs: docs}
}

func (s *memberService) Create(ctx context.Context, attrs model.MemberAttrs) (*model.Member, error) {
	now := time.Now().UTC()
	m := &model.Member{
		CustomID:          attrs.CustomID,
		Name:              attrs.Name,
		Email:             attrs.Email,
		Address:           attrs.Address,
		Phone:             attrs.Phone,
		PANNumber:         attrs.PANNumber,
		CitizenshipNumber: attrs.CitizenshipNumber,
		NIDNumber:         attrs.NIDNumber,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	stored, err := s.repo.Create(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	return stored, nil
}

func (s *memberService) Update(ctx context.Context, id int64, attrs model.MemberAttrs) (*model.Member, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	applyIfSet(&m.CustomID, attrs.CustomID)
	applyIfSet(&m.Name, attrs.Name)
	applyIfSet(&m.Email, attrs.Email)
	applyIfSet(&m.Address, attrs.Address)
	applyIfSet(&m.Phone, attrs.Phone)
	applyIfSet(&m.PANNumber, attrs.PANNumber)
	applyIfSet(&m.CitizenshipNumber, attrs.CitizenshipNumber)
	applyIfSet(&m.NIDNumber, attrs.NIDNumber)
	m.UpdatedAt = time.Now().UTC()

	stored, err := s.repo.Update(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return stored, nil
}

// applyIfSet overwrites dst only when the incoming value is present and
// non-empty. Empty strings deliberately fall through.
func applyIfSet(dst **string, v *string) {
	if v != nil && *v != "" {
		*dst = v
	}
}

func (s *memberService) Get(ctx context.Context, id int64) (*model.Member, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *memberService) List(ctx context.Context) ([]model.Member, error) {
	return s.repo.List(ctx)
}

func (s *memberService) Delete(ctx context.Context, id int64) (*CascadeResult, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	// Cascade first; file-deletion failures are reported, never fatal.
	res, err := s.docs.DeleteAllForMember(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cascade documents: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete member: %w", err)
	}
	return res, nil
}
