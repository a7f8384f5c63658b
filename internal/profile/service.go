package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mbriggs/band-management-backend/internal/auditlog"
)

type Service interface {
	Create(ctx context.Context, req *CreateProfileRequest, userID uuid.UUID, identityEmail string, ip string) (*Profile, error)
	Get(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Update(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Profile, error)
	EnsureExists(ctx context.Context, userID uuid.UUID, email, displayName string) (*Profile, error)
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(repo Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, auditSvc: auditSvc}
}

// ===========================
// 🎯 Create Profile (explicit create for the calling user)
func (s *service) Create(ctx context.Context, req *CreateProfileRequest, userID uuid.UUID, identityEmail string, ip string) (*Profile, error) {
	// A profile is always the caller's own; the email has to be the one
	// the identity provider vouched for.
	if !strings.EqualFold(req.Email, identityEmail) {
		return nil, ErrEmailMismatch
	}

	if _, err := s.repo.GetByID(ctx, userID); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// Friendly pre-check; the unique index still catches races below
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		s.auditSvc.LogAction(ctx, &userID, nil, "PROFILE_CREATED",
			map[string]interface{}{"email": req.Email, "error": "email already registered"},
			ip, "failure")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	p := &Profile{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.auditSvc.LogAction(ctx, &userID, nil, "PROFILE_CREATED",
				map[string]interface{}{"email": req.Email, "error": "email already registered"},
				ip, "failure")
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.auditSvc.LogAction(ctx, &userID, nil, "PROFILE_CREATED",
		map[string]interface{}{"email": p.Email, "display_name": p.DisplayName},
		ip, "success")

	return p, nil
}

// ===========================
// 🔍 Get Profile
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return s.repo.GetByID(ctx, userID)
}

// ===========================
// 🛠 Update Profile (partial)
func (s *service) Update(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		p.DisplayName = *req.DisplayName
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ===========================
// 🔁 EnsureExists provisions a profile from identity claims on first
// contact. Idempotent: an existing profile is returned untouched.
func (s *service) EnsureExists(ctx context.Context, userID uuid.UUID, email, displayName string) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if displayName == "" {
		// Fall back to the local part of the email
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	p = &Profile{
		UserID:      userID,
		DisplayName: displayName,
		Email:       email,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		// A concurrent first request may have provisioned it already
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.repo.GetByID(ctx, userID)
		}
		return nil, err
	}

	return p, nil
}
