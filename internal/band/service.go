package band

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mbriggs/band-management-backend/internal/auditlog"
	"github.com/mbriggs/band-management-backend/internal/notification"
	"github.com/mbriggs/band-management-backend/middleware"
)

type Service interface {
	Create(ctx context.Context, identity middleware.Identity, req CreateBandRequest, ip string) (*Band, error)
	Get(ctx context.Context, bandID, userID uuid.UUID) (*Band, error)
	Update(ctx context.Context, identity middleware.Identity, bandID uuid.UUID, req UpdateBandRequest, ip string) (*Band, error)
	Delete(ctx context.Context, identity middleware.Identity, bandID uuid.UUID, ip string) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Band, error)
	Join(ctx context.Context, identity middleware.Identity, code, ip string) (*Membership, error)
	Leave(ctx context.Context, identity middleware.Identity, bandID uuid.UUID, ip string) error
	Members(ctx context.Context, bandID, userID uuid.UUID) ([]Member, error)
	UpdateMemberRole(ctx context.Context, identity middleware.Identity, bandID, memberID uuid.UUID, role, ip string) error
	RemoveMember(ctx context.Context, identity middleware.Identity, bandID, memberID uuid.UUID, ip string) error
	RequireMember(ctx context.Context, bandID, userID uuid.UUID) error
	RequireLeader(ctx context.Context, bandID, userID uuid.UUID) error
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
	notifSvc notification.Service
}

func NewService(repo Repository, auditSvc auditlog.Service, notifSvc notification.Service) Service {
	return &service{repo: repo, auditSvc: auditSvc, notifSvc: notifSvc}
}

// newJoinCode returns an 11-character URL-safe code from 8 random bytes.
func newJoinCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate join code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ===========================
// 🎯 Create a band with the caller as leader
func (s *service) Create(ctx context.Context, identity middleware.Identity, req CreateBandRequest, ip string) (*Band, error) {
	timezone := req.Timezone
	if timezone == "" {
		timezone = "America/New_York"
	}

	b := &Band{
		ID:        uuid.New(),
		Name:      req.Name,
		Timezone:  timezone,
		CreatedBy: identity.UserID,
	}

	// A join code collision is astronomically unlikely but the column is
	// unique, so retry a couple of times anyway.
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		b.JoinCode, err = newJoinCode()
		if err != nil {
			return nil, err
		}
		err = s.repo.CreateWithLeader(ctx, b, identity.UserID)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.audit(ctx, identity.UserID, b.ID, "BAND_CREATED", map[string]interface{}{
		"name": b.Name,
	}, ip, "success")
	return b, nil
}

// ===========================
// 🔍 Get a band, members only
// Non-members get ErrForbidden even when the band exists: membership is
// checked after the fetch so a missing band still reads as not found.
func (s *service) Get(ctx context.Context, bandID, userID uuid.UUID) (*Band, error) {
	b, err := s.repo.GetByID(ctx, bandID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireMember(ctx, bandID, userID); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, identity middleware.Identity, bandID uuid.UUID, req UpdateBandRequest, ip string) (*Band, error) {
	b, err := s.repo.GetByID(ctx, bandID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireLeader(ctx, bandID, identity.UserID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.Timezone != nil {
		b.Timezone = *req.Timezone
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.audit(ctx, identity.UserID, bandID, "BAND_UPDATED", map[string]interface{}{
		"name": b.Name,
	}, ip, "success")
	return b, nil
}

func (s *service) Delete(ctx context.Context, identity middleware.Identity, bandID uuid.UUID, ip string) error {
	b, err := s.repo.GetByID(ctx, bandID)
	if err != nil {
		return err
	}
	if err := s.RequireLeader(ctx, bandID, identity.UserID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, bandID); err != nil {
		return err
	}

	s.audit(ctx, identity.UserID, bandID, "BAND_DELETED", map[string]interface{}{
		"name": b.Name,
	}, ip, "success")
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]Band, error) {
	return s.repo.ListForUser(ctx, userID)
}

// ===========================
// ✅ Join a band by code
// Returns the created membership row, not the band.
func (s *service) Join(ctx context.Context, identity middleware.Identity, code, ip string) (*Membership, error) {
	b, err := s.repo.GetByJoinCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInvalidJoinCode) {
			s.audit(ctx, identity.UserID, uuid.Nil, "BAND_JOIN_FAILED", map[string]interface{}{
				"reason": "invalid join code",
			}, ip, "failure")
		}
		return nil, err
	}

	m, err := s.repo.AddMember(ctx, b.ID, identity.UserID, middleware.RoleMember)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, identity.UserID, b.ID, "BAND_JOINED", map[string]interface{}{
		"band_name": b.Name,
	}, ip, "success")
	s.notifSvc.PublishActivity(ctx, notification.Activity{
		BandID:   b.ID,
		BandName: b.Name,
		ActorID:  identity.UserID,
		Action:   notification.ActionMemberJoined,
		Title:    "New member",
		Message:  fmt.Sprintf("%s joined %s.", identity.DisplayName, b.Name),
		Category: "membership",
	})
	return m, nil
}

// ===========================
// ❌ Leave a band
// The only leader cannot leave; promote someone or delete the band.
func (s *service) Leave(ctx context.Context, identity middleware.Identity, bandID uuid.UUID, ip string) error {
	b, err := s.repo.GetByID(ctx, bandID)
	if err != nil {
		return err
	}
	role, err := s.repo.GetRole(ctx, bandID, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrNotAMember) {
			return ErrForbidden
		}
		return err
	}
	if role == middleware.RoleLeader {
		leaders, err := s.repo.CountLeaders(ctx, bandID)
		if err != nil {
			return err
		}
		if leaders <= 1 {
			return ErrLastLeader
		}
	}
	if err := s.repo.RemoveMember(ctx, bandID, identity.UserID); err != nil {
		return err
	}

	s.audit(ctx, identity.UserID, bandID, "BAND_LEFT", nil, ip, "success")
	s.notifSvc.PublishActivity(ctx, notification.Activity{
		BandID:   b.ID,
		BandName: b.Name,
		ActorID:  identity.UserID,
		Action:   notification.ActionMemberLeft,
		Title:    "Member left",
		Message:  fmt.Sprintf("%s left %s.", identity.DisplayName, b.Name),
		Category: "membership",
	})
	return nil
}

func (s *service) Members(ctx context.Context, bandID, userID uuid.UUID) ([]Member, error) {
	if _, err := s.repo.GetByID(ctx, bandID); err != nil {
		return nil, err
	}
	if err := s.RequireMember(ctx, bandID, userID); err != nil {
		return nil, err
	}
	return s.repo.Members(ctx, bandID)
}

func (s *service) UpdateMemberRole(ctx context.Context, identity middleware.Identity, bandID, memberID uuid.UUID, role, ip string) error {
	if _, err := s.repo.GetByID(ctx, bandID); err != nil {
		return err
	}
	if err := s.RequireLeader(ctx, bandID, identity.UserID); err != nil {
		return err
	}

	current, err := s.repo.GetRole(ctx, bandID, memberID)
	if err != nil {
		return err
	}
	if current == role {
		return nil
	}
	if current == middleware.RoleLeader {
		leaders, err := s.repo.CountLeaders(ctx, bandID)
		if err != nil {
			return err
		}
		if leaders <= 1 {
			return ErrLastLeader
		}
	}
	if err := s.repo.UpdateMemberRole(ctx, bandID, memberID, role); err != nil {
		return err
	}

	s.audit(ctx, identity.UserID, bandID, "MEMBER_ROLE_CHANGED", map[string]interface{}{
		"member_id": memberID.String(),
		"role":      role,
	}, ip, "success")
	return nil
}

func (s *service) RemoveMember(ctx context.Context, identity middleware.Identity, bandID, memberID uuid.UUID, ip string) error {
	b, err := s.repo.GetByID(ctx, bandID)
	if err != nil {
		return err
	}
	if err := s.RequireLeader(ctx, bandID, identity.UserID); err != nil {
		return err
	}

	role, err := s.repo.GetRole(ctx, bandID, memberID)
	if err != nil {
		return err
	}
	if role == middleware.RoleLeader {
		leaders, err := s.repo.CountLeaders(ctx, bandID)
		if err != nil {
			return err
		}
		if leaders <= 1 {
			return ErrLastLeader
		}
	}
	if err := s.repo.RemoveMember(ctx, bandID, memberID); err != nil {
		return err
	}

	s.audit(ctx, identity.UserID, bandID, "MEMBER_REMOVED", map[string]interface{}{
		"member_id": memberID.String(),
	}, ip, "success")
	s.notifSvc.PublishActivity(ctx, notification.Activity{
		BandID:   b.ID,
		BandName: b.Name,
		ActorID:  identity.UserID,
		Action:   notification.ActionMemberLeft,
		Title:    "Member removed",
		Message:  fmt.Sprintf("A member was removed from %s.", b.Name),
		Category: "membership",
	})
	return nil
}

// RequireMember returns ErrForbidden when the user has no membership in
// the band. Callers must have established that the band exists.
func (s *service) RequireMember(ctx context.Context, bandID, userID uuid.UUID) error {
	ok, err := s.repo.IsMember(ctx, bandID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *service) RequireLeader(ctx context.Context, bandID, userID uuid.UUID) error {
	role, err := s.repo.GetRole(ctx, bandID, userID)
	if err != nil {
		if errors.Is(err, ErrNotAMember) {
			return ErrForbidden
		}
		return err
	}
	if role != middleware.RoleLeader {
		return ErrLeaderRequired
	}
	return nil
}

func (s *service) audit(ctx context.Context, userID, bandID uuid.UUID, action string, details map[string]interface{}, ip, status string) {
	var bandPtr *uuid.UUID
	if bandID != uuid.Nil {
		bandPtr = &bandID
	}
	if err := s.auditSvc.LogAction(ctx, &userID, bandPtr, action, details, ip, status); err != nil {
		// Audit failures never break the request
		return
	}
}
