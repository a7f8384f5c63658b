package venue

import (
	"context"

	"github.com/google/uuid"

	"github.com/mbriggs/band-management-backend/internal/auditlog"
	"github.com/mbriggs/band-management-backend/internal/band"
	"github.com/mbriggs/band-management-backend/middleware"
)

// BandGuard resolves a band and enforces membership. band.Service
// satisfies it.
type BandGuard interface {
	Get(ctx context.Context, bandID, userID uuid.UUID) (*band.Band, error)
	RequireMember(ctx context.Context, bandID, userID uuid.UUID) error
}

type Service interface {
	Create(ctx context.Context, identity middleware.Identity, bandID uuid.UUID, req CreateVenueRequest, ip string) (*Venue, error)
	ListByBand(ctx context.Context, bandID, userID uuid.UUID) ([]Venue, error)
	Get(ctx context.Context, venueID, userID uuid.UUID) (*Venue, error)
	Update(ctx context.Context, identity middleware.Identity, venueID uuid.UUID, req UpdateVenueRequest, ip string) (*Venue, error)
	Delete(ctx context.Context, identity middleware.Identity, venueID uuid.UUID, ip string) error
}

type service struct {
	repo     Repository
	bands    BandGuard
	auditSvc auditlog.Service
}

func NewService(repo Repository, bands BandGuard, auditSvc auditlog.Service) Service {
	return &service{repo: repo, bands: bands, auditSvc: auditSvc}
}

// ===========================
// 🎯 Create a venue in a band
func (s *service) Create(ctx context.Context, identity middleware.Identity, bandID uuid.UUID, req CreateVenueRequest, ip string) (*Venue, error) {
	if _, err := s.bands.Get(ctx, bandID, identity.UserID); err != nil {
		return nil, err
	}

	v := &Venue{
		ID:      uuid.New(),
		BandID:  bandID,
		Name:    req.Name,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	s.audit(ctx, identity.UserID, bandID, "VENUE_CREATED", map[string]interface{}{
		"venue_id": v.ID.String(),
		"name":     v.Name,
	}, ip)
	return v, nil
}

func (s *service) ListByBand(ctx context.Context, bandID, userID uuid.UUID) ([]Venue, error) {
	if _, err := s.bands.Get(ctx, bandID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByBand(ctx, bandID)
}

// Get fetches the venue first, then gates on membership of its band:
// a venue in someone else's band reads as forbidden, a missing one as
// not found.
func (s *service) Get(ctx context.Context, venueID, userID uuid.UUID) (*Venue, error) {
	v, err := s.repo.GetByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if err := s.bands.RequireMember(ctx, v.BandID, userID); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) Update(ctx context.Context, identity middleware.Identity, venueID uuid.UUID, req UpdateVenueRequest, ip string) (*Venue, error) {
	v, err := s.Get(ctx, venueID, identity.UserID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		v.Name = *req.Name
	}
	if req.Address != nil {
		v.Address = *req.Address
	}
	if req.Notes != nil {
		v.Notes = *req.Notes
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}

	s.audit(ctx, identity.UserID, v.BandID, "VENUE_UPDATED", map[string]interface{}{
		"venue_id": v.ID.String(),
	}, ip)
	return v, nil
}

func (s *service) Delete(ctx context.Context, identity middleware.Identity, venueID uuid.UUID, ip string) error {
	v, err := s.Get(ctx, venueID, identity.UserID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, venueID); err != nil {
		return err
	}

	s.audit(ctx, identity.UserID, v.BandID, "VENUE_DELETED", map[string]interface{}{
		"venue_id": v.ID.String(),
		"name":     v.Name,
	}, ip)
	return nil
}

func (s *service) audit(ctx context.Context, userID, bandID uuid.UUID, action string, details map[string]interface{}, ip string) {
	_ = s.auditSvc.LogAction(ctx, &userID, &bandID, action, details, ip, "success")
}
