package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mbriggs/band-management-backend/internal/auditlog"
	"github.com/mbriggs/band-management-backend/internal/band"
	"github.com/mbriggs/band-management-backend/internal/notification"
	"github.com/mbriggs/band-management-backend/internal/venue"
	"github.com/mbriggs/band-management-backend/middleware"
)

// BandGuard resolves a band and enforces membership. band.Service
// satisfies it.
type BandGuard interface {
	Get(ctx context.Context, bandID, userID uuid.UUID) (*band.Band, error)
	RequireMember(ctx context.Context, bandID, userID uuid.UUID) error
}

type Service interface {
	Create(ctx context.Context, identity middleware.Identity, bandID uuid.UUID, req CreateEventRequest, ip string) (*Event, error)
	ListByBand(ctx context.Context, bandID, userID uuid.UUID, filter ListFilter) ([]Event, error)
	Get(ctx context.Context, eventID, userID uuid.UUID) (*Event, error)
	Update(ctx context.Context, identity middleware.Identity, eventID uuid.UUID, req UpdateEventRequest, ip string) (*Event, error)
	Delete(ctx context.Context, identity middleware.Identity, eventID uuid.UUID, ip string) error
}

type service struct {
	repo     Repository
	bands    BandGuard
	venues   venue.Repository
	auditSvc auditlog.Service
	notifSvc notification.Service
}

func NewService(repo Repository, bands BandGuard, venues venue.Repository, auditSvc auditlog.Service, notifSvc notification.Service) Service {
	return &service{repo: repo, bands: bands, venues: venues, auditSvc: auditSvc, notifSvc: notifSvc}
}

// ===========================
// 🎯 Create an event on a band's schedule
func (s *service) Create(ctx context.Context, identity middleware.Identity, bandID uuid.UUID, req CreateEventRequest, ip string) (*Event, error) {
	b, err := s.bands.Get(ctx, bandID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, ErrEndNotAfterStart
	}
	if err := s.checkVenue(ctx, bandID, req.VenueID); err != nil {
		return nil, err
	}

	e := &Event{
		ID:        uuid.New(),
		BandID:    bandID,
		VenueID:   req.VenueID,
		Type:      req.Type,
		Status:    StatusPlanned,
		Title:     req.Title,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Notes:     req.Notes,
		CreatedBy: identity.UserID,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.audit(ctx, identity.UserID, bandID, "EVENT_CREATED", map[string]interface{}{
		"event_id": e.ID.String(),
		"title":    e.Title,
		"type":     e.Type,
	}, ip)
	s.notifSvc.PublishActivity(ctx, notification.Activity{
		BandID:   bandID,
		BandName: b.Name,
		ActorID:  identity.UserID,
		Action:   notification.ActionEventCreated,
		Title:    e.Title,
		Message:  fmt.Sprintf("New %s: %s on %s.", e.Type, e.Title, e.StartsAt.Format("Mon Jan 2 15:04")),
		Category: "event",
	})
	return e, nil
}

func (s *service) ListByBand(ctx context.Context, bandID, userID uuid.UUID, filter ListFilter) ([]Event, error) {
	if _, err := s.bands.Get(ctx, bandID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByBand(ctx, bandID, filter)
}

// Get fetches the event first, then gates on membership of its band.
func (s *service) Get(ctx context.Context, eventID, userID uuid.UUID) (*Event, error) {
	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.bands.RequireMember(ctx, e.BandID, userID); err != nil {
		return nil, err
	}
	return e, nil
}

// ===========================
// 🛠 Partial update with forward-only status transitions
func (s *service) Update(ctx context.Context, identity middleware.Identity, eventID uuid.UUID, req UpdateEventRequest, ip string) (*Event, error) {
	e, err := s.Get(ctx, eventID, identity.UserID)
	if err != nil {
		return nil, err
	}
	b, err := s.bands.Get(ctx, e.BandID, identity.UserID)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	if req.Status != nil && *req.Status != e.Status {
		if !transitionAllowed(e.Status, *req.Status) {
			return nil, ErrInvalidTransition
		}
		e.Status = *req.Status
		statusChanged = true
	}
	if req.Type != nil {
		e.Type = *req.Type
	}
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.StartsAt != nil {
		e.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		e.EndsAt = *req.EndsAt
	}
	if req.Notes != nil {
		e.Notes = *req.Notes
	}
	if req.VenueID != nil {
		if *req.VenueID == uuid.Nil {
			e.VenueID = nil
		} else {
			if err := s.checkVenue(ctx, e.BandID, req.VenueID); err != nil {
				return nil, err
			}
			e.VenueID = req.VenueID
		}
	}
	if !e.EndsAt.After(e.StartsAt) {
		return nil, ErrEndNotAfterStart
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	s.audit(ctx, identity.UserID, e.BandID, "EVENT_UPDATED", map[string]interface{}{
		"event_id": e.ID.String(),
		"status":   e.Status,
	}, ip)

	action := notification.ActionEventUpdated
	message := fmt.Sprintf("%s was updated.", e.Title)
	if statusChanged {
		switch e.Status {
		case StatusConfirmed:
			action = notification.ActionEventConfirmed
			message = fmt.Sprintf("%s is confirmed for %s.", e.Title, e.StartsAt.Format("Mon Jan 2 15:04"))
		case StatusCancelled:
			action = notification.ActionEventCancelled
			message = fmt.Sprintf("%s was cancelled.", e.Title)
		}
	}
	s.notifSvc.PublishActivity(ctx, notification.Activity{
		BandID:   e.BandID,
		BandName: b.Name,
		ActorID:  identity.UserID,
		Action:   action,
		Title:    e.Title,
		Message:  message,
		Category: "event",
	})
	return e, nil
}

func (s *service) Delete(ctx context.Context, identity middleware.Identity, eventID uuid.UUID, ip string) error {
	e, err := s.Get(ctx, eventID, identity.UserID)
	if err != nil {
		return err
	}
	b, err := s.bands.Get(ctx, e.BandID, identity.UserID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, eventID); err != nil {
		return err
	}

	s.audit(ctx, identity.UserID, e.BandID, "EVENT_DELETED", map[string]interface{}{
		"event_id": e.ID.String(),
		"title":    e.Title,
	}, ip)
	s.notifSvc.PublishActivity(ctx, notification.Activity{
		BandID:   e.BandID,
		BandName: b.Name,
		ActorID:  identity.UserID,
		Action:   notification.ActionEventDeleted,
		Title:    e.Title,
		Message:  fmt.Sprintf("%s was removed from the schedule.", e.Title),
		Category: "event",
	})
	return nil
}

// checkVenue verifies a referenced venue exists and belongs to the band.
func (s *service) checkVenue(ctx context.Context, bandID uuid.UUID, venueID *uuid.UUID) error {
	if venueID == nil || *venueID == uuid.Nil {
		return nil
	}
	v, err := s.venues.GetByID(ctx, *venueID)
	if err != nil {
		return err
	}
	if v.BandID != bandID {
		return ErrVenueMismatch
	}
	return nil
}

func transitionAllowed(from, to string) bool {
	switch from {
	case StatusPlanned:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	default:
		return false
	}
}

func (s *service) audit(ctx context.Context, userID, bandID uuid.UUID, action string, details map[string]interface{}, ip string) {
	_ = s.auditSvc.LogAction(ctx, &userID, &bandID, action, details, ip, "success")
}
