package reports

import (
	"context"

	"github.com/google/uuid"

	"github.com/mbriggs/band-management-backend/internal/band"
)

// BandGuard resolves a band and enforces membership. band.Service
// satisfies it.
type BandGuard interface {
	Get(ctx context.Context, bandID, userID uuid.UUID) (*band.Band, error)
}

type Service interface {
	ExportSchedule(ctx context.Context, bandID, userID uuid.UUID, format string) (data []byte, filename, contentType string, err error)
}

type service struct {
	repo     Repository
	bands    BandGuard
	exporter Exporter
}

func NewService(repo Repository, bands BandGuard, exporter Exporter) Service {
	return &service{repo: repo, bands: bands, exporter: exporter}
}

func (s *service) ExportSchedule(ctx context.Context, bandID, userID uuid.UUID, format string) ([]byte, string, string, error) {
	b, err := s.bands.Get(ctx, bandID, userID)
	if err != nil {
		return nil, "", "", err
	}
	rows, err := s.repo.ScheduleRows(ctx, bandID)
	if err != nil {
		return nil, "", "", err
	}
	return s.exporter.Export(format, b.Name, rows)
}
