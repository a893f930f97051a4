package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// RosterService exposes the registration roster.
type RosterService struct {
	roster repository.RosterRepository
	logger *zap.Logger
}

// NewRosterService builds the service.
func NewRosterService(roster repository.RosterRepository, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{roster: roster, logger: logger}
}

// Lookup resolves a roster code, returning domain.ErrNotFound when absent.
func (s *RosterService) Lookup(ctx context.Context, code string) (*domain.RosterEntry, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrNotFound
	}
	return s.roster.GetByCode(ctx, code)
}

// SeedIfEmpty inserts the default roster on a store that has none.
func (s *RosterService) SeedIfEmpty(ctx context.Context) (int, error) {
	inserted, err := s.roster.SeedIfEmpty(ctx, domain.DefaultRoster())
	if err != nil {
		s.logger.Error("roster seed failed", zap.Error(err))
		return 0, err
	}
	if inserted > 0 {
		s.logger.Info("roster seeded", zap.Int("entries", inserted))
	}
	return inserted, nil
}

// List returns every roster entry ordered by code.
func (s *RosterService) List(ctx context.Context) ([]domain.RosterEntry, error) {
	return s.roster.List(ctx)
}
