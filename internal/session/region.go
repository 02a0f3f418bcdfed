package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/domain"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/event"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/store"
	apperrors "github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/errors"
)

// optionsTTL bounds how long the flattened region list is reused before the
// backend is asked again. Regions change rarely; ten minutes is generous.
const optionsTTL = 10 * time.Minute

// RegionBackend is the subset of the commerce backend the region service
// reads from.
type RegionBackend interface {
	ListRegions(ctx context.Context) ([]medusa.Region, error)
}

// RegionService exposes the selectable region options and applies a
// session's region choice. Options are derived from backend regions by
// flattening each region into per-country entries.
type RegionService struct {
	backend  RegionBackend
	store    store.SessionStore
	carts    *CartManager
	producer *event.Producer
	logger   *slog.Logger

	mu        sync.RWMutex
	options   []domain.RegionOption
	fetchedAt time.Time

	nowFunc func() time.Time
}

// NewRegionService creates a region service.
func NewRegionService(backend RegionBackend, st store.SessionStore, carts *CartManager, producer *event.Producer, logger *slog.Logger) *RegionService {
	return &RegionService{
		backend:  backend,
		store:    st,
		carts:    carts,
		producer: producer,
		logger:   logger,
		nowFunc:  time.Now,
	}
}

// Options returns the flattened region options, reusing a recent result
// when one is available.
func (s *RegionService) Options(ctx context.Context) ([]domain.RegionOption, error) {
	s.mu.RLock()
	if s.options != nil && s.nowFunc().Sub(s.fetchedAt) < optionsTTL {
		options := s.options
		s.mu.RUnlock()
		return options, nil
	}
	s.mu.RUnlock()

	regions, err := s.backend.ListRegions(ctx)
	if err != nil {
		// A cached copy beats an error even past its TTL.
		s.mu.RLock()
		cached := s.options
		s.mu.RUnlock()
		if cached != nil {
			s.logger.WarnContext(ctx, "region list refresh failed, serving cached options",
				slog.String("error", err.Error()),
			)
			return cached, nil
		}
		return nil, fmt.Errorf("list regions: %w", err)
	}

	options := domain.FlattenRegions(regions)

	s.mu.Lock()
	s.options = options
	s.fetchedAt = s.nowFunc()
	s.mu.Unlock()

	return options, nil
}

// Selected returns the session's chosen region option, or nil when the
// session has not picked one yet.
func (s *RegionService) Selected(ctx context.Context, sessionID string) (*domain.RegionOption, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	return s.store.Region(ctx, sessionID)
}

// Select applies a region choice to the session. The choice is validated
// against the current options, persisted, and the session's cart is moved
// to the region. Re-selecting the current region changes nothing.
func (s *RegionService) Select(ctx context.Context, sessionID, code string) (*domain.RegionOption, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if code == "" {
		return nil, apperrors.InvalidInput("region code is required")
	}

	options, err := s.Options(ctx)
	if err != nil {
		return nil, err
	}

	option := domain.FindRegionOption(options, code)
	if option == nil {
		return nil, apperrors.NotFound("region", code)
	}

	if err := s.store.SetRegion(ctx, sessionID, *option); err != nil {
		return nil, fmt.Errorf("persist region: %w", err)
	}

	if _, err := s.carts.SetRegion(ctx, sessionID, option.Code); err != nil {
		return nil, fmt.Errorf("move cart to region: %w", err)
	}

	if err := s.producer.PublishRegionSelected(ctx, sessionID, option.Code, option.Currency); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish region.selected event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "region selected",
		slog.String("session_id", sessionID),
		slog.String("region_id", option.Code),
		slog.String("region_name", option.Name),
	)

	return option, nil
}
