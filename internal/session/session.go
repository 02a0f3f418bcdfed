package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/domain"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/store"
	apperrors "github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/errors"
)

// SessionService assembles the client-facing session view and manages the
// session's preference flags. Everything it reads comes from the store;
// the view never triggers backend calls.
type SessionService struct {
	store  store.SessionStore
	logger *slog.Logger
}

// NewSessionService creates a session service.
func NewSessionService(st store.SessionStore, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:  st,
		logger: logger,
	}
}

// View returns the session's current state: login status, preference
// flags, the cached customer and region, and the mirrored cart summary.
func (s *SessionService) View(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	view := &domain.Session{ID: sessionID}

	loggedIn, err := s.store.LoggedIn(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read logged in flag: %w", err)
	}
	view.LoggedIn = loggedIn

	darkMode, err := s.store.DarkMode(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read dark mode flag: %w", err)
	}
	view.DarkMode = darkMode

	if loggedIn {
		if cached, err := s.store.Customer(ctx, sessionID); err == nil && cached != nil {
			customer := cached.Customer
			view.Customer = &customer
		}
	}

	region, err := s.store.Region(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read region: %w", err)
	}
	view.Region = region

	if cart, err := s.store.CartSnapshot(ctx, sessionID); err == nil && cart != nil {
		view.CartID = cart.ID
		view.ItemCount = cart.ItemCount()
	}

	return view, nil
}

// SetDarkMode stores the dark mode preference and returns the new value.
func (s *SessionService) SetDarkMode(ctx context.Context, sessionID string, on bool) (bool, error) {
	if sessionID == "" {
		return false, apperrors.InvalidInput("session id is required")
	}

	if err := s.store.SetDarkMode(ctx, sessionID, on); err != nil {
		return false, fmt.Errorf("persist dark mode: %w", err)
	}

	s.logger.DebugContext(ctx, "dark mode preference updated",
		slog.String("session_id", sessionID),
		slog.Bool("dark_mode", on),
	)

	return on, nil
}
