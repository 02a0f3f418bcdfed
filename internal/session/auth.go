package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/auth"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/event"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/store"
	apperrors "github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/errors"
)

// AuthBackend is the subset of the commerce backend the auth service drives.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*medusa.LoginResult, error)
	CreateCustomer(ctx context.Context, input medusa.CreateCustomerInput) (*medusa.Customer, error)
	RetrieveCustomer(ctx context.Context, token string) (*medusa.Customer, error)
	UpdateCustomer(ctx context.Context, token string, input medusa.UpdateCustomerInput) (*medusa.Customer, error)
	ListAddresses(ctx context.Context, token string) ([]medusa.Address, error)
	CreateAddress(ctx context.Context, token string, addr medusa.Address) (*medusa.Customer, error)
	UpdateAddress(ctx context.Context, token, addressID string, addr medusa.Address) (*medusa.Customer, error)
	DeleteAddress(ctx context.Context, token, addressID string) (*medusa.Customer, error)
}

// LoginOutput is what a successful login yields: the customer, the cart the
// session ended up with, and a signed storefront session token.
type LoginOutput struct {
	Customer     *medusa.Customer
	Cart         *medusa.Cart
	SessionToken string
}

// AuthService handles customer login, registration, logout, and the
// customer-scoped account operations. The backend customer token obtained
// at login stays in the session store; clients only ever see the
// storefront's own session token.
type AuthService struct {
	backend  AuthBackend
	store    store.SessionStore
	carts    *CartManager
	tokens   *auth.JWTManager
	producer *event.Producer
	logger   *slog.Logger
}

// NewAuthService creates an auth service.
func NewAuthService(backend AuthBackend, st store.SessionStore, carts *CartManager, tokens *auth.JWTManager, producer *event.Producer, logger *slog.Logger) *AuthService {
	return &AuthService{
		backend:  backend,
		store:    st,
		carts:    carts,
		tokens:   tokens,
		producer: producer,
		logger:   logger,
	}
}

// Login authenticates a customer against the backend, caches the customer
// on the session, and hands the session's cart over to the customer. The
// session's region must already be selected; carts are region-scoped.
func (s *AuthService) Login(ctx context.Context, sessionID, email, password string) (*LoginOutput, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if email == "" || password == "" {
		return nil, apperrors.InvalidInput("email and password are required")
	}

	region, err := s.store.Region(ctx, sessionID)
	if err != nil || region == nil {
		return nil, apperrors.InvalidInput("a region must be selected before logging in")
	}

	result, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("backend login: %w", err)
	}
	customer := &result.Customer

	if err := s.store.SetCustomer(ctx, sessionID, store.SessionCustomer{
		Customer: *customer,
		Token:    result.AccessToken,
	}); err != nil {
		return nil, fmt.Errorf("cache customer: %w", err)
	}
	if err := s.store.SetLoggedIn(ctx, sessionID, true); err != nil {
		return nil, fmt.Errorf("mark logged in: %w", err)
	}

	cart, err := s.carts.AttachUser(ctx, sessionID, customer, region.Code)
	if err != nil {
		// Login stands even when the cart handoff fails; the next
		// resolve repairs the cart.
		s.logger.WarnContext(ctx, "cart handoff failed after login",
			slog.String("session_id", sessionID),
			slog.String("customer_id", customer.ID),
			slog.String("error", err.Error()),
		)
	}

	token, err := s.tokens.GenerateSessionToken(sessionID, customer.ID, customer.Email)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	if err := s.producer.PublishUserLoggedIn(ctx, sessionID, customer.ID, customer.Email); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.logged_in event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "customer logged in",
		slog.String("session_id", sessionID),
		slog.String("customer_id", customer.ID),
	)

	return &LoginOutput{
		Customer:     customer,
		Cart:         cart,
		SessionToken: token,
	}, nil
}

// Register creates a backend customer account and logs the session in.
func (s *AuthService) Register(ctx context.Context, sessionID string, input medusa.CreateCustomerInput) (*LoginOutput, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	if _, err := s.backend.CreateCustomer(ctx, input); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	s.logger.InfoContext(ctx, "customer registered",
		slog.String("session_id", sessionID),
		slog.String("email", input.Email),
	)

	return s.Login(ctx, sessionID, input.Email, input.Password)
}

// Logout clears the session's customer state. The cached customer and
// backend token are dropped, the logged-in flag is cleared, and the dark
// mode preference resets to its default. The selected region survives.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	var customerID string
	if cached, err := s.store.Customer(ctx, sessionID); err == nil && cached != nil {
		customerID = cached.Customer.ID
	}

	if err := s.store.DeleteCustomer(ctx, sessionID); err != nil {
		return fmt.Errorf("drop cached customer: %w", err)
	}
	if err := s.store.SetLoggedIn(ctx, sessionID, false); err != nil {
		return fmt.Errorf("clear logged in flag: %w", err)
	}
	if err := s.store.SetDarkMode(ctx, sessionID, false); err != nil {
		return fmt.Errorf("reset dark mode: %w", err)
	}

	if err := s.producer.PublishUserLoggedOut(ctx, sessionID, customerID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.logged_out event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "customer logged out",
		slog.String("session_id", sessionID),
		slog.String("customer_id", customerID),
	)

	return nil
}

// Customer returns the session's cached customer, refreshed from the
// backend when the backend answers. A backend failure falls back to the
// cached copy.
func (s *AuthService) Customer(ctx context.Context, sessionID string) (*medusa.Customer, error) {
	cached, err := s.requireCustomer(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	fresh, err := s.backend.RetrieveCustomer(ctx, cached.Token)
	if err != nil {
		s.logger.WarnContext(ctx, "customer refresh failed, serving cached copy",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		customer := cached.Customer
		return &customer, nil
	}

	s.cacheCustomer(ctx, sessionID, fresh, cached.Token)
	return fresh, nil
}

// UpdateCustomer applies profile changes through the backend and refreshes
// the session's cached copy.
func (s *AuthService) UpdateCustomer(ctx context.Context, sessionID string, input medusa.UpdateCustomerInput) (*medusa.Customer, error) {
	cached, err := s.requireCustomer(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	customer, err := s.backend.UpdateCustomer(ctx, cached.Token, input)
	if err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}

	s.cacheCustomer(ctx, sessionID, customer, cached.Token)
	return customer, nil
}

// Addresses lists the customer's saved addresses.
func (s *AuthService) Addresses(ctx context.Context, sessionID string) ([]medusa.Address, error) {
	cached, err := s.requireCustomer(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	addresses, err := s.backend.ListAddresses(ctx, cached.Token)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

// AddAddress saves a new address on the customer's account.
func (s *AuthService) AddAddress(ctx context.Context, sessionID string, addr medusa.Address) (*medusa.Customer, error) {
	cached, err := s.requireCustomer(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	customer, err := s.backend.CreateAddress(ctx, cached.Token, addr)
	if err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}

	s.cacheCustomer(ctx, sessionID, customer, cached.Token)
	return customer, nil
}

// UpdateAddress replaces an existing address on the customer's account.
func (s *AuthService) UpdateAddress(ctx context.Context, sessionID, addressID string, addr medusa.Address) (*medusa.Customer, error) {
	if addressID == "" {
		return nil, apperrors.InvalidInput("address id is required")
	}

	cached, err := s.requireCustomer(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	customer, err := s.backend.UpdateAddress(ctx, cached.Token, addressID, addr)
	if err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}

	s.cacheCustomer(ctx, sessionID, customer, cached.Token)
	return customer, nil
}

// DeleteAddress removes an address from the customer's account.
func (s *AuthService) DeleteAddress(ctx context.Context, sessionID, addressID string) (*medusa.Customer, error) {
	if addressID == "" {
		return nil, apperrors.InvalidInput("address id is required")
	}

	cached, err := s.requireCustomer(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	customer, err := s.backend.DeleteAddress(ctx, cached.Token, addressID)
	if err != nil {
		return nil, fmt.Errorf("delete address: %w", err)
	}

	s.cacheCustomer(ctx, sessionID, customer, cached.Token)
	return customer, nil
}

// requireCustomer returns the session's cached customer record or an
// unauthorized error when the session is not logged in.
func (s *AuthService) requireCustomer(ctx context.Context, sessionID string) (*store.SessionCustomer, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cached, err := s.store.Customer(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read cached customer: %w", err)
	}
	if cached == nil || cached.Token == "" {
		return nil, apperrors.Unauthorized("not logged in")
	}
	return cached, nil
}

// cacheCustomer refreshes the session's cached customer. Failures are
// logged and swallowed; the backend copy is authoritative.
func (s *AuthService) cacheCustomer(ctx context.Context, sessionID string, customer *medusa.Customer, token string) {
	if err := s.store.SetCustomer(ctx, sessionID, store.SessionCustomer{
		Customer: *customer,
		Token:    token,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to cache customer",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}
