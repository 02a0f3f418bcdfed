// Package redis implements store.SessionStore on Redis. Each logical key is
// one Redis key holding a JSON blob or a stringified flag; session-scoped
// keys carry a TTL, shared keys do not.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/domain"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/store"
)

const (
	keyCartID     = "session:%s:cart_id"
	keyCartData   = "session:%s:cart"
	keyRegion     = "session:%s:region"
	keyDarkMode   = "session:%s:dark_mode"
	keyLoggedIn   = "session:%s:logged_in"
	keyCustomer   = "session:%s:customer"
	keyUserCarts  = "storefront:user_carts"
	keyCategories = "storefront:categories"
)

// SessionStore is the Redis-backed session repository.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSessionStore creates a store with the given per-session TTL.
func NewSessionStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// getJSON loads and unmarshals the value at key into out. Returns false on a
// missing key or malformed payload; parse failures are logged and treated as
// a cache miss, never surfaced to the caller.
func (s *SessionStore) getJSON(ctx context.Context, key string, out any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.logger.WarnContext(ctx, "malformed cached value, treating as miss",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false, nil
	}
	return true, nil
}

func (s *SessionStore) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *SessionStore) getFlag(ctx context.Context, key string) (bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val == "true", nil
}

func (s *SessionStore) setFlag(ctx context.Context, key string, on bool) error {
	val := "false"
	if on {
		val = "true"
	}
	if err := s.client.Set(ctx, key, val, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// CartID returns the cached cart ID for the session, or "".
func (s *SessionStore) CartID(ctx context.Context, sessionID string) (string, error) {
	val, err := s.client.Get(ctx, fmt.Sprintf(keyCartID, sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis get cart id: %w", err)
	}
	return val, nil
}

// SetCartID stores the session's cart ID.
func (s *SessionStore) SetCartID(ctx context.Context, sessionID, cartID string) error {
	if err := s.client.Set(ctx, fmt.Sprintf(keyCartID, sessionID), cartID, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart id: %w", err)
	}
	return nil
}

// CartSnapshot returns the mirrored cart, or nil on miss.
func (s *SessionStore) CartSnapshot(ctx context.Context, sessionID string) (*medusa.Cart, error) {
	var cart medusa.Cart
	ok, err := s.getJSON(ctx, fmt.Sprintf(keyCartData, sessionID), &cart)
	if err != nil || !ok {
		return nil, err
	}
	return &cart, nil
}

// SetCartSnapshot overwrites the mirrored cart.
func (s *SessionStore) SetCartSnapshot(ctx context.Context, sessionID string, cart *medusa.Cart) error {
	return s.setJSON(ctx, fmt.Sprintf(keyCartData, sessionID), cart, s.ttl)
}

// Region returns the selected region option, or nil when none selected.
func (s *SessionStore) Region(ctx context.Context, sessionID string) (*domain.RegionOption, error) {
	var region domain.RegionOption
	ok, err := s.getJSON(ctx, fmt.Sprintf(keyRegion, sessionID), &region)
	if err != nil || !ok {
		return nil, err
	}
	return &region, nil
}

// SetRegion stores the selected region. Region survives logout, so no TTL.
func (s *SessionStore) SetRegion(ctx context.Context, sessionID string, region domain.RegionOption) error {
	return s.setJSON(ctx, fmt.Sprintf(keyRegion, sessionID), region, 0)
}

// DarkMode returns the stored preference flag.
func (s *SessionStore) DarkMode(ctx context.Context, sessionID string) (bool, error) {
	return s.getFlag(ctx, fmt.Sprintf(keyDarkMode, sessionID))
}

// SetDarkMode stores the preference flag.
func (s *SessionStore) SetDarkMode(ctx context.Context, sessionID string, on bool) error {
	return s.setFlag(ctx, fmt.Sprintf(keyDarkMode, sessionID), on)
}

// LoggedIn returns the stored logged-in flag.
func (s *SessionStore) LoggedIn(ctx context.Context, sessionID string) (bool, error) {
	return s.getFlag(ctx, fmt.Sprintf(keyLoggedIn, sessionID))
}

// SetLoggedIn stores the logged-in flag.
func (s *SessionStore) SetLoggedIn(ctx context.Context, sessionID string, on bool) error {
	return s.setFlag(ctx, fmt.Sprintf(keyLoggedIn, sessionID), on)
}

// Customer returns the cached customer record, or nil on miss.
func (s *SessionStore) Customer(ctx context.Context, sessionID string) (*store.SessionCustomer, error) {
	var customer store.SessionCustomer
	ok, err := s.getJSON(ctx, fmt.Sprintf(keyCustomer, sessionID), &customer)
	if err != nil || !ok {
		return nil, err
	}
	return &customer, nil
}

// SetCustomer caches the customer record and token.
func (s *SessionStore) SetCustomer(ctx context.Context, sessionID string, customer store.SessionCustomer) error {
	return s.setJSON(ctx, fmt.Sprintf(keyCustomer, sessionID), customer, s.ttl)
}

// DeleteCustomer removes the cached customer record.
func (s *SessionStore) DeleteCustomer(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, fmt.Sprintf(keyCustomer, sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del customer: %w", err)
	}
	return nil
}

// UserCarts returns the shared per-user cart index.
func (s *SessionStore) UserCarts(ctx context.Context) ([]store.UserCart, error) {
	var carts []store.UserCart
	ok, err := s.getJSON(ctx, keyUserCarts, &carts)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []store.UserCart{}, nil
	}
	return carts, nil
}

// SetUserCarts overwrites the shared per-user cart index.
func (s *SessionStore) SetUserCarts(ctx context.Context, carts []store.UserCart) error {
	return s.setJSON(ctx, keyUserCarts, carts, 0)
}

// Categories returns the cached category snapshot, or nil on miss.
func (s *SessionStore) Categories(ctx context.Context) (*store.CategorySnapshot, error) {
	var snapshot store.CategorySnapshot
	ok, err := s.getJSON(ctx, keyCategories, &snapshot)
	if err != nil || !ok {
		return nil, err
	}
	return &snapshot, nil
}

// SetCategories overwrites the cached category snapshot.
func (s *SessionStore) SetCategories(ctx context.Context, snapshot store.CategorySnapshot) error {
	return s.setJSON(ctx, keyCategories, snapshot, 0)
}
