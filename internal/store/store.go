// Package store defines the repository interface for everything the
// storefront keeps durable across restarts: the cart mirror, selected region,
// per-user cart index, preference flags, cached categories, and the cached
// customer. Reads of missing or malformed entries return safe zero values,
// never errors the caller has to special-case.
package store

import (
	"context"
	"time"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/domain"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
)

// UserCart associates a customer with a previously created cart so a
// returning user gets their cart back. At most one live entry per user ID.
type UserCart struct {
	UserID    string    `json:"user_id"`
	CartID    string    `json:"cart_id"`
	RegionID  string    `json:"region_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionCustomer is the cached customer record plus the backend token that
// authorizes customer-scoped calls. A display cache only; invalidated on
// logout.
type SessionCustomer struct {
	Customer medusa.Customer `json:"customer"`
	Token    string          `json:"token"`
}

// CategorySnapshot is the cached category list together with its fetch time.
type CategorySnapshot struct {
	Categories []domain.Category `json:"categories"`
	FetchedAt  time.Time         `json:"fetched_at"`
}

// SessionStore is the typed key-value repository backing session state.
// Implementations must treat malformed stored data as a cache miss.
type SessionStore interface {
	// CartID returns the cached cart ID for the session, or "" when unset.
	CartID(ctx context.Context, sessionID string) (string, error)
	SetCartID(ctx context.Context, sessionID, cartID string) error

	// CartSnapshot returns the mirrored cart, or nil on miss.
	CartSnapshot(ctx context.Context, sessionID string) (*medusa.Cart, error)
	SetCartSnapshot(ctx context.Context, sessionID string, cart *medusa.Cart) error

	// Region returns the selected region option, or nil when none selected.
	Region(ctx context.Context, sessionID string) (*domain.RegionOption, error)
	SetRegion(ctx context.Context, sessionID string, region domain.RegionOption) error

	// DarkMode returns the stored preference flag; missing means false.
	DarkMode(ctx context.Context, sessionID string) (bool, error)
	SetDarkMode(ctx context.Context, sessionID string, on bool) error

	// LoggedIn returns the stored logged-in flag; missing means false.
	LoggedIn(ctx context.Context, sessionID string) (bool, error)
	SetLoggedIn(ctx context.Context, sessionID string, on bool) error

	// Customer returns the cached customer record, or nil on miss.
	Customer(ctx context.Context, sessionID string) (*SessionCustomer, error)
	SetCustomer(ctx context.Context, sessionID string, customer SessionCustomer) error
	DeleteCustomer(ctx context.Context, sessionID string) error

	// UserCarts returns the shared per-user cart index; empty on miss.
	UserCarts(ctx context.Context) ([]UserCart, error)
	SetUserCarts(ctx context.Context, carts []UserCart) error

	// Categories returns the cached category snapshot, or nil on miss.
	Categories(ctx context.Context) (*CategorySnapshot, error)
	SetCategories(ctx context.Context, snapshot CategorySnapshot) error
}
