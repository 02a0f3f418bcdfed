// Package session implements the storefront session state: the cart
// lifecycle, region selection, category cache, preferences, and customer
// authentication. The commerce backend owns every resource; this package
// keeps a per-session mirror in the store and reconciles it on each
// operation, serving the mirror only when the backend cannot answer.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/event"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/store"
	apperrors "github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/errors"
)

// MaxQuantityPerItem is the maximum quantity allowed for a single line item.
const MaxQuantityPerItem = 100

// CartState describes how the cart returned by Resolve was obtained.
type CartState int

const (
	// CartUninitialized means no cart could be produced for the session.
	CartUninitialized CartState = iota
	// CartEmpty means a live backend cart with no items.
	CartEmpty
	// CartLoaded means a live backend cart with items.
	CartLoaded
	// CartLoadedStale means the backend was unreachable and the local
	// mirror was served instead.
	CartLoadedStale
)

// String returns the lowercase wire name of the state.
func (s CartState) String() string {
	switch s {
	case CartEmpty:
		return "empty"
	case CartLoaded:
		return "loaded"
	case CartLoadedStale:
		return "loaded_stale"
	default:
		return "uninitialized"
	}
}

// CartBackend is the subset of the commerce backend the cart manager drives.
type CartBackend interface {
	CreateCart(ctx context.Context, regionID string) (*medusa.Cart, error)
	RetrieveCart(ctx context.Context, id string) (*medusa.Cart, error)
	UpdateCart(ctx context.Context, id string, fields map[string]any) (*medusa.Cart, error)
	AddLineItem(ctx context.Context, cartID, variantID string, quantity int) (*medusa.Cart, error)
	UpdateLineItem(ctx context.Context, cartID, lineItemID string, quantity int) (*medusa.Cart, error)
	DeleteLineItem(ctx context.Context, cartID, lineItemID string) (*medusa.Cart, error)
}

// CartManager reconciles the session's cart against the backend. All
// mutations are write-through: the backend is updated first and the mirror
// only after the backend confirms, so a failed call leaves the mirror
// exactly as it was. Mutations for the same session are serialized by a
// per-session lock; concurrent requests queue instead of clobbering each
// other's read-modify-write cycles.
type CartManager struct {
	backend  CartBackend
	store    store.SessionStore
	producer *event.Producer
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCartManager creates a cart manager.
func NewCartManager(backend CartBackend, st store.SessionStore, producer *event.Producer, logger *slog.Logger) *CartManager {
	return &CartManager{
		backend:  backend,
		store:    st,
		producer: producer,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockSession acquires the mutation lock for a session and returns the
// release func. Locks are never evicted; the map grows with the set of
// active session IDs, which the session TTL keeps bounded in practice.
func (m *CartManager) lockSession(sessionID string) func() {
	m.mu.Lock()
	lock, ok := m.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[sessionID] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Resolve ensures the session has a cart for the given region and returns
// it. A stored cart ID is revalidated against the backend; if the backend
// no longer knows the cart a replacement is created, and if the backend is
// unreachable the local mirror is served as stale.
func (m *CartManager) Resolve(ctx context.Context, sessionID, regionID string) (*medusa.Cart, CartState, error) {
	if sessionID == "" {
		return nil, CartUninitialized, apperrors.InvalidInput("session id is required")
	}
	if regionID == "" {
		return nil, CartUninitialized, apperrors.InvalidInput("region id is required")
	}

	unlock := m.lockSession(sessionID)
	defer unlock()

	cartID, err := m.store.CartID(ctx, sessionID)
	if err != nil {
		m.logger.WarnContext(ctx, "failed to read cart id, treating as unset",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	if cartID == "" {
		cart, err := m.createCart(ctx, sessionID, regionID)
		if err != nil {
			return nil, CartUninitialized, err
		}
		return cart, stateOf(cart), nil
	}

	cart, err := m.backend.RetrieveCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// The backend forgot the cart (expired or completed).
			// The session gets a fresh one rather than an error.
			cart, err := m.createCart(ctx, sessionID, regionID)
			if err != nil {
				return nil, CartUninitialized, err
			}
			return cart, stateOf(cart), nil
		}

		if stale, serr := m.store.CartSnapshot(ctx, sessionID); serr == nil && stale != nil {
			m.logger.WarnContext(ctx, "backend unreachable, serving mirrored cart",
				slog.String("session_id", sessionID),
				slog.String("cart_id", stale.ID),
				slog.String("error", err.Error()),
			)
			return stale, CartLoadedStale, nil
		}

		return nil, CartUninitialized, fmt.Errorf("retrieve cart: %w", err)
	}

	m.mirror(ctx, sessionID, cart)
	return cart, stateOf(cart), nil
}

// Snapshot returns the locally mirrored cart without contacting the
// backend, or nil when the session has none.
func (m *CartManager) Snapshot(ctx context.Context, sessionID string) (*medusa.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	return m.store.CartSnapshot(ctx, sessionID)
}

// AddItem adds a variant to the session's cart. The backend merges
// quantities when the variant is already in the cart.
func (m *CartManager) AddItem(ctx context.Context, sessionID, variantID string, quantity int) (*medusa.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if variantID == "" {
		return nil, apperrors.InvalidInput("variant id is required")
	}
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	unlock := m.lockSession(sessionID)
	defer unlock()

	cartID, err := m.requireCartID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart, err := m.backend.AddLineItem(ctx, cartID, variantID, quantity)
	if err != nil {
		return nil, fmt.Errorf("add line item: %w", err)
	}

	m.mirror(ctx, sessionID, cart)
	m.publishCartUpdated(ctx, sessionID, cart)

	m.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("cart_id", cart.ID),
		slog.String("variant_id", variantID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// UpdateItemQuantity sets the quantity of the line item carrying the given
// variant. A quantity of zero or less removes the item.
func (m *CartManager) UpdateItemQuantity(ctx context.Context, sessionID, variantID string, quantity int) (*medusa.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if variantID == "" {
		return nil, apperrors.InvalidInput("variant id is required")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	unlock := m.lockSession(sessionID)
	defer unlock()

	if quantity <= 0 {
		return m.removeItem(ctx, sessionID, variantID)
	}

	cartID, err := m.requireCartID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	item, err := m.lineItemFor(ctx, sessionID, cartID, variantID)
	if err != nil {
		return nil, err
	}

	cart, err := m.backend.UpdateLineItem(ctx, cartID, item.ID, quantity)
	if err != nil {
		return nil, fmt.Errorf("update line item: %w", err)
	}

	m.mirror(ctx, sessionID, cart)
	m.publishCartUpdated(ctx, sessionID, cart)

	m.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("session_id", sessionID),
		slog.String("cart_id", cart.ID),
		slog.String("variant_id", variantID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// RemoveItem removes the line item carrying the given variant.
func (m *CartManager) RemoveItem(ctx context.Context, sessionID, variantID string) (*medusa.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if variantID == "" {
		return nil, apperrors.InvalidInput("variant id is required")
	}

	unlock := m.lockSession(sessionID)
	defer unlock()

	return m.removeItem(ctx, sessionID, variantID)
}

// removeItem performs the removal. Callers must hold the session lock.
func (m *CartManager) removeItem(ctx context.Context, sessionID, variantID string) (*medusa.Cart, error) {
	cartID, err := m.requireCartID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	item, err := m.lineItemFor(ctx, sessionID, cartID, variantID)
	if err != nil {
		return nil, err
	}

	cart, err := m.backend.DeleteLineItem(ctx, cartID, item.ID)
	if err != nil {
		return nil, fmt.Errorf("delete line item: %w", err)
	}

	m.mirror(ctx, sessionID, cart)
	m.publishCartUpdated(ctx, sessionID, cart)

	m.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.String("cart_id", cart.ID),
		slog.String("variant_id", variantID),
	)

	return cart, nil
}

// Clear removes every line item from the session's cart. Deletions run in
// parallel against the backend, then the cart is re-fetched so the mirror
// reflects whatever the backend settled on.
func (m *CartManager) Clear(ctx context.Context, sessionID string) (*medusa.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	unlock := m.lockSession(sessionID)
	defer unlock()

	cartID, err := m.requireCartID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart, err := m.backend.RetrieveCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("retrieve cart for clear: %w", err)
	}

	if len(cart.Items) == 0 {
		m.mirror(ctx, sessionID, cart)
		return cart, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, item := range cart.Items {
		g.Go(func() error {
			if _, err := m.backend.DeleteLineItem(gctx, cartID, item.ID); err != nil {
				// Another request may have removed the item already.
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil
				}
				return fmt.Errorf("delete line item %s: %w", item.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	fresh, err := m.backend.RetrieveCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("retrieve cart after clear: %w", err)
	}

	m.mirror(ctx, sessionID, fresh)
	m.publishCartCleared(ctx, sessionID, cartID)

	m.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
		slog.String("cart_id", cartID),
	)

	return fresh, nil
}

// SetRegion moves the session's cart to the given region. Selecting the
// region the cart is already in is a no-op. A genuine change creates a
// fresh cart in the new region; items do not carry over, since prices and
// availability are region-specific.
func (m *CartManager) SetRegion(ctx context.Context, sessionID, regionID string) (*medusa.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if regionID == "" {
		return nil, apperrors.InvalidInput("region id is required")
	}

	unlock := m.lockSession(sessionID)
	defer unlock()

	cartID, err := m.store.CartID(ctx, sessionID)
	if err == nil && cartID != "" {
		current, err := m.currentCart(ctx, sessionID, cartID)
		if err == nil && current.RegionID == regionID {
			return current, nil
		}
	}

	cart, err := m.createCart(ctx, sessionID, regionID)
	if err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "cart replaced for region change",
		slog.String("session_id", sessionID),
		slog.String("cart_id", cart.ID),
		slog.String("region_id", regionID),
	)

	return cart, nil
}

// AttachUser associates the session's cart with a logged-in customer. A
// customer with a registered cart for the region gets that cart back and
// the session's guest cart is abandoned; otherwise the session's current
// cart is registered under the customer, replacing any earlier entries.
// Guest and user carts are never merged.
func (m *CartManager) AttachUser(ctx context.Context, sessionID string, customer *medusa.Customer, regionID string) (*medusa.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if customer == nil || customer.ID == "" {
		return nil, apperrors.InvalidInput("customer is required")
	}
	if regionID == "" {
		return nil, apperrors.InvalidInput("region id is required")
	}

	unlock := m.lockSession(sessionID)
	defer unlock()

	index, err := m.store.UserCarts(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "failed to read user cart index, treating as empty",
			slog.String("error", err.Error()),
		)
		index = nil
	}

	if entry := findUserCart(index, customer.ID, regionID); entry != nil {
		cart, err := m.backend.RetrieveCart(ctx, entry.CartID)
		if err == nil {
			m.mirror(ctx, sessionID, cart)
			m.logger.InfoContext(ctx, "restored registered cart for customer",
				slog.String("session_id", sessionID),
				slog.String("cart_id", cart.ID),
				slog.String("customer_id", customer.ID),
			)
			return cart, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("retrieve registered cart: %w", err)
		}
		// Stale index entry; fall through and register the session cart.
	}

	cartID, err := m.store.CartID(ctx, sessionID)
	if err != nil || cartID == "" {
		cart, cerr := m.createCart(ctx, sessionID, regionID)
		if cerr != nil {
			return nil, cerr
		}
		cartID = cart.ID
	}

	cart, err := m.backend.UpdateCart(ctx, cartID, map[string]any{"email": customer.Email})
	if err != nil {
		return nil, fmt.Errorf("attach customer to cart: %w", err)
	}
	m.mirror(ctx, sessionID, cart)

	filtered := make([]store.UserCart, 0, len(index)+1)
	for _, e := range index {
		if e.UserID != customer.ID {
			filtered = append(filtered, e)
		}
	}
	filtered = append(filtered, store.UserCart{
		UserID:    customer.ID,
		CartID:    cartID,
		RegionID:  regionID,
		CreatedAt: time.Now().UTC(),
	})

	if err := m.store.SetUserCarts(ctx, filtered); err != nil {
		m.logger.WarnContext(ctx, "failed to write user cart index",
			slog.String("customer_id", customer.ID),
			slog.String("error", err.Error()),
		)
	}

	m.logger.InfoContext(ctx, "registered cart for customer",
		slog.String("session_id", sessionID),
		slog.String("cart_id", cartID),
		slog.String("customer_id", customer.ID),
	)

	return cart, nil
}

// createCart creates a backend cart in the region and mirrors it. Callers
// must hold the session lock.
func (m *CartManager) createCart(ctx context.Context, sessionID, regionID string) (*medusa.Cart, error) {
	cart, err := m.backend.CreateCart(ctx, regionID)
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	m.mirror(ctx, sessionID, cart)
	return cart, nil
}

// requireCartID returns the session's cart ID or an error when the session
// has no cart yet. Mutations never create carts implicitly; Resolve does.
func (m *CartManager) requireCartID(ctx context.Context, sessionID string) (string, error) {
	cartID, err := m.store.CartID(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("read cart id: %w", err)
	}
	if cartID == "" {
		return "", apperrors.NotFound("cart", sessionID)
	}
	return cartID, nil
}

// currentCart returns the mirrored cart when it matches the cart ID, or
// fetches it from the backend.
func (m *CartManager) currentCart(ctx context.Context, sessionID, cartID string) (*medusa.Cart, error) {
	if snap, err := m.store.CartSnapshot(ctx, sessionID); err == nil && snap != nil && snap.ID == cartID {
		return snap, nil
	}
	cart, err := m.backend.RetrieveCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("retrieve cart: %w", err)
	}
	return cart, nil
}

// lineItemFor resolves a variant to its line item, preferring the mirror
// over a backend round trip.
func (m *CartManager) lineItemFor(ctx context.Context, sessionID, cartID, variantID string) (*medusa.LineItem, error) {
	if snap, err := m.store.CartSnapshot(ctx, sessionID); err == nil && snap != nil && snap.ID == cartID {
		if item := snap.ItemByVariant(variantID); item != nil {
			return item, nil
		}
	}

	cart, err := m.backend.RetrieveCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("retrieve cart: %w", err)
	}
	item := cart.ItemByVariant(variantID)
	if item == nil {
		return nil, apperrors.NotFound("cart item", variantID)
	}
	return item, nil
}

// mirror writes the cart ID and snapshot for the session. Mirror failures
// are logged and swallowed; the backend copy is authoritative.
func (m *CartManager) mirror(ctx context.Context, sessionID string, cart *medusa.Cart) {
	if err := m.store.SetCartID(ctx, sessionID, cart.ID); err != nil {
		m.logger.WarnContext(ctx, "failed to mirror cart id",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
	if err := m.store.SetCartSnapshot(ctx, sessionID, cart); err != nil {
		m.logger.WarnContext(ctx, "failed to mirror cart snapshot",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}

func (m *CartManager) publishCartUpdated(ctx context.Context, sessionID string, cart *medusa.Cart) {
	if err := m.producer.PublishCartUpdated(ctx, sessionID, cart); err != nil {
		m.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("cart_id", cart.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (m *CartManager) publishCartCleared(ctx context.Context, sessionID, cartID string) {
	if err := m.producer.PublishCartCleared(ctx, sessionID, cartID); err != nil {
		m.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()),
		)
	}
}

// stateOf classifies a live backend cart.
func stateOf(cart *medusa.Cart) CartState {
	if len(cart.Items) == 0 {
		return CartEmpty
	}
	return CartLoaded
}

// findUserCart returns the registered cart entry for a customer in a
// region, or nil.
func findUserCart(index []store.UserCart, userID, regionID string) *store.UserCart {
	for i := range index {
		if index[i].UserID == userID && index[i].RegionID == regionID {
			return &index[i]
		}
	}
	return nil
}
