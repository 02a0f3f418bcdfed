package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/event"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/store"
	redisstore "github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/store/redis"
	apperrors "github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/errors"
	pkgkafka "github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/kafka"
)

// --- Mock backend ---

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) CreateCart(ctx context.Context, regionID string) (*medusa.Cart, error) {
	args := m.Called(ctx, regionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*medusa.Cart), args.Error(1)
}

func (m *mockBackend) RetrieveCart(ctx context.Context, id string) (*medusa.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*medusa.Cart), args.Error(1)
}

func (m *mockBackend) UpdateCart(ctx context.Context, id string, fields map[string]any) (*medusa.Cart, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*medusa.Cart), args.Error(1)
}

func (m *mockBackend) AddLineItem(ctx context.Context, cartID, variantID string, quantity int) (*medusa.Cart, error) {
	args := m.Called(ctx, cartID, variantID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*medusa.Cart), args.Error(1)
}

func (m *mockBackend) UpdateLineItem(ctx context.Context, cartID, lineItemID string, quantity int) (*medusa.Cart, error) {
	args := m.Called(ctx, cartID, lineItemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*medusa.Cart), args.Error(1)
}

func (m *mockBackend) DeleteLineItem(ctx context.Context, cartID, lineItemID string) (*medusa.Cart, error) {
	args := m.Called(ctx, cartID, lineItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*medusa.Cart), args.Error(1)
}

// --- Test helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *redisstore.SessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redisstore.NewSessionStore(client, 24*time.Hour, newTestLogger())
}

func newTestProducer() *event.Producer {
	logger := newTestLogger()
	// No real broker in tests; publish failures are logged and swallowed.
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func newTestCartManager(t *testing.T, backend *mockBackend) (*CartManager, *redisstore.SessionStore) {
	t.Helper()
	st := newTestStore(t)
	return NewCartManager(backend, st, newTestProducer(), newTestLogger()), st
}

func cartWithItems(id, regionID string, quantities ...int) *medusa.Cart {
	cart := &medusa.Cart{ID: id, RegionID: regionID, Items: []medusa.LineItem{}}
	for i, q := range quantities {
		cart.Items = append(cart.Items, medusa.LineItem{
			ID:        "item_" + string(rune('a'+i)),
			CartID:    id,
			VariantID: "variant_" + string(rune('a'+i)),
			UnitPrice: 1000,
			Quantity:  q,
		})
	}
	return cart
}

// --- Resolve ---

func TestCartManager_Resolve_CreatesCartForNewSession(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	created := cartWithItems("cart_01", "reg_us")
	backend.On("CreateCart", mock.Anything, "reg_us").Return(created, nil).Once()

	cart, state, err := manager.Resolve(ctx, "sess-1", "reg_us")
	require.NoError(t, err)
	assert.Equal(t, CartEmpty, state)
	assert.Equal(t, "cart_01", cart.ID)

	// Mirror is written on creation.
	id, err := st.CartID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "cart_01", id)

	backend.AssertExpectations(t)
}

func TestCartManager_Resolve_LoadsExistingCart(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))

	live := cartWithItems("cart_01", "reg_us", 2)
	backend.On("RetrieveCart", mock.Anything, "cart_01").Return(live, nil).Once()

	cart, state, err := manager.Resolve(ctx, "sess-1", "reg_us")
	require.NoError(t, err)
	assert.Equal(t, CartLoaded, state)
	assert.Equal(t, 2, cart.ItemCount())

	// Mirror refreshed from the live cart.
	snap, err := st.CartSnapshot(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 2, snap.ItemCount())

	backend.AssertNotCalled(t, "CreateCart", mock.Anything, mock.Anything)
}

func TestCartManager_Resolve_RecreatesWhenBackendForgotCart(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_gone"))

	backend.On("RetrieveCart", mock.Anything, "cart_gone").
		Return(nil, apperrors.NotFound("cart", "cart_gone")).Once()
	fresh := cartWithItems("cart_02", "reg_us")
	backend.On("CreateCart", mock.Anything, "reg_us").Return(fresh, nil).Once()

	cart, state, err := manager.Resolve(ctx, "sess-1", "reg_us")
	require.NoError(t, err)
	assert.Equal(t, CartEmpty, state)
	assert.Equal(t, "cart_02", cart.ID)

	id, err := st.CartID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "cart_02", id)
}

func TestCartManager_Resolve_ServesStaleMirrorWhenBackendDown(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	mirror := cartWithItems("cart_01", "reg_us", 3)
	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))
	require.NoError(t, st.SetCartSnapshot(ctx, "sess-1", mirror))

	backend.On("RetrieveCart", mock.Anything, "cart_01").
		Return(nil, apperrors.Unavailable("backend down")).Once()

	cart, state, err := manager.Resolve(ctx, "sess-1", "reg_us")
	require.NoError(t, err)
	assert.Equal(t, CartLoadedStale, state)
	assert.Equal(t, "cart_01", cart.ID)
	assert.Equal(t, 3, cart.ItemCount())
}

func TestCartManager_Resolve_ErrorWhenBackendDownAndNoMirror(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))

	backend.On("RetrieveCart", mock.Anything, "cart_01").
		Return(nil, apperrors.Unavailable("backend down")).Once()

	cart, state, err := manager.Resolve(ctx, "sess-1", "reg_us")
	require.Error(t, err)
	assert.Nil(t, cart)
	assert.Equal(t, CartUninitialized, state)
}

func TestCartManager_Resolve_Validation(t *testing.T) {
	backend := new(mockBackend)
	manager, _ := newTestCartManager(t, backend)

	_, _, err := manager.Resolve(context.Background(), "", "reg_us")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, _, err = manager.Resolve(context.Background(), "sess-1", "")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

// --- AddItem ---

func TestCartManager_AddItem_WriteThrough(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))

	updated := cartWithItems("cart_01", "reg_us", 2)
	backend.On("AddLineItem", mock.Anything, "cart_01", "variant_a", 2).Return(updated, nil).Once()

	cart, err := manager.AddItem(ctx, "sess-1", "variant_a", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.ItemCount())

	// The mirror matches what the backend returned.
	snap, err := st.CartSnapshot(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, cart.ItemCount(), snap.ItemCount())
	assert.Equal(t, cart.ID, snap.ID)

	backend.AssertExpectations(t)
}

func TestCartManager_AddItem_SameVariantMergesQuantity(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))

	// The backend merges duplicate variants into a single line item.
	first := cartWithItems("cart_01", "reg_us", 1)
	merged := cartWithItems("cart_01", "reg_us", 2)
	backend.On("AddLineItem", mock.Anything, "cart_01", "variant_a", 1).Return(first, nil).Once()
	backend.On("AddLineItem", mock.Anything, "cart_01", "variant_a", 1).Return(merged, nil).Once()

	_, err := manager.AddItem(ctx, "sess-1", "variant_a", 1)
	require.NoError(t, err)

	cart, err := manager.AddItem(ctx, "sess-1", "variant_a", 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	snap, err := st.CartSnapshot(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)

	backend.AssertExpectations(t)
}

func TestCartManager_AddItem_BackendFailureLeavesMirrorUnchanged(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	before := cartWithItems("cart_01", "reg_us", 1)
	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))
	require.NoError(t, st.SetCartSnapshot(ctx, "sess-1", before))

	backend.On("AddLineItem", mock.Anything, "cart_01", "variant_x", 1).
		Return(nil, apperrors.Unavailable("backend down")).Once()

	_, err := manager.AddItem(ctx, "sess-1", "variant_x", 1)
	require.Error(t, err)

	snap, err := st.CartSnapshot(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 1, snap.ItemCount())
}

func TestCartManager_AddItem_RequiresResolvedCart(t *testing.T) {
	backend := new(mockBackend)
	manager, _ := newTestCartManager(t, backend)

	_, err := manager.AddItem(context.Background(), "sess-1", "variant_a", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	backend.AssertNotCalled(t, "CreateCart", mock.Anything, mock.Anything)
	backend.AssertNotCalled(t, "AddLineItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartManager_AddItem_Validation(t *testing.T) {
	backend := new(mockBackend)
	manager, _ := newTestCartManager(t, backend)
	ctx := context.Background()

	_, err := manager.AddItem(ctx, "sess-1", "variant_a", 0)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = manager.AddItem(ctx, "sess-1", "variant_a", -3)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = manager.AddItem(ctx, "sess-1", "", 1)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = manager.AddItem(ctx, "sess-1", "variant_a", MaxQuantityPerItem+1)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

// --- UpdateItemQuantity ---

func TestCartManager_UpdateItemQuantity_SetsQuantity(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	mirror := cartWithItems("cart_01", "reg_us", 1)
	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))
	require.NoError(t, st.SetCartSnapshot(ctx, "sess-1", mirror))

	updated := cartWithItems("cart_01", "reg_us", 5)
	backend.On("UpdateLineItem", mock.Anything, "cart_01", "item_a", 5).Return(updated, nil).Once()

	cart, err := manager.UpdateItemQuantity(ctx, "sess-1", "variant_a", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.ItemCount())

	backend.AssertExpectations(t)
}

func TestCartManager_UpdateItemQuantity_ZeroRemovesItem(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	mirror := cartWithItems("cart_01", "reg_us", 2)
	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))
	require.NoError(t, st.SetCartSnapshot(ctx, "sess-1", mirror))

	emptied := cartWithItems("cart_01", "reg_us")
	backend.On("DeleteLineItem", mock.Anything, "cart_01", "item_a").Return(emptied, nil).Once()

	cart, err := manager.UpdateItemQuantity(ctx, "sess-1", "variant_a", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, cart.ItemCount())

	backend.AssertNotCalled(t, "UpdateLineItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartManager_UpdateItemQuantity_NegativeRemovesItem(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	mirror := cartWithItems("cart_01", "reg_us", 2)
	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))
	require.NoError(t, st.SetCartSnapshot(ctx, "sess-1", mirror))

	emptied := cartWithItems("cart_01", "reg_us")
	backend.On("DeleteLineItem", mock.Anything, "cart_01", "item_a").Return(emptied, nil).Once()

	_, err := manager.UpdateItemQuantity(ctx, "sess-1", "variant_a", -1)
	require.NoError(t, err)

	backend.AssertExpectations(t)
}

func TestCartManager_UpdateItemQuantity_UnknownVariant(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	mirror := cartWithItems("cart_01", "reg_us", 1)
	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))
	require.NoError(t, st.SetCartSnapshot(ctx, "sess-1", mirror))

	// The mirror lacks the variant, so the live cart is consulted before
	// giving up.
	backend.On("RetrieveCart", mock.Anything, "cart_01").Return(mirror, nil).Once()

	_, err := manager.UpdateItemQuantity(ctx, "sess-1", "variant_zz", 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

// --- RemoveItem ---

func TestCartManager_RemoveItem_WriteThrough(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	mirror := cartWithItems("cart_01", "reg_us", 2, 1)
	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))
	require.NoError(t, st.SetCartSnapshot(ctx, "sess-1", mirror))

	remaining := cartWithItems("cart_01", "reg_us", 2)
	backend.On("DeleteLineItem", mock.Anything, "cart_01", "item_b").Return(remaining, nil).Once()

	cart, err := manager.RemoveItem(ctx, "sess-1", "variant_b")
	require.NoError(t, err)
	assert.Equal(t, 2, cart.ItemCount())

	snap, err := st.CartSnapshot(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.ItemCount())
}

// --- Clear ---

func TestCartManager_Clear_EmptyCartIsNoop(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))

	empty := cartWithItems("cart_01", "reg_us")
	backend.On("RetrieveCart", mock.Anything, "cart_01").Return(empty, nil).Once()

	cart, err := manager.Clear(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 0, cart.ItemCount())

	backend.AssertNotCalled(t, "DeleteLineItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartManager_Clear_SingleItem(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))

	full := cartWithItems("cart_01", "reg_us", 2)
	empty := cartWithItems("cart_01", "reg_us")
	backend.On("RetrieveCart", mock.Anything, "cart_01").Return(full, nil).Once()
	backend.On("DeleteLineItem", mock.Anything, "cart_01", "item_a").Return(empty, nil).Once()
	backend.On("RetrieveCart", mock.Anything, "cart_01").Return(empty, nil).Once()

	cart, err := manager.Clear(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 0, cart.ItemCount())

	backend.AssertExpectations(t)
}

func TestCartManager_Clear_DeletesEveryItem(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))

	full := cartWithItems("cart_01", "reg_us", 1, 2, 3, 4, 5)
	empty := cartWithItems("cart_01", "reg_us")
	backend.On("RetrieveCart", mock.Anything, "cart_01").Return(full, nil).Once()
	for _, item := range full.Items {
		backend.On("DeleteLineItem", mock.Anything, "cart_01", item.ID).Return(empty, nil).Once()
	}
	backend.On("RetrieveCart", mock.Anything, "cart_01").Return(empty, nil).Once()

	cart, err := manager.Clear(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 0, cart.ItemCount())

	snap, err := st.CartSnapshot(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 0, snap.ItemCount())

	backend.AssertExpectations(t)
}

func TestCartManager_Clear_FailedDeleteSurfacesError(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))

	full := cartWithItems("cart_01", "reg_us", 1)
	backend.On("RetrieveCart", mock.Anything, "cart_01").Return(full, nil).Once()
	backend.On("DeleteLineItem", mock.Anything, "cart_01", "item_a").
		Return(nil, apperrors.Unavailable("backend down")).Once()

	_, err := manager.Clear(ctx, "sess-1")
	require.Error(t, err)
}

// --- SetRegion ---

func TestCartManager_SetRegion_SameRegionIsNoop(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	current := cartWithItems("cart_01", "reg_us", 2)
	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))
	require.NoError(t, st.SetCartSnapshot(ctx, "sess-1", current))

	cart, err := manager.SetRegion(ctx, "sess-1", "reg_us")
	require.NoError(t, err)
	assert.Equal(t, "cart_01", cart.ID)
	assert.Equal(t, 2, cart.ItemCount())

	backend.AssertNotCalled(t, "CreateCart", mock.Anything, mock.Anything)
}

func TestCartManager_SetRegion_ChangeReplacesCartWithoutItems(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	current := cartWithItems("cart_01", "reg_us", 2, 3)
	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_01"))
	require.NoError(t, st.SetCartSnapshot(ctx, "sess-1", current))

	replacement := cartWithItems("cart_02", "reg_eu")
	backend.On("CreateCart", mock.Anything, "reg_eu").Return(replacement, nil).Once()

	cart, err := manager.SetRegion(ctx, "sess-1", "reg_eu")
	require.NoError(t, err)
	assert.Equal(t, "cart_02", cart.ID)
	assert.Equal(t, 0, cart.ItemCount())

	// Items never carry over between regions.
	backend.AssertNotCalled(t, "AddLineItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	id, err := st.CartID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "cart_02", id)
}

func TestCartManager_SetRegion_CreatesCartWhenSessionHasNone(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	created := cartWithItems("cart_01", "reg_eu")
	backend.On("CreateCart", mock.Anything, "reg_eu").Return(created, nil).Once()

	cart, err := manager.SetRegion(ctx, "sess-1", "reg_eu")
	require.NoError(t, err)
	assert.Equal(t, "cart_01", cart.ID)

	id, err := st.CartID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "cart_01", id)
}

// --- AttachUser ---

func TestCartManager_AttachUser_RestoresRegisteredCart(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	require.NoError(t, st.SetUserCarts(ctx, []store.UserCart{
		{UserID: "cus_01", CartID: "cart_reg", RegionID: "reg_us", CreatedAt: time.Now().UTC()},
	}))
	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_guest"))

	registered := cartWithItems("cart_reg", "reg_us", 4)
	backend.On("RetrieveCart", mock.Anything, "cart_reg").Return(registered, nil).Once()

	customer := &medusa.Customer{ID: "cus_01", Email: "jo@example.com"}
	cart, err := manager.AttachUser(ctx, "sess-1", customer, "reg_us")
	require.NoError(t, err)
	assert.Equal(t, "cart_reg", cart.ID)
	assert.Equal(t, 4, cart.ItemCount())

	// The session now tracks the registered cart; the guest cart is
	// abandoned, not merged.
	id, err := st.CartID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "cart_reg", id)

	backend.AssertNotCalled(t, "UpdateCart", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartManager_AttachUser_RegistersSessionCart(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	// A stale entry for the same customer in another region gets replaced.
	require.NoError(t, st.SetUserCarts(ctx, []store.UserCart{
		{UserID: "cus_01", CartID: "cart_old", RegionID: "reg_eu", CreatedAt: time.Now().UTC()},
		{UserID: "cus_02", CartID: "cart_other", RegionID: "reg_us", CreatedAt: time.Now().UTC()},
	}))
	require.NoError(t, st.SetCartID(ctx, "sess-1", "cart_guest"))

	attached := cartWithItems("cart_guest", "reg_us", 1)
	backend.On("UpdateCart", mock.Anything, "cart_guest", map[string]any{"email": "jo@example.com"}).
		Return(attached, nil).Once()

	customer := &medusa.Customer{ID: "cus_01", Email: "jo@example.com"}
	cart, err := manager.AttachUser(ctx, "sess-1", customer, "reg_us")
	require.NoError(t, err)
	assert.Equal(t, "cart_guest", cart.ID)

	index, err := st.UserCarts(ctx)
	require.NoError(t, err)
	require.Len(t, index, 2)

	var mine []store.UserCart
	for _, e := range index {
		if e.UserID == "cus_01" {
			mine = append(mine, e)
		}
	}
	require.Len(t, mine, 1)
	assert.Equal(t, "cart_guest", mine[0].CartID)
	assert.Equal(t, "reg_us", mine[0].RegionID)
}

func TestCartManager_AttachUser_CreatesCartWhenSessionHasNone(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	created := cartWithItems("cart_new", "reg_us")
	backend.On("CreateCart", mock.Anything, "reg_us").Return(created, nil).Once()
	backend.On("UpdateCart", mock.Anything, "cart_new", map[string]any{"email": "jo@example.com"}).
		Return(created, nil).Once()

	customer := &medusa.Customer{ID: "cus_01", Email: "jo@example.com"}
	cart, err := manager.AttachUser(ctx, "sess-1", customer, "reg_us")
	require.NoError(t, err)
	assert.Equal(t, "cart_new", cart.ID)

	index, err := st.UserCarts(ctx)
	require.NoError(t, err)
	require.Len(t, index, 1)
	assert.Equal(t, "cus_01", index[0].UserID)
}

func TestCartManager_Snapshot(t *testing.T) {
	backend := new(mockBackend)
	manager, st := newTestCartManager(t, backend)
	ctx := context.Background()

	snap, err := manager.Snapshot(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, snap)

	require.NoError(t, st.SetCartSnapshot(ctx, "sess-1", cartWithItems("cart_01", "reg_us", 1)))

	snap, err = manager.Snapshot(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "cart_01", snap.ID)
}
