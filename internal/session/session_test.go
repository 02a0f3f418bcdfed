package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/store"
)

func TestSessionService_View_FreshSession(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, newTestLogger())

	view, err := svc.View(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", view.ID)
	assert.False(t, view.LoggedIn)
	assert.False(t, view.DarkMode)
	assert.Nil(t, view.Customer)
	assert.Nil(t, view.Region)
	assert.Empty(t, view.CartID)
	assert.Zero(t, view.ItemCount)
}

func TestSessionService_View_PopulatedSession(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, newTestLogger())
	ctx := context.Background()

	selectTestRegion(t, st, "sess-1")
	require.NoError(t, st.SetLoggedIn(ctx, "sess-1", true))
	require.NoError(t, st.SetDarkMode(ctx, "sess-1", true))
	require.NoError(t, st.SetCustomer(ctx, "sess-1", store.SessionCustomer{
		Customer: sampleCustomer(),
		Token:    "backend-token",
	}))
	require.NoError(t, st.SetCartSnapshot(ctx, "sess-1", cartWithItems("cart_01", "reg_us", 2, 3)))

	view, err := svc.View(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, view.LoggedIn)
	assert.True(t, view.DarkMode)
	require.NotNil(t, view.Customer)
	assert.Equal(t, "cus_01", view.Customer.ID)
	require.NotNil(t, view.Region)
	assert.Equal(t, "reg_us", view.Region.Code)
	assert.Equal(t, "cart_01", view.CartID)
	assert.Equal(t, 5, view.ItemCount)
}

func TestSessionService_View_CustomerHiddenWhenLoggedOut(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, newTestLogger())
	ctx := context.Background()

	// A cached customer without the logged-in flag stays invisible.
	require.NoError(t, st.SetCustomer(ctx, "sess-1", store.SessionCustomer{
		Customer: sampleCustomer(),
		Token:    "backend-token",
	}))

	view, err := svc.View(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, view.LoggedIn)
	assert.Nil(t, view.Customer)
}

func TestSessionService_SetDarkMode(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, newTestLogger())
	ctx := context.Background()

	on, err := svc.SetDarkMode(ctx, "sess-1", true)
	require.NoError(t, err)
	assert.True(t, on)

	stored, err := st.DarkMode(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, stored)

	on, err = svc.SetDarkMode(ctx, "sess-1", false)
	require.NoError(t, err)
	assert.False(t, on)
}
