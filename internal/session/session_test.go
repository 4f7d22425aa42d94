package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/storefront-cart/internal/api/apitest"
	"github.com/Cheertaboi/storefront-cart/internal/cache"
	"github.com/Cheertaboi/storefront-cart/internal/cartapi"
	"github.com/Cheertaboi/storefront-cart/internal/models"
	"github.com/Cheertaboi/storefront-cart/internal/session"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	srv := apitest.NewServer(t)
	client, err := cartapi.New(srv.URL, 5*time.Second)
	require.NoError(t, err)
	return session.New(client, cache.NewMemoryStore(), nil)
}

func TestSession_RegisterLoginLogout(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	_, err := s.Current(ctx)
	require.ErrorIs(t, err, session.ErrNoCustomer)

	reg, err := s.Register(ctx, "mo@example.com", "Mo", "long-enough")
	require.NoError(t, err)

	cur, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, cur.ID)

	require.NoError(t, s.Logout(ctx))
	_, err = s.Current(ctx)
	require.ErrorIs(t, err, session.ErrNoCustomer)

	_, err = s.Login(ctx, "mo@example.com", "wrong-password")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
	_, err = s.Current(ctx)
	require.ErrorIs(t, err, session.ErrNoCustomer, "failed login must not sign in")

	logged, err := s.Login(ctx, "mo@example.com", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, logged.ID)
}

func TestSession_GuestAndStatus(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	g, err := s.Guest(ctx, "guest@example.com")
	require.NoError(t, err)
	assert.True(t, g.Guest)

	updated, err := s.UpdateStatus(ctx, models.CustomerInactive)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerInactive, updated.Status)

	refreshed, err := s.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerInactive, refreshed.Status)

	_, err = s.UpdateStatus(ctx, "deleted")
	require.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestSession_RefreshForgetsUnknownCustomer(t *testing.T) {
	ctx := context.Background()
	srv := apitest.NewServer(t)
	client, err := cartapi.New(srv.URL, 0)
	require.NoError(t, err)
	store := cache.NewMemoryStore()
	require.NoError(t, cache.SetJSON(ctx, store, "customer", models.Customer{ID: "6f1c3c1e-1f44-4a7c-9f55-0d0cbe1e2a10"}))

	s := session.New(client, store, nil)
	_, err = s.Refresh(ctx)
	require.ErrorIs(t, err, session.ErrNoCustomer)
	_, err = s.Current(ctx)
	require.ErrorIs(t, err, session.ErrNoCustomer)
}
