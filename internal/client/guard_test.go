package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupGuard(t *testing.T) (*Guard, *Store) {
	t.Helper()
	store, _ := setupStore(t)
	return NewGuard(store, DefaultRoutes()), store
}

func TestGuardAnonymousRedirects(t *testing.T) {
	guard, _ := setupGuard(t)
	ctx := context.Background()

	require.Equal(t, "/login", guard.Resolve(ctx, "/home"))
	require.Equal(t, "/login", guard.Resolve(ctx, "/"))
	require.Equal(t, "", guard.Resolve(ctx, "/login"))
	require.Equal(t, "", guard.Resolve(ctx, "/register"))
}

func TestGuardAuthenticatedRedirects(t *testing.T) {
	guard, store := setupGuard(t)
	ctx := context.Background()

	require.True(t, store.Register(ctx, "alice", "p1", "a@x.com"))
	require.True(t, store.Login(ctx, "alice", "p1"))

	require.Equal(t, "", guard.Resolve(ctx, "/home"))
	require.Equal(t, "/home", guard.Resolve(ctx, "/"))
	require.Equal(t, "/home", guard.Resolve(ctx, "/login"))
	require.Equal(t, "/home", guard.Resolve(ctx, "/register"))
}

func TestGuardRefreshesEmptyMirror(t *testing.T) {
	guard, store := setupGuard(t)
	ctx := context.Background()

	require.True(t, store.Register(ctx, "alice", "p1", "a@x.com"))
	require.True(t, store.Login(ctx, "alice", "p1"))

	// Fresh page load: cookie survives, mirror does not. The guard
	// blocks on a refresh before deciding.
	store.CurrentUser = nil
	require.Equal(t, "", guard.Resolve(ctx, "/home"))
	require.NotNil(t, store.CurrentUser)
}

func TestGuardUnknownRouteProceeds(t *testing.T) {
	guard, _ := setupGuard(t)

	require.Equal(t, "", guard.Resolve(context.Background(), "/about"))
}

func TestGuardFailedRefreshIsAnonymous(t *testing.T) {
	srv := setupServer(t)
	apiClient, err := NewAPIClient(srv.URL + "/api")
	require.NoError(t, err)
	srv.Close()

	store := NewStore(apiClient, &fakeNavigator{})
	guard := NewGuard(store, DefaultRoutes())

	// A network failure is treated as Anonymous, never surfaced.
	require.Equal(t, "/login", guard.Resolve(context.Background(), "/home"))
}
