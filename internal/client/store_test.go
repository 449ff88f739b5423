package client

import (
	"context"
	"database/sql"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/accounthub-be/internal/api"
	"github.com/isdelr/accounthub-be/internal/database"
	"github.com/isdelr/accounthub-be/internal/services"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

// fakeNavigator records navigation calls.
type fakeNavigator struct {
	pushed  []string
	reloads int
}

func (n *fakeNavigator) Push(path string) { n.pushed = append(n.pushed, path) }
func (n *fakeNavigator) Reload()          { n.reloads++ }

func (n *fakeNavigator) lastPush() string {
	if len(n.pushed) == 0 {
		return ""
	}
	return n.pushed[len(n.pushed)-1]
}

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	router := api.NewRouter(
		services.NewUserService(db),
		services.NewSessionService(db, time.Hour),
		services.NewEventService(db),
		"http://localhost:8080", "admin", time.Hour,
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func setupStore(t *testing.T) (*Store, *fakeNavigator) {
	t.Helper()
	srv := setupServer(t)
	apiClient, err := NewAPIClient(srv.URL + "/api")
	require.NoError(t, err)
	nav := &fakeNavigator{}
	return NewStore(apiClient, nav), nav
}

// ---- tests ----

func TestStoreInitAuthAnonymous(t *testing.T) {
	store, _ := setupStore(t)

	store.InitAuth(context.Background())
	require.Nil(t, store.CurrentUser)
	require.False(t, store.Loading)
}

func TestStoreInitAuthNetworkFailure(t *testing.T) {
	srv := setupServer(t)
	apiClient, err := NewAPIClient(srv.URL + "/api")
	require.NoError(t, err)
	srv.Close()

	store := NewStore(apiClient, &fakeNavigator{})
	store.InitAuth(context.Background())
	require.Nil(t, store.CurrentUser)
}

func TestStoreRegisterThenLogin(t *testing.T) {
	store, nav := setupStore(t)
	ctx := context.Background()

	ok := store.Register(ctx, "alice", "p1", "a@x.com")
	require.True(t, ok)
	require.Equal(t, "/login", nav.lastPush())
	// Registration does not log in.
	require.Nil(t, store.CurrentUser)

	ok = store.Login(ctx, "alice", "p1")
	require.True(t, ok)
	require.Equal(t, "/home", nav.lastPush())
	require.NotNil(t, store.CurrentUser)
	require.Equal(t, "alice", store.CurrentUser.Username)
	require.Equal(t, "a@x.com", store.CurrentUser.Email)
}

func TestStoreLoginFailure(t *testing.T) {
	store, nav := setupStore(t)
	ctx := context.Background()

	require.True(t, store.Register(ctx, "alice", "p1", "a@x.com"))
	require.False(t, store.Login(ctx, "alice", "wrong"))
	require.Nil(t, store.CurrentUser)
	require.NotContains(t, nav.pushed, "/home")
}

func TestStoreInitAuthAfterLogin(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.True(t, store.Register(ctx, "alice", "p1", "a@x.com"))
	require.True(t, store.Login(ctx, "alice", "p1"))

	// Simulate a fresh page load: the mirror is empty but the cookie
	// jar still holds the session.
	store.CurrentUser = nil
	store.InitAuth(ctx)
	require.NotNil(t, store.CurrentUser)
	require.Equal(t, "alice", store.CurrentUser.Username)
}

func TestStoreLogout(t *testing.T) {
	store, nav := setupStore(t)
	ctx := context.Background()

	require.True(t, store.Register(ctx, "alice", "p1", "a@x.com"))
	require.True(t, store.Login(ctx, "alice", "p1"))

	store.Logout(ctx)
	require.Nil(t, store.CurrentUser)
	require.Equal(t, "/login", nav.lastPush())

	// The server session is gone too.
	store.InitAuth(ctx)
	require.Nil(t, store.CurrentUser)
}

func TestStoreSelfUpdateForcesLogoutAndReload(t *testing.T) {
	store, nav := setupStore(t)
	ctx := context.Background()

	require.True(t, store.Register(ctx, "alice", "p1", "a@x.com"))
	require.True(t, store.Login(ctx, "alice", "p1"))
	id := store.CurrentUser.ID

	ok := store.UpdateUser(ctx, id, "new@x.com", "")
	require.True(t, ok)
	require.Nil(t, store.CurrentUser)
	require.Equal(t, "/login", nav.lastPush())
	require.Equal(t, 1, nav.reloads)

	// Session destroyed server-side.
	store.InitAuth(ctx)
	require.Nil(t, store.CurrentUser)
}

func TestStoreSelfDeleteForcesLogoutAndReload(t *testing.T) {
	store, nav := setupStore(t)
	ctx := context.Background()

	require.True(t, store.Register(ctx, "alice", "p1", "a@x.com"))
	require.True(t, store.Login(ctx, "alice", "p1"))
	id := store.CurrentUser.ID

	ok := store.DeleteUser(ctx, id)
	require.True(t, ok)
	require.Nil(t, store.CurrentUser)
	require.Equal(t, "/login", nav.lastPush())
	require.Equal(t, 1, nav.reloads)

	// The account is gone entirely.
	require.False(t, store.Login(ctx, "alice", "p1"))
}

func TestStoreAdminUpdateOtherKeepsSession(t *testing.T) {
	store, nav := setupStore(t)
	ctx := context.Background()

	require.True(t, store.Register(ctx, "admin", "root", "admin@x.com"))
	require.True(t, store.Register(ctx, "bob", "p2", "b@y.com"))
	require.True(t, store.Login(ctx, "admin", "root"))

	users, err := store.api.GetUsers(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, users, 1)

	ok := store.UpdateUser(ctx, users[0].ID, "fixed@y.com", "")
	require.True(t, ok)
	require.NotNil(t, store.CurrentUser)
	require.Equal(t, "admin", store.CurrentUser.Username)
	require.Zero(t, nav.reloads)
}

func TestStoreForbiddenUpdateReportsFailure(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.True(t, store.Register(ctx, "alice", "p1", "a@x.com"))
	require.True(t, store.Register(ctx, "bob", "p2", "b@y.com"))
	require.True(t, store.Login(ctx, "alice", "p1"))

	users, err := store.api.GetUsers(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.False(t, store.UpdateUser(ctx, users[0].ID, "hacked@x.com", ""))
	require.False(t, store.DeleteUser(ctx, users[0].ID))
	// The mirror is untouched by the failure.
	require.NotNil(t, store.CurrentUser)
	require.Equal(t, "alice", store.CurrentUser.Username)
}
