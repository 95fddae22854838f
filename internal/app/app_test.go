package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artfolio/internal/account"
	"artfolio/shared/go/logging"
)

// fakeBackend serves login and favorites; flipping expired makes every
// cookie-authenticated endpoint answer 403.
type fakeBackend struct {
	expired atomic.Bool
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "s3cr3t", Path: "/"})
		w.Write([]byte(`{"_id":"u1","fullname":"Jan Vermeer","email":"jan@example.com"}`))
	})
	mux.HandleFunc("/favorites", func(w http.ResponseWriter, r *http.Request) {
		if b.expired.Load() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		w.Write([]byte(`[{"artistId":"a1","artistName":"Monet","addedAt":"2026-08-01T10:00:00Z"}]`))
	})
	return mux
}

func newTestApp(t *testing.T, baseURL string) *App {
	t.Helper()
	a, err := New(Config{BaseURL: baseURL, DataDir: t.TempDir()}, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestApp_LoginThenSessionExpiry(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	a := newTestApp(t, srv.URL)
	ctx := context.Background()

	_, err := a.Session.Login(ctx, "jan@example.com", "hunter2")
	require.NoError(t, err)
	assert.True(t, a.Session.LoggedIn().Get())
	assert.True(t, a.Favorites.IsFavorite("a1"))

	// Backend revokes the session: the next favorites call runs the full
	// invalidation path through the wired expiry hook.
	backend.expired.Store(true)

	err = a.Favorites.Toggle(ctx, "a2")
	assert.ErrorIs(t, err, account.ErrSessionExpired)

	assert.False(t, a.Session.LoggedIn().Get(), "session transitions to logged out")
	assert.Nil(t, a.Session.User().Get())
	assert.Empty(t, a.Favorites.List().Get(), "favorites cleared on expiry")
	assert.Empty(t, a.Jar.Hosts(), "cookie store emptied")
	assert.Nil(t, a.Account.CurrentUser(), "stored user purged")
}

func TestApp_SessionSurvivesRestart(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	dataDir := t.TempDir()

	first, err := New(Config{BaseURL: srv.URL, DataDir: dataDir}, logging.Nop())
	require.NoError(t, err)
	_, err = first.Session.Login(context.Background(), "jan@example.com", "hunter2")
	require.NoError(t, err)
	first.Close()

	// A second app over the same data dir restores user and cookies.
	second, err := New(Config{BaseURL: srv.URL, DataDir: dataDir}, logging.Nop())
	require.NoError(t, err)
	defer second.Close()

	assert.True(t, second.Session.LoggedIn().Get())
	require.NotNil(t, second.Session.User().Get())
	assert.Equal(t, "u1", second.Session.User().Get().ID)
	assert.NotEmpty(t, second.Jar.Hosts(), "cookies reloaded from disk")

	// And the restored cookies authenticate follow-up calls.
	require.NoError(t, second.Favorites.Load(context.Background()))
	assert.True(t, second.Favorites.IsFavorite("a1"))
}
