package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artfolio/internal/cookiejar"
	"artfolio/internal/notify"
	"artfolio/internal/prefs"
	"artfolio/shared/go/logging"
)

type fixture struct {
	client *Client
	jar    *cookiejar.Jar
	store  *prefs.Store
	bus    *notify.Bus
	srvURL *url.URL
}

func newFixture(t *testing.T, handler http.Handler) *fixture {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := prefs.New(t.TempDir())
	require.NoError(t, err)

	jar := cookiejar.New(store, logging.Nop())
	bus := notify.NewWithDelay(time.Hour)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	return &fixture{
		client: New(srv.URL, 0, jar, store, bus, logging.Nop()),
		jar:    jar,
		store:  store,
		bus:    bus,
		srvURL: u,
	}
}

func TestClient_LoginSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var creds credentials
		require.NoError(t, decodeBody(r, &creds))
		assert.Equal(t, "jan@example.com", creds.Email)
		assert.Equal(t, "hunter2", creds.Password)

		http.SetCookie(w, &http.Cookie{Name: "session", Value: "s3cr3t", Path: "/"})
		w.Write([]byte(`{"_id":"u1","fullname":"Jan Vermeer","email":"jan@example.com"}`))
	})
	f := newFixture(t, mux)

	user, err := f.client.Login(context.Background(), "jan@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Jan Vermeer", user.Fullname)

	// Side effects: user persisted, session cookie captured.
	stored := f.client.CurrentUser()
	require.NotNil(t, stored)
	assert.Equal(t, "u1", stored.ID)

	cookies := f.jar.Cookies(f.srvURL)
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, "s3cr3t", cookies[0].Value)
}

func TestClient_LoginInvalidCredentials(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))

	_, err := f.client.Login(context.Background(), "jan@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, f.client.CurrentUser())
}

func TestClient_RegisterPersistsUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var creds credentials
		require.NoError(t, decodeBody(r, &creds))
		assert.Equal(t, "Jan Vermeer", creds.Name)
		w.Write([]byte(`{"_id":"u2","fullname":"Jan Vermeer","email":"jan@example.com"}`))
	})
	f := newFixture(t, mux)

	user, err := f.client.Register(context.Background(), "Jan Vermeer", "jan@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
	require.NotNil(t, f.client.CurrentUser())
}

func TestClient_LogoutClearsLocalStateEvenOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	f := newFixture(t, mux)
	seedSession(t, f)

	err := f.client.Logout(context.Background())
	assert.Error(t, err)

	assert.Nil(t, f.client.CurrentUser())
	assert.Empty(t, f.jar.Cookies(f.srvURL))
}

func TestClient_TransportErrorLeavesSessionIntact(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	f := newFixture(t, http.NotFoundHandler())
	srv.Close()

	// Swap in a dead endpoint while keeping the fixture's jar and store.
	dead := New(srv.URL, 0, f.jar, f.store, f.bus, logging.Nop())
	seedSession(t, f)

	err := dead.Logout(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionExpired)

	assert.NotNil(t, dead.CurrentUser(), "user must survive a transport failure")
	assert.NotEmpty(t, f.jar.Cookies(f.srvURL), "cookies must survive a transport failure")
	assert.False(t, f.bus.Current().Visible, "no notice on transport failure")
}

func TestClient_ForbiddenTriggersSessionInvalidation(t *testing.T) {
	tests := []struct {
		name string
		call func(c *Client) error
	}{
		{"delete account", func(c *Client) error { return c.DeleteAccount(context.Background()) }},
		{"list favorites", func(c *Client) error {
			_, err := c.ListFavorites(context.Background())
			return err
		}},
		{"add favorite", func(c *Client) error {
			_, err := c.AddFavorite(context.Background(), "a1")
			return err
		}},
		{"remove favorite", func(c *Client) error { return c.RemoveFavorite(context.Background(), "a1") }},
		{"logout", func(c *Client) error { return c.Logout(context.Background()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "forbidden", http.StatusForbidden)
			}))
			seedSession(t, f)

			expiredHookCalls := 0
			f.client.OnSessionExpired(func() { expiredHookCalls++ })

			notices := 0
			ch, cancel := f.bus.Watch().Subscribe()
			defer cancel()
			<-ch // zero value

			err := tt.call(f.client)
			assert.ErrorIs(t, err, ErrSessionExpired)

			assert.Nil(t, f.client.CurrentUser(), "user must be purged")
			assert.Empty(t, f.jar.Cookies(f.srvURL), "cookies must be purged")
			assert.Equal(t, 1, expiredHookCalls)

			drain := time.After(50 * time.Millisecond)
		loop:
			for {
				select {
				case n := <-ch:
					if n.Visible {
						notices++
						assert.Equal(t, "Session Expired", n.Message)
					}
				case <-drain:
					break loop
				}
			}
			assert.Equal(t, 1, notices, "exactly one Session Expired notice")
		})
	}
}

func TestClient_FavoritesFlow(t *testing.T) {
	added := false
	mux := http.NewServeMux()
	mux.HandleFunc("/favorites", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[
				{"artistId":"a2","artistName":"Degas","addedAt":"2026-08-02T10:00:00Z"},
				{"artistId":"a1","artistName":"Monet","addedAt":"2026-08-01T10:00:00Z"}
			]`))
		case http.MethodPost:
			var req struct {
				ArtistID string `json:"artistId"`
			}
			require.NoError(t, decodeBody(r, &req))
			assert.Equal(t, "a3", req.ArtistID)
			added = true
			w.Write([]byte(`{"artistId":"a3","artistName":"Renoir","addedAt":"2026-08-03T10:00:00Z"}`))
		case http.MethodDelete:
			assert.Equal(t, "a1", r.URL.Query().Get("id"))
			w.WriteHeader(http.StatusOK)
		}
	})
	f := newFixture(t, mux)
	ctx := context.Background()

	favorites, err := f.client.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, "a2", favorites[0].ArtistID, "server order is newest first")

	favorite, err := f.client.AddFavorite(ctx, "a3")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "Renoir", favorite.ArtistName)
	assert.Equal(t, time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC), favorite.AddedAt)

	require.NoError(t, f.client.RemoveFavorite(ctx, "a1"))
}

func TestClient_OtherFailuresDoNotTouchSession(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusBadGateway)
	}))
	seedSession(t, f)

	_, err := f.client.ListFavorites(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionExpired)

	assert.NotNil(t, f.client.CurrentUser())
	assert.NotEmpty(t, f.jar.Cookies(f.srvURL))
}

func TestClient_CurrentUserCorruptBlob(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	require.NoError(t, f.store.Put("user.json", []byte("{broken")))
	assert.Nil(t, f.client.CurrentUser())
}

// seedSession stores a user and a session cookie, as a successful login
// would.
func seedSession(t *testing.T, f *fixture) {
	t.Helper()
	require.NoError(t, f.store.Put("user.json", []byte(`{"_id":"u1","fullname":"Jan","email":"jan@example.com"}`)))
	f.jar.SetCookies(f.srvURL, []*http.Cookie{{Name: "session", Value: "s3cr3t", Path: "/"}})
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
