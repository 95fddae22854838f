// Package account is the cookie-authenticated client for auth and
// favorites. Unlike the catalog client, failures here are surfaced to the
// caller, and an HTTP 403 from any session-bound operation triggers the
// uniform invalidation path: purge the stored user, clear the cookie jar
// and publish a "Session Expired" notice.
package account

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"artfolio/internal/cookiejar"
	"artfolio/internal/notify"
	"artfolio/internal/prefs"
	"artfolio/shared/go/logging"
	"artfolio/shared/go/models"
)

// userKey is the preference document holding the logged-in user.
const userKey = "user.json"

const defaultTimeout = 30 * time.Second

var (
	// ErrInvalidCredentials is returned by Login and Register when the
	// backend rejects the submitted credentials.
	ErrInvalidCredentials = errors.New("account: invalid credentials")

	// ErrSessionExpired is returned when the backend answers 403; by the
	// time callers see it, local session state has already been purged.
	ErrSessionExpired = errors.New("account: session expired")
)

// Client performs authenticated requests against the backend. One instance
// is shared by all call sites; the cookie jar it carries is what keeps the
// session alive across process restarts.
type Client struct {
	baseURL    string
	httpClient *http.Client
	jar        *cookiejar.Jar
	store      *prefs.Store
	bus        *notify.Bus
	log        *logging.Logger
	onExpired  func()
}

// New creates an account client whose HTTP client replays cookies from jar.
// A non-positive timeout falls back to 30s.
func New(baseURL string, timeout time.Duration, jar *cookiejar.Jar, store *prefs.Store, bus *notify.Bus, log *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout, Jar: jar},
		jar:        jar,
		store:      store,
		bus:        bus,
		log:        log,
	}
}

// OnSessionExpired registers a hook invoked after the 403 invalidation path
// has purged local state, so view state can transition to logged-out.
func (c *Client) OnSessionExpired(fn func()) {
	c.onExpired = fn
}

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and persists the returned user locally. A rejected
// login yields ErrInvalidCredentials; transport errors propagate wrapped.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/login", nil, credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !successful(resp) {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	c.saveUser(&user)
	return &user, nil
}

// Register creates an account, which also signs the user in.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/register", nil, credentials{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !successful(resp) {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode register response: %w", err)
	}
	c.saveUser(&user)
	return &user, nil
}

// Logout revokes the session server-side. Local user data and cookies are
// cleared even when the backend reports failure: the user's intent is to be
// signed out on this device. Transport errors leave local state untouched.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/auth/logout", nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		c.sessionExpired()
		return ErrSessionExpired
	}

	c.clearUser()
	c.jar.Clear()

	if !successful(resp) {
		return fmt.Errorf("logout: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// DeleteAccount removes the account and clears local session state.
func (c *Client) DeleteAccount(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, "/auth/delete", nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		c.sessionExpired()
		return ErrSessionExpired
	}
	if !successful(resp) {
		return fmt.Errorf("delete account: unexpected status %d", resp.StatusCode)
	}

	c.clearUser()
	c.jar.Clear()
	return nil
}

// CurrentUser returns the locally persisted user, or nil when nobody is
// signed in or the stored blob is unreadable.
func (c *Client) CurrentUser() *models.User {
	data, err := c.store.Get(userKey)
	if err != nil {
		if err != prefs.ErrNotExist {
			c.log.Error(err, "read stored user")
		}
		return nil
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		c.log.Error(err, "stored user corrupt")
		return nil
	}
	return &user
}

func (c *Client) saveUser(user *models.User) {
	data, err := json.Marshal(user)
	if err != nil {
		c.log.Error(err, "serialize user")
		return
	}
	if err := c.store.Put(userKey, data); err != nil {
		c.log.Error(err, "persist user")
	}
}

func (c *Client) clearUser() {
	if err := c.store.Delete(userKey); err != nil {
		c.log.Error(err, "clear stored user")
	}
}

// sessionExpired is the uniform 403 path: purge local session state, then
// tell the user once.
func (c *Client) sessionExpired() {
	c.clearUser()
	c.jar.Clear()
	c.bus.Show("Session Expired", false)
	if c.onExpired != nil {
		c.onExpired()
	}
}

// do issues one request. Transport failures come back wrapped so callers
// can distinguish them from HTTP-level rejection.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Response, error) {
	apiURL := c.baseURL + path
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.HTTPCall(method, apiURL, 0, time.Since(start), err)
		return nil, fmt.Errorf("send request: %w", err)
	}
	c.log.HTTPCall(method, apiURL, resp.StatusCode, time.Since(start), nil)
	return resp, nil
}

func successful(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}
