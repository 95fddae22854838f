// Package app wires single instances of every service (preference store,
// cookie jar, notification bus, API clients, search controller and view
// state) into one explicitly constructed registry. Consumers receive
// references from here instead of reaching for ambient singletons.
package app

import (
	"fmt"
	"time"

	"artfolio/internal/account"
	"artfolio/internal/catalog"
	"artfolio/internal/cookiejar"
	"artfolio/internal/notify"
	"artfolio/internal/prefs"
	"artfolio/internal/search"
	"artfolio/internal/session"
	"artfolio/shared/go/logging"
)

// Config holds the settings the registry needs.
type Config struct {
	// BaseURL is the root of the catalog backend, without trailing slash.
	BaseURL string
	// DataDir is where the user and cookie documents live.
	DataDir string
	// Timeout bounds every HTTP call; zero means the client default.
	Timeout time.Duration
}

// App is the wired object graph. All fields are single shared instances.
type App struct {
	Log       *logging.Logger
	Store     *prefs.Store
	Jar       *cookiejar.Jar
	Bus       *notify.Bus
	Catalog   *catalog.Client
	Account   *account.Client
	Search    *search.Controller
	Favorites *session.Favorites
	Session   *session.Session
}

// New builds the registry and restores any persisted session. The 403
// session-expiry path is wired here: after the account client purges
// storage and cookies, the session state transitions to logged-out, which
// in turn clears favorites.
func New(cfg Config, log *logging.Logger) (*App, error) {
	store, err := prefs.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open preference store: %w", err)
	}

	jar := cookiejar.New(store, log)
	bus := notify.New()

	catalogClient := catalog.New(cfg.BaseURL, cfg.Timeout, log)
	accountClient := account.New(cfg.BaseURL, cfg.Timeout, jar, store, bus, log)

	favorites := session.NewFavorites(accountClient, bus, log)
	sess := session.NewSession(accountClient, favorites, bus, log)
	accountClient.OnSessionExpired(sess.ClearLocal)

	a := &App{
		Log:       log,
		Store:     store,
		Jar:       jar,
		Bus:       bus,
		Catalog:   catalogClient,
		Account:   accountClient,
		Search:    search.New(catalogClient, log),
		Favorites: favorites,
		Session:   sess,
	}

	a.Session.Restore()
	return a, nil
}

// Close releases background work.
func (a *App) Close() {
	a.Search.Close()
}
