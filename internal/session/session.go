package session

import (
	"context"

	"artfolio/internal/notify"
	"artfolio/internal/watch"
	"artfolio/shared/go/logging"
	"artfolio/shared/go/models"
)

// Service is the slice of the account client used by the session state.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	CurrentUser() *models.User
}

// Session is a two-state machine: logged out or logged in with a current
// user. Entering the logged-out state always clears the current user and
// the favorites state, whichever path triggered the transition.
type Session struct {
	svc       Service
	favorites *Favorites
	bus       *notify.Bus
	log       *logging.Logger

	user     *watch.Value[*models.User]
	loggedIn *watch.Value[bool]
}

// NewSession creates a logged-out session.
func NewSession(svc Service, favorites *Favorites, bus *notify.Bus, log *logging.Logger) *Session {
	return &Session{
		svc:       svc,
		favorites: favorites,
		bus:       bus,
		log:       log,
		user:      watch.NewValue[*models.User](nil),
		loggedIn:  watch.NewValue(false),
	}
}

// User exposes the current user for subscription; nil when logged out.
func (s *Session) User() *watch.Value[*models.User] {
	return s.user
}

// LoggedIn exposes the login flag for subscription.
func (s *Session) LoggedIn() *watch.Value[bool] {
	return s.loggedIn
}

// Restore transitions to logged-in from the locally persisted user, if one
// exists. No network call is made; the next authenticated request will
// reveal whether the session cookie is still honored, and favorites load
// lazily when first asked for.
func (s *Session) Restore() {
	user := s.svc.CurrentUser()
	if user == nil {
		s.log.Debug("no stored session")
		return
	}
	s.setUser(user)
}

// Login authenticates, enters the logged-in state and loads favorites.
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.svc.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.setUser(user)
	if err := s.favorites.Load(ctx); err != nil {
		s.log.Error(err, "load favorites after login")
	}
	s.bus.Show("Login successful", true)
	return user, nil
}

// Register creates an account, enters the logged-in state and loads
// favorites (a fresh account's list is empty, but the server decides).
func (s *Session) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	user, err := s.svc.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	s.setUser(user)
	if err := s.favorites.Load(ctx); err != nil {
		s.log.Error(err, "load favorites after register")
	}
	s.bus.Show("Registration successful", true)
	return user, nil
}

// Logout revokes the session and enters the logged-out state. The local
// transition happens even when the server call fails; only then is the
// error reported.
func (s *Session) Logout(ctx context.Context) error {
	err := s.svc.Logout(ctx)
	s.ClearLocal()
	if err != nil {
		s.log.Error(err, "logout")
		return err
	}
	s.bus.Show("Logged out successfully", true)
	return nil
}

// Delete removes the account. The logged-out transition happens only on a
// confirmed deletion; a 403 reaches ClearLocal through the session-expiry
// hook instead.
func (s *Session) Delete(ctx context.Context) error {
	if err := s.svc.DeleteAccount(ctx); err != nil {
		s.log.Error(err, "delete account")
		return err
	}
	s.ClearLocal()
	s.bus.Show("Account deleted", true)
	return nil
}

// ClearLocal enters the logged-out state: current user gone, favorites
// cleared. It is also the session-expiry hook target.
func (s *Session) ClearLocal() {
	s.user.Set(nil)
	s.loggedIn.Set(false)
	s.favorites.Clear()
}

func (s *Session) setUser(user *models.User) {
	s.user.Set(user)
	s.loggedIn.Set(true)
}
