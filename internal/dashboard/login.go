package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/couchcryptid/water-monitor-dashboard/internal/adapter/api"
	"github.com/couchcryptid/water-monitor-dashboard/internal/observability"
	"github.com/couchcryptid/water-monitor-dashboard/internal/session"
)

var (
	// ErrMissingCredentials is returned when a login field is empty.
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrInvalidCredentials is returned when the API rejects the login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (string, error)
}

// LoginForm is the login page view-model.
type LoginForm struct {
	auth    Authenticator
	store   session.Store
	nav     session.Navigator
	notes   *Notifications
	metrics *observability.Metrics
	logger  *slog.Logger

	mu       sync.Mutex
	username string
}

// NewLoginForm creates the login view-model.
func NewLoginForm(auth Authenticator, store session.Store, nav session.Navigator, opts Options) *LoginForm {
	return &LoginForm{
		auth:    auth,
		store:   store,
		nav:     nav,
		notes:   opts.Notifications,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
}

// Username returns the last submitted username so the form can be re-filled.
func (f *LoginForm) Username() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.username
}

// Submit logs in. On success the token is stored and the user is sent to the
// default page; on failure a notification is raised and the form stays.
func (f *LoginForm) Submit(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	f.mu.Lock()
	f.username = username
	f.mu.Unlock()

	if username == "" || password == "" {
		f.metrics.Logins.WithLabelValues("invalid").Inc()
		f.notes.Push(LevelError, "Username and password are required.")
		return ErrMissingCredentials
	}

	token, err := f.auth.Login(ctx, api.Credentials{Username: username, Password: password})
	if err != nil {
		f.metrics.Logins.WithLabelValues("rejected").Inc()
		f.logger.Info("login rejected", "username", username, "error", err)
		f.notes.Push(LevelError, "Invalid credentials. Please try again.")
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	if err := f.store.SetToken(token); err != nil {
		f.logger.Error("store session token failed", "error", err)
		f.notes.Push(LevelError, "Signed in, but the session could not be saved.")
		return fmt.Errorf("store token: %w", err)
	}

	f.metrics.Logins.WithLabelValues("success").Inc()
	f.logger.Info("login succeeded", "username", username)
	session.NavigatorFrom(ctx, f.nav).Navigate(session.DefaultPath)
	return nil
}
