package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/couchcryptid/water-monitor-dashboard/internal/session"
)

// NavEntry is one item of the navigation list.
type NavEntry struct {
	Label string
	Path  string
}

var navEntries = [...]NavEntry{
	{Label: "Alerts", Path: "/alerts"},
	{Label: "Readings", Path: "/readings"},
	{Label: "Locations", Path: "/locations"},
	{Label: "Reports", Path: "/reports"},
}

// Shell is the layout around every authenticated page.
type Shell struct {
	store  session.Store
	nav    session.Navigator
	notes  *Notifications
	logger *slog.Logger

	mu       sync.Mutex
	menuOpen bool
}

// NewShell creates the layout shell.
func NewShell(store session.Store, nav session.Navigator, opts Options) *Shell {
	return &Shell{store: store, nav: nav, notes: opts.Notifications, logger: opts.Logger}
}

// Entries returns the fixed navigation list.
func (s *Shell) Entries() []NavEntry {
	entries := make([]NavEntry, len(navEntries))
	copy(entries, navEntries[:])
	return entries
}

// Authenticated reports whether a token is held.
func (s *Shell) Authenticated() bool {
	return s.store.GetToken() != ""
}

// Logout clears the token and sends the user to login.
func (s *Shell) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.menuOpen = false
	s.mu.Unlock()

	err := s.store.ClearToken()
	if err != nil {
		s.logger.Error("clear session token failed", "error", err)
	}
	s.notes.Push(LevelInfo, "You have been signed out.")
	session.NavigatorFrom(ctx, s.nav).Navigate(session.LoginPath)
	return err
}

// ToggleMobileMenu flips the mobile menu and returns the new state.
func (s *Shell) ToggleMobileMenu() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menuOpen = !s.menuOpen
	return s.menuOpen
}

// MobileMenuOpen reports whether the mobile menu is open.
func (s *Shell) MobileMenuOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menuOpen
}
