package dashboard

import (
	"github.com/couchcryptid/water-monitor-dashboard/internal/session"
)

// Client is everything the dashboard needs from the monitoring API.
type Client interface {
	AlertSource
	LocationSource
	ReadingSource
	ReportSource
	Authenticator
}

// Dashboard wires the shell and every page to one client and session.
type Dashboard struct {
	Shell         *Shell
	Login         *LoginForm
	Alerts        *AlertsPage
	Readings      *ReadingsPage
	Locations     *LocationsPage
	Reports       *ReportsPage
	Notifications *Notifications
}

// New builds the dashboard. opts.Notifications is created when nil.
func New(client Client, store session.Store, nav session.Navigator, opts Options) *Dashboard {
	if opts.Notifications == nil {
		opts.Notifications = NewNotifications()
	}
	return &Dashboard{
		Shell:         NewShell(store, nav, opts),
		Login:         NewLoginForm(client, store, nav, opts),
		Alerts:        NewAlertsPage(client, opts),
		Readings:      NewReadingsPage(client, opts),
		Locations:     NewLocationsPage(client, opts),
		Reports:       NewReportsPage(client, opts),
		Notifications: opts.Notifications,
	}
}
