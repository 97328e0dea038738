package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/couchcryptid/water-monitor-dashboard/internal/adapter/api"
	"github.com/couchcryptid/water-monitor-dashboard/internal/domain"
)

// AlertSource fetches alerts.
type AlertSource interface {
	GetAlerts(ctx context.Context) ([]domain.Alert, error)
}

// LocationSource fetches monitored locations.
type LocationSource interface {
	GetLocations(ctx context.Context) ([]domain.Location, error)
}

// ReadingSource fetches sensor readings.
type ReadingSource interface {
	GetReadings(ctx context.Context) ([]domain.Reading, error)
}

// ReportSource lists and downloads reports.
type ReportSource interface {
	GetReports(ctx context.Context) ([]domain.Report, error)
	DownloadReport(ctx context.Context, id string) (api.Download, error)
}

// AlertsView is what the alerts page renders.
type AlertsView struct {
	State    State
	Alerts   []domain.Alert
	Summary  domain.AlertSummary
	Fallback bool
	Failure  string // the fetch error, set only in StateError
}

// AlertsPage lists alerts with per-severity counts.
type AlertsPage struct {
	page *Page[domain.Alert]
}

// NewAlertsPage creates the alerts view-model.
func NewAlertsPage(src AlertSource, opts Options) *AlertsPage {
	return &AlertsPage{page: NewPage("alerts", src.GetAlerts, domain.FallbackAlerts, opts)}
}

// Refresh fetches alerts and returns the resulting view.
func (p *AlertsPage) Refresh(ctx context.Context) AlertsView {
	return alertsView(p.page.Refresh(ctx))
}

// View returns the current view without fetching.
func (p *AlertsPage) View() AlertsView {
	return alertsView(p.page.Snapshot())
}

func alertsView(s Snapshot[domain.Alert]) AlertsView {
	return AlertsView{
		State:    s.State,
		Alerts:   s.Records,
		Summary:  domain.DeriveAlertSummary(s.Records),
		Fallback: s.Fallback,
		Failure:  failureMessage(s),
	}
}

// ReadingsView is what the readings page renders. Summary covers only the
// filtered readings; Locations lists every location in the full set.
type ReadingsView struct {
	State     State
	Readings  []domain.Reading
	Summary   domain.ReadingSummary
	Locations []string
	Filter    string
	Fallback  bool
	Failure   string // the fetch error, set only in StateError
}

// ReadingsPage lists readings with a client-side location filter.
type ReadingsPage struct {
	page *Page[domain.Reading]

	mu     sync.Mutex
	filter string
}

// NewReadingsPage creates the readings view-model.
func NewReadingsPage(src ReadingSource, opts Options) *ReadingsPage {
	return &ReadingsPage{page: NewPage("readings", src.GetReadings, domain.FallbackReadings, opts)}
}

// SetLocationFilter restricts the view to one location. "" or "all" clears it.
func (p *ReadingsPage) SetLocationFilter(location string) {
	if location == domain.AllLocations {
		location = ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filter = location
}

// Refresh fetches readings and returns the resulting view.
func (p *ReadingsPage) Refresh(ctx context.Context) ReadingsView {
	return p.view(p.page.Refresh(ctx))
}

// View returns the current view without fetching.
func (p *ReadingsPage) View() ReadingsView {
	return p.view(p.page.Snapshot())
}

func (p *ReadingsPage) view(s Snapshot[domain.Reading]) ReadingsView {
	p.mu.Lock()
	filter := p.filter
	p.mu.Unlock()

	filtered := domain.FilterReadingsByLocation(s.Records, filter)
	return ReadingsView{
		State:     s.State,
		Readings:  filtered,
		Summary:   domain.DeriveReadingSummary(filtered),
		Locations: domain.DistinctLocations(s.Records),
		Filter:    filter,
		Fallback:  s.Fallback,
		Failure:   failureMessage(s),
	}
}

// LocationsView is what the locations page renders.
type LocationsView struct {
	State     State
	Locations []domain.Location
	Summary   domain.LocationSummary
	Fallback  bool
	Failure   string // the fetch error, set only in StateError
}

// LocationsPage lists monitored locations with status counts and a map viewport.
type LocationsPage struct {
	page *Page[domain.Location]
}

// NewLocationsPage creates the locations view-model.
func NewLocationsPage(src LocationSource, opts Options) *LocationsPage {
	return &LocationsPage{page: NewPage("locations", src.GetLocations, domain.FallbackLocations, opts)}
}

// Refresh fetches locations and returns the resulting view.
func (p *LocationsPage) Refresh(ctx context.Context) LocationsView {
	return locationsView(p.page.Refresh(ctx))
}

// View returns the current view without fetching.
func (p *LocationsPage) View() LocationsView {
	return locationsView(p.page.Snapshot())
}

func locationsView(s Snapshot[domain.Location]) LocationsView {
	return LocationsView{
		State:     s.State,
		Locations: s.Records,
		Summary:   domain.DeriveLocationSummary(s.Records),
		Fallback:  s.Fallback,
		Failure:   failureMessage(s),
	}
}

// ReportsView is what the reports page renders.
type ReportsView struct {
	State    State
	Reports  []domain.Report
	Summary  domain.ReportSummary
	Fallback bool
	Failure  string // the fetch error, set only in StateError
}

// ReportsPage lists generated reports and downloads them.
type ReportsPage struct {
	page  *Page[domain.Report]
	src   ReportSource
	notes *Notifications
}

// NewReportsPage creates the reports view-model.
func NewReportsPage(src ReportSource, opts Options) *ReportsPage {
	return &ReportsPage{
		page:  NewPage("reports", src.GetReports, domain.FallbackReports, opts),
		src:   src,
		notes: opts.Notifications,
	}
}

// Refresh fetches reports and returns the resulting view.
func (p *ReportsPage) Refresh(ctx context.Context) ReportsView {
	return reportsView(p.page.Refresh(ctx))
}

// View returns the current view without fetching.
func (p *ReportsPage) View() ReportsView {
	return reportsView(p.page.Snapshot())
}

// Download fetches a report body. Failures other than an expired session
// raise a notification.
func (p *ReportsPage) Download(ctx context.Context, id string) (api.Download, error) {
	dl, err := p.src.DownloadReport(ctx, id)
	if err != nil {
		if !errors.Is(err, api.ErrUnauthorized) {
			p.notes.Push(LevelError, "Could not download the report.")
		}
		return api.Download{}, err
	}
	return dl, nil
}

func reportsView(s Snapshot[domain.Report]) ReportsView {
	return ReportsView{
		State:    s.State,
		Reports:  s.Records,
		Summary:  domain.DeriveReportSummary(s.Records),
		Fallback: s.Fallback,
		Failure:  failureMessage(s),
	}
}

func failureMessage[T any](s Snapshot[T]) string {
	if s.State != StateError || s.Err == nil {
		return ""
	}
	return s.Err.Error()
}
