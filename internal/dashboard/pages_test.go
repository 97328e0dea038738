package dashboard

import (
	"context"
	"testing"

	"github.com/couchcryptid/water-monitor-dashboard/internal/adapter/api"
	"github.com/couchcryptid/water-monitor-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataPages_FetchFailureShowsFallbackDataset(t *testing.T) {
	src := &stubSource{err: errNetwork}
	opts := testOptions(FallbackDemo)
	ctx := context.Background()

	alerts := NewAlertsPage(src, opts).Refresh(ctx)
	assert.Equal(t, domain.FallbackAlerts(), alerts.Alerts)
	assert.True(t, alerts.Fallback)

	readings := NewReadingsPage(src, opts).Refresh(ctx)
	assert.Equal(t, domain.FallbackReadings(), readings.Readings)
	assert.True(t, readings.Fallback)

	locations := NewLocationsPage(src, opts).Refresh(ctx)
	assert.Equal(t, domain.FallbackLocations(), locations.Locations)

	reports := NewReportsPage(src, opts).Refresh(ctx)
	assert.Equal(t, domain.FallbackReports(), reports.Reports)

	for _, n := range []int{len(alerts.Alerts), len(readings.Readings), len(locations.Locations), len(reports.Reports)} {
		assert.NotZero(t, n)
	}
	assert.Len(t, opts.Notifications.Drain(), 4)
}

func TestAlertsPage_Summary(t *testing.T) {
	src := &stubSource{alerts: []domain.Alert{
		{Severity: domain.SeverityCritical},
		{Severity: domain.SeverityWarning},
		{Severity: domain.SeverityCritical},
		{Severity: domain.SeverityInfo},
	}}
	p := NewAlertsPage(src, testOptions(FallbackDemo))

	v := p.Refresh(context.Background())

	assert.Equal(t, StateReady, v.State)
	assert.Equal(t, 2, v.Summary.Critical)
	assert.Equal(t, 1, v.Summary.Warning)
	assert.Equal(t, 1, v.Summary.Info)
	assert.Equal(t, v, p.View())
}

func TestReadingsPage_FilterRecomputesSummary(t *testing.T) {
	src := &stubSource{readings: []domain.Reading{
		{ID: "1", Location: testRampur, PH: 6.0, Turbidity: 1},
		{ID: "2", Location: testSitapur, PH: 9.5, Turbidity: 8},
		{ID: "3", Location: testRampur, PH: 7.0, Turbidity: 2},
		{ID: "4", Location: testRampur, PH: 8.0, Turbidity: 3},
	}}
	p := NewReadingsPage(src, testOptions(FallbackDemo))

	all := p.Refresh(context.Background())
	assert.Len(t, all.Readings, 4)
	assert.Equal(t, "7.63", all.Summary.AvgPH.StringFixed(2))
	assert.Equal(t, []string{testRampur, testSitapur}, all.Locations)

	p.SetLocationFilter(testRampur)
	v := p.View()

	require.Len(t, v.Readings, 3)
	for _, r := range v.Readings {
		assert.Equal(t, testRampur, r.Location)
	}
	assert.Equal(t, testRampur, v.Filter)
	assert.Equal(t, 3, v.Summary.Count)
	assert.Equal(t, "7.00", v.Summary.AvgPH.StringFixed(2))
	assert.Equal(t, "2.00", v.Summary.AvgTurbidity.StringFixed(2))
	assert.Equal(t, []string{testRampur, testSitapur}, v.Locations, "filter options come from the full set")

	p.SetLocationFilter(domain.AllLocations)
	assert.Len(t, p.View().Readings, 4)
	assert.Empty(t, p.View().Filter)
}

func TestLocationsPage_Summary(t *testing.T) {
	src := &stubSource{locations: []domain.Location{
		{Village: testRampur, Status: "Active", Latitude: 25.3, Longitude: 82.9},
		{Village: testSitapur, Status: "warning", Latitude: 27.5, Longitude: 80.6},
	}}
	v := NewLocationsPage(src, testOptions(FallbackDemo)).Refresh(context.Background())

	assert.Equal(t, 1, v.Summary.Active)
	assert.Equal(t, 1, v.Summary.Warning)
	assert.False(t, v.Summary.Map.Empty)
}

func TestReportsPage_Download(t *testing.T) {
	src := &stubSource{download: api.Download{ContentType: "text/csv", Data: []byte("x")}}
	opts := testOptions(FallbackDemo)
	p := NewReportsPage(src, opts)

	dl, err := p.Download(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", dl.ContentType)
	assert.Empty(t, opts.Notifications.Drain())
}

func TestReportsPage_DownloadFailureNotifies(t *testing.T) {
	opts := testOptions(FallbackDemo)
	p := NewReportsPage(&stubSource{err: errNetwork}, opts)

	_, err := p.Download(context.Background(), "1")
	require.ErrorIs(t, err, errNetwork)

	notes := opts.Notifications.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, LevelError, notes[0].Level)
}

func TestReportsPage_DownloadUnauthorizedIsSilent(t *testing.T) {
	opts := testOptions(FallbackDemo)
	p := NewReportsPage(&stubSource{err: api.ErrUnauthorized}, opts)

	_, err := p.Download(context.Background(), "1")
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Empty(t, opts.Notifications.Drain())
}

func TestDataPages_ErrorModeCarriesFailure(t *testing.T) {
	src := &stubSource{err: errNetwork}
	opts := testOptions(FallbackError)
	ctx := context.Background()

	alerts := NewAlertsPage(src, opts).Refresh(ctx)
	assert.Equal(t, StateError, alerts.State)
	assert.Equal(t, errNetwork.Error(), alerts.Failure)
	assert.Empty(t, alerts.Alerts)

	readings := NewReadingsPage(src, opts).Refresh(ctx)
	assert.Equal(t, errNetwork.Error(), readings.Failure)

	locations := NewLocationsPage(src, opts).Refresh(ctx)
	assert.Equal(t, errNetwork.Error(), locations.Failure)

	reports := NewReportsPage(src, opts).Refresh(ctx)
	assert.Equal(t, errNetwork.Error(), reports.Failure)
}

func TestDataPages_DemoFallbackHasNoFailure(t *testing.T) {
	v := NewAlertsPage(&stubSource{err: errNetwork}, testOptions(FallbackDemo)).Refresh(context.Background())

	assert.True(t, v.Fallback)
	assert.Empty(t, v.Failure)
}
