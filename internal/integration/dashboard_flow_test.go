package integration_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/water-monitor-dashboard/internal/adapter/api"
	"github.com/couchcryptid/water-monitor-dashboard/internal/adapter/mockapi"
	"github.com/couchcryptid/water-monitor-dashboard/internal/adapter/web"
	"github.com/couchcryptid/water-monitor-dashboard/internal/config"
	"github.com/couchcryptid/water-monitor-dashboard/internal/dashboard"
	"github.com/couchcryptid/water-monitor-dashboard/internal/observability"
	"github.com/couchcryptid/water-monitor-dashboard/internal/session"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	dashboardURL string
	browser      *http.Client
	clock        *clockwork.FakeClock
	store        session.Store
	upstream     *httptest.Server
}

// startStack runs the demo API and the dashboard in-process, wired the same
// way cmd/mockapi and cmd/dashboard wire them.
func startStack(t *testing.T, mode dashboard.FallbackMode) *stack {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := clockwork.NewFakeClockAt(time.Now().UTC())

	apiSrv, err := mockapi.NewServer(&config.MockAPIConfig{
		JWTSecret:    "integration-secret",
		TokenTTL:     30 * time.Minute,
		DemoUsername: "admin",
		DemoPassword: "password",
	}, clock, logger)
	require.NoError(t, err)
	upstream := httptest.NewServer(apiSrv.Handler())
	t.Cleanup(upstream.Close)

	store, err := session.NewFileStore(t.TempDir() + "/session.json")
	require.NoError(t, err)
	redirects := session.NewRedirects()
	metrics := observability.NewMetricsForTesting()
	client := api.NewClient(upstream.URL, 5*time.Second, store, redirects, metrics, logger)
	dash := dashboard.New(client, store, redirects, dashboard.Options{Mode: mode, Metrics: metrics, Logger: logger})

	front := httptest.NewServer(web.NewServer(":0", dash, client, logger))
	t.Cleanup(front.Close)

	return &stack{
		dashboardURL: front.URL,
		browser: &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}},
		clock:    clock,
		store:    store,
		upstream: upstream,
	}
}

func (s *stack) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := s.browser.Get(s.dashboardURL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (s *stack) post(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := s.browser.PostForm(s.dashboardURL+path, form)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp
}

func TestDashboardFlow_LoginBrowseLogout(t *testing.T) {
	s := startStack(t, dashboard.FallbackDemo)

	resp, _ := s.get(t, "/alerts")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, session.LoginPath, resp.Header.Get("Location"))

	resp = s.post(t, "/login", url.Values{"username": {"admin"}, "password": {"password"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, session.DefaultPath, resp.Header.Get("Location"))
	assert.NotEmpty(t, s.store.GetToken())

	resp, body := s.get(t, "/alerts")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "pH level outside safe range")
	assert.NotContains(t, body, "Showing sample data.")

	resp, body = s.get(t, "/readings?location=Rampur")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4, strings.Count(body, `class="reading"`))
	assert.Contains(t, body, `id="avg-ph">7.73<`)

	resp, body = s.get(t, "/locations")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Mandla")

	resp, body = s.get(t, "/reports")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Weekly Water Quality Summary")

	resp = s.post(t, "/logout", url.Values{})
	assert.Equal(t, session.LoginPath, resp.Header.Get("Location"))
	assert.Empty(t, s.store.GetToken())
}

func TestDashboardFlow_ExpiredTokenForcesLogin(t *testing.T) {
	s := startStack(t, dashboard.FallbackDemo)
	s.post(t, "/login", url.Values{"username": {"admin"}, "password": {"password"}})
	require.NotEmpty(t, s.store.GetToken())

	s.clock.Advance(time.Hour)

	resp, _ := s.get(t, "/readings")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, session.LoginPath, resp.Header.Get("Location"))
	assert.Empty(t, s.store.GetToken())

	resp, body := s.get(t, "/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "toast-warning")
}

func TestDashboardFlow_InvalidCredentials(t *testing.T) {
	s := startStack(t, dashboard.FallbackDemo)

	resp := s.post(t, "/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, session.LoginPath, resp.Header.Get("Location"))
	assert.Empty(t, s.store.GetToken())

	_, body := s.get(t, "/login")
	assert.Contains(t, body, "Invalid credentials. Please try again.")
	assert.Contains(t, body, `value="admin"`)
}

func TestDashboardFlow_ReportDownload(t *testing.T) {
	s := startStack(t, dashboard.FallbackDemo)
	s.post(t, "/login", url.Values{"username": {"admin"}, "password": {"password"}})

	_, body := s.get(t, "/reports")
	start := strings.Index(body, `href="/reports/`)
	require.GreaterOrEqual(t, start, 0)
	href := body[start+len(`href="`):]
	href = href[:strings.Index(href, `"`)]

	resp, csv := s.get(t, href)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".csv")
	assert.True(t, strings.HasPrefix(csv, "id,location,ph"))
}

func TestDashboardFlow_APIDownFallsBack(t *testing.T) {
	demo := startStack(t, dashboard.FallbackDemo)
	demo.post(t, "/login", url.Values{"username": {"admin"}, "password": {"password"}})
	demo.upstream.Close()

	resp, body := demo.get(t, "/locations")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Showing sample data.")
	assert.Contains(t, body, "Could not load locations. Showing sample data.")

	resp, _ = demo.get(t, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	strict := startStack(t, dashboard.FallbackError)
	strict.post(t, "/login", url.Values{"username": {"admin"}, "password": {"password"}})
	strict.upstream.Close()

	_, body = strict.get(t, "/locations")
	assert.NotContains(t, body, "Showing sample data.")
	assert.Contains(t, body, `class="error-panel"`)
	assert.Contains(t, body, "Could not load locations:")
	assert.NotContains(t, body, "No locations.")
}
