package mockapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/water-monitor-dashboard/internal/config"
	"github.com/couchcryptid/water-monitor-dashboard/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.April, 27, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(testNow)
	srv, err := NewServer(&config.MockAPIConfig{
		HTTPAddr:     ":0",
		JWTSecret:    "test-secret-value",
		TokenTTL:     time.Hour,
		DemoUsername: "admin",
		DemoPassword: "password",
	}, clock, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return srv, clock
}

func serve(srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, srv *Server) string {
	t.Helper()
	rec := serve(srv, http.MethodPost, "/api/login", "", `{"username":"admin","password":"password"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := serve(srv, http.MethodPost, "/api/login", "", `{"username":"admin","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(srv, http.MethodPost, "/api/login", "", `{"username":"root","password":"password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := serve(srv, http.MethodPost, "/api/login", "", `{"username":"admin"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDataEndpoints_RequireToken(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/alerts", "/api/locations", "/api/readings", "/api/reports"} {
		assert.Equal(t, http.StatusUnauthorized, serve(srv, http.MethodGet, path, "", "").Code, path)
		assert.Equal(t, http.StatusUnauthorized, serve(srv, http.MethodGet, path, "garbage", "").Code, path)
	}
}

func TestDataEndpoints_ServeSeededData(t *testing.T) {
	srv, _ := newTestServer(t)
	token := login(t, srv)

	rec := serve(srv, http.MethodGet, "/api/readings", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var readings []domain.Reading
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &readings))
	assert.Len(t, readings, len(srv.data.readings))
	assert.Equal(t, testNow, readings[0].Timestamp)

	rec = serve(srv, http.MethodGet, "/api/alerts", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var alerts []domain.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	assert.NotEmpty(t, alerts)

	rec = serve(srv, http.MethodGet, "/api/locations", token, "")
	var locations []domain.Location
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &locations))
	assert.Len(t, locations, len(sites))
}

func TestToken_ExpiresAfterTTL(t *testing.T) {
	srv, clock := newTestServer(t)
	token := login(t, srv)

	assert.Equal(t, http.StatusOK, serve(srv, http.MethodGet, "/api/alerts", token, "").Code)

	clock.Advance(time.Hour + time.Minute)

	assert.Equal(t, http.StatusUnauthorized, serve(srv, http.MethodGet, "/api/alerts", token, "").Code)
}

func TestToken_RejectsOtherSecret(t *testing.T) {
	srv, _ := newTestServer(t)
	other, err := newAuthenticator("admin", "password", "another-secret", time.Hour, clockwork.NewFakeClockAt(testNow))
	require.NoError(t, err)
	forged, err := other.issueToken("admin")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, serve(srv, http.MethodGet, "/api/alerts", forged, "").Code)
}

func TestDownload_CSV(t *testing.T) {
	srv, _ := newTestServer(t)
	token := login(t, srv)

	var compliance domain.Report
	for _, r := range srv.data.reports {
		if r.Type == "monthly" {
			compliance = r
		}
	}
	require.NotEmpty(t, compliance.ID)

	rec := serve(srv, http.MethodGet, compliance.DownloadURL, token, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "monthly-compliance-report.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Equal(t, "id,location,ph,turbidity,temperature,timestamp", lines[0])
	unsafe := 0
	for _, r := range srv.data.readings {
		if r.Unsafe() {
			unsafe++
		}
	}
	assert.Len(t, lines, unsafe+1)
}

func TestDownload_UnknownReport(t *testing.T) {
	srv, _ := newTestServer(t)
	token := login(t, srv)

	rec := serve(srv, http.MethodGet, "/api/reports/missing/download", token, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSeed_StableReportIDs(t *testing.T) {
	a := seed(testNow)
	b := seed(testNow.Add(48 * time.Hour))

	require.Len(t, a.reports, len(reportSpecs))
	for i := range a.reports {
		assert.Equal(t, a.reports[i].ID, b.reports[i].ID)
	}
}

func TestSeed_AlertsFollowUnsafeReadings(t *testing.T) {
	d := seed(testNow)

	summary := domain.DeriveAlertSummary(d.alerts)
	readings := domain.DeriveReadingSummary(d.readings)

	assert.Equal(t, readings.Unsafe, summary.Critical+summary.Warning)
	assert.Equal(t, 1, summary.Info, "one inactive site")
}
