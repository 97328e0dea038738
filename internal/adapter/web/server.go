// Package web serves the dashboard pages, the login form and the operational
// endpoints (/healthz, /readyz, /metrics).
package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/water-monitor-dashboard/internal/dashboard"
	"github.com/couchcryptid/water-monitor-dashboard/internal/session"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server renders the dashboard over HTTP.
type Server struct {
	httpServer *http.Server
	dash       *dashboard.Dashboard
	logger     *slog.Logger
}

type redirectsKey struct{}

// NewServer creates the dashboard HTTP server.
func NewServer(addr string, dash *dashboard.Dashboard, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	r := mux.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      scopeNavigation(r),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:   dash,
		logger: logger,
	}

	r.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	r.HandleFunc("/readyz", sharedobs.ReadinessHandler(ready)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, session.DefaultPath, http.StatusSeeOther)
	}).Methods(http.MethodGet)
	r.HandleFunc(session.LoginPath, s.handleLoginForm).Methods(http.MethodGet)
	r.HandleFunc(session.LoginPath, s.handleLogin).Methods(http.MethodPost)

	pages := r.NewRoute().Subrouter()
	pages.Use(s.requireSession)
	pages.HandleFunc("/alerts", s.handleAlerts).Methods(http.MethodGet)
	pages.HandleFunc("/readings", s.handleReadings).Methods(http.MethodGet)
	pages.HandleFunc("/locations", s.handleLocations).Methods(http.MethodGet)
	pages.HandleFunc("/reports", s.handleReports).Methods(http.MethodGet)
	pages.HandleFunc("/reports/{id}/download", s.handleDownload).Methods(http.MethodGet)
	pages.HandleFunc("/{page:alerts|readings|locations|reports}/refresh", s.handleRefresh).Methods(http.MethodPost)
	pages.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	pages.HandleFunc("/menu/toggle", s.handleMenuToggle).Methods(http.MethodPost)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.dash.Shell.Authenticated() {
			http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// scopeNavigation gives each request its own navigator, so a forced logout
// redirects the request whose API call was rejected and no other.
func scopeNavigation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		redirects := session.NewRedirects()
		ctx := context.WithValue(session.WithNavigator(r.Context(), redirects), redirectsKey{}, redirects)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// followNavigation honours a navigation requested while handling this
// request, e.g. the forced logout after a 401. It reports whether it redirected.
func (s *Server) followNavigation(w http.ResponseWriter, r *http.Request) bool {
	redirects, ok := r.Context().Value(redirectsKey{}).(*session.Redirects)
	if !ok {
		return false
	}
	target, ok := redirects.Take()
	if !ok {
		return false
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
	return true
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if s.dash.Shell.Authenticated() {
		http.Redirect(w, r, session.DefaultPath, http.StatusSeeOther)
		return
	}
	s.render(w, r, pageLogin, s.dash.Login.Username())
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	err := s.dash.Login.Submit(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if s.followNavigation(w, r) {
		return
	}
	if err != nil {
		s.render(w, r, pageLogin, s.dash.Login.Username())
		return
	}
	http.Redirect(w, r, session.DefaultPath, http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	_ = s.dash.Shell.Logout(r.Context()) // logged by the shell; the user is signed out either way
	if s.followNavigation(w, r) {
		return
	}
	http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
}

func (s *Server) handleMenuToggle(w http.ResponseWriter, r *http.Request) {
	s.dash.Shell.ToggleMobileMenu()
	http.Redirect(w, r, localPath(r.FormValue("return")), http.StatusSeeOther)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	view := s.dash.Alerts.Refresh(r.Context())
	if s.followNavigation(w, r) {
		return
	}
	s.render(w, r, pageAlerts, view)
}

func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	s.dash.Readings.SetLocationFilter(r.URL.Query().Get("location"))
	view := s.dash.Readings.Refresh(r.Context())
	if s.followNavigation(w, r) {
		return
	}
	s.render(w, r, pageReadings, view)
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	view := s.dash.Locations.Refresh(r.Context())
	if s.followNavigation(w, r) {
		return
	}
	s.render(w, r, pageLocations, view)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	view := s.dash.Reports.Refresh(r.Context())
	if s.followNavigation(w, r) {
		return
	}
	s.render(w, r, pageReports, view)
}

// handleRefresh re-mounts a page: the redirected GET performs the fetch.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	target := "/" + mux.Vars(r)["page"]
	if loc := r.FormValue("location"); loc != "" && target == "/readings" {
		target += "?location=" + url.QueryEscape(loc)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	dl, err := s.dash.Reports.Download(r.Context(), id)
	if s.followNavigation(w, r) {
		return
	}
	if err != nil {
		s.logger.Warn("report download failed", "report_id", id, "error", err)
		http.Redirect(w, r, "/reports", http.StatusSeeOther)
		return
	}

	contentType := dl.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	filename := dl.Filename
	if filename == "" {
		filename = "report-" + id
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(filename, `"`, "")+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dl.Data)
}

// localPath keeps redirects on this site: anything but an absolute local
// path falls back to the default page.
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, `\`) {
		return session.DefaultPath
	}
	return p
}
