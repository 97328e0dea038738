package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/couchcryptid/water-monitor-dashboard/internal/dashboard"
	"github.com/couchcryptid/water-monitor-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

type page string

const (
	pageLogin     page = "login"
	pageAlerts    page = "alerts"
	pageReadings  page = "readings"
	pageLocations page = "locations"
	pageReports   page = "reports"
)

var pageTitles = map[page]string{
	pageLogin:     "Sign in",
	pageAlerts:    "Alerts",
	pageReadings:  "Readings",
	pageLocations: "Locations",
	pageReports:   "Reports",
}

var funcs = template.FuncMap{
	"pct":      pct,
	"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04 MST") },
	"age":      domain.Age,
	"fixed2":   func(d decimal.Decimal) string { return d.StringFixed(2) },
	"coord":    func(f float64) string { return decimal.NewFromFloat(f).StringFixed(4) },
}

// templates holds one tree per page, each combining the layout with that
// page's "content" block.
var templates = func() map[page]*template.Template {
	out := make(map[page]*template.Template, len(pageTitles))
	for p := range pageTitles {
		out[p] = template.Must(template.New("layout").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+string(p)+".html"))
	}
	return out
}()

type pageData struct {
	Title         string
	Path          string
	Nav           []dashboard.NavEntry
	MenuOpen      bool
	Authenticated bool
	Notifications []dashboard.Notification
	View          any
}

// render writes the page. Notifications are drained here so each is shown
// exactly once.
func (s *Server) render(w http.ResponseWriter, r *http.Request, p page, view any) {
	data := pageData{
		Title:         pageTitles[p],
		Path:          r.URL.Path,
		Nav:           s.dash.Shell.Entries(),
		MenuOpen:      s.dash.Shell.MobileMenuOpen(),
		Authenticated: s.dash.Shell.Authenticated(),
		Notifications: s.dash.Notifications.Drain(),
		View:          view,
	}

	var buf bytes.Buffer
	if err := templates[p].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("render page", "page", p, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// pct is part as a whole percentage of total, 0 when total is 0.
func pct(part, total int) int {
	if total <= 0 {
		return 0
	}
	return part * 100 / total
}
