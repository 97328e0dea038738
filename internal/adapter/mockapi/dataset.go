package mockapi

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/water-monitor-dashboard/internal/domain"
	"github.com/google/uuid"
)

var reportNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://water-monitor.local/reports"))

type site struct {
	village, district, state string
	lat, lon                 float64
	status                   domain.LocationStatus
	// ph, turbidity and temperature of the most recent readings, newest first
	samples [][3]float64
}

var sites = []site{
	{"Rampur", "Varanasi", "Uttar Pradesh", 25.3176, 82.9739, domain.StatusActive,
		[][3]float64{{7.2, 1.8, 24.5}, {7.4, 2.1, 25.0}, {7.1, 1.6, 24.1}, {9.2, 2.4, 24.8}}},
	{"Sitapur", "Sitapur", "Uttar Pradesh", 27.5680, 80.6790, domain.StatusWarning,
		[][3]float64{{6.8, 5.6, 26.2}, {6.9, 4.3, 26.0}, {7.0, 3.9, 25.7}}},
	{"Bhavanipur", "Purnia", "Bihar", 25.7771, 87.4753, domain.StatusActive,
		[][3]float64{{7.0, 0.9, 23.8}, {7.1, 1.0, 23.5}, {6.9, 1.2, 23.9}}},
	{"Kheda", "Kheda", "Gujarat", 22.7507, 72.6847, domain.StatusInactive,
		[][3]float64{{8.9, 6.5, 28.1}}},
	{"Mandla", "Mandla", "Madhya Pradesh", 22.5980, 80.3714, domain.StatusActive,
		[][3]float64{{7.6, 2.7, 22.9}, {7.5, 2.2, 23.1}}},
}

type reportSpec struct {
	key, title, description, kind string
	age                           time.Duration
	include                       func(domain.Reading) bool
}

var reportSpecs = []reportSpec{
	{"weekly", "Weekly Water Quality Summary", "Every reading from the last seven days", "weekly",
		24 * time.Hour, func(domain.Reading) bool { return true }},
	{"compliance", "Monthly Compliance Report", "Readings outside drinking-water limits", "monthly",
		14 * 24 * time.Hour, domain.Reading.Unsafe},
	{"rampur", "Rampur Site Report", "All readings for Rampur", "site",
		3 * time.Hour, func(r domain.Reading) bool { return r.Location == "Rampur" }},
}

// dataset is the seeded content served by the mock API. It is built once and
// never mutated.
type dataset struct {
	alerts    []domain.Alert
	locations []domain.Location
	readings  []domain.Reading
	reports   []domain.Report
	specs     map[domain.ID]reportSpec
}

func seed(now time.Time) *dataset {
	now = now.UTC().Truncate(time.Minute)
	d := &dataset{specs: make(map[domain.ID]reportSpec, len(reportSpecs))}

	for i, s := range sites {
		d.locations = append(d.locations, domain.Location{
			ID:        domain.ID(strconv.Itoa(i + 1)),
			Village:   s.village,
			District:  s.district,
			State:     s.state,
			Latitude:  s.lat,
			Longitude: s.lon,
			Status:    s.status,
		})
		for j, v := range s.samples {
			d.readings = append(d.readings, domain.Reading{
				ID:          domain.ID(strconv.Itoa(len(d.readings) + 1)),
				Location:    s.village,
				PH:          v[0],
				Turbidity:   v[1],
				Temperature: v[2],
				Timestamp:   now.Add(-time.Duration(j*2+i) * time.Hour),
			})
		}
	}

	d.alerts = deriveAlerts(d.locations, d.readings, now)

	for _, spec := range reportSpecs {
		id := domain.ID(uuid.NewSHA1(reportNamespace, []byte(spec.key)).String())
		d.specs[id] = spec
		d.reports = append(d.reports, domain.Report{
			ID:          id,
			Title:       spec.title,
			Description: spec.description,
			GeneratedAt: now.Add(-spec.age),
			DownloadURL: "/api/reports/" + string(id) + "/download",
			Type:        spec.kind,
		})
	}
	return d
}

// deriveAlerts raises one alert per unsafe reading plus one per inactive site.
func deriveAlerts(locations []domain.Location, readings []domain.Reading, now time.Time) []domain.Alert {
	var alerts []domain.Alert
	add := func(sev domain.Severity, msg, loc string, at time.Time) {
		alerts = append(alerts, domain.Alert{
			ID:        domain.ID(strconv.Itoa(len(alerts) + 1)),
			Severity:  sev,
			Message:   msg,
			Location:  loc,
			Timestamp: at,
		})
	}

	for _, r := range readings {
		switch {
		case r.PH < domain.MinSafePH || r.PH > domain.MaxSafePH:
			add(domain.SeverityCritical, fmt.Sprintf("pH level outside safe range (%.1f)", r.PH), r.Location, r.Timestamp)
		case r.Turbidity > domain.MaxSafeTurbidity:
			add(domain.SeverityWarning, fmt.Sprintf("Turbidity above %.0f NTU (%.1f)", domain.MaxSafeTurbidity, r.Turbidity), r.Location, r.Timestamp)
		}
	}
	for _, l := range locations {
		if l.Status.Normalized() == domain.StatusInactive {
			add(domain.SeverityInfo, "Sensor offline, maintenance scheduled", l.Village, now.Add(-6*time.Hour))
		}
	}
	return alerts
}

// reportCSV renders the readings a report covers.
func (d *dataset) reportCSV(id domain.ID) (filename string, body []byte, ok bool) {
	spec, ok := d.specs[id]
	if !ok {
		return "", nil, false
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "location", "ph", "turbidity", "temperature", "timestamp"})
	for _, r := range d.readings {
		if !spec.include(r) {
			continue
		}
		_ = w.Write([]string{
			string(r.ID),
			r.Location,
			strconv.FormatFloat(r.PH, 'f', 2, 64),
			strconv.FormatFloat(r.Turbidity, 'f', 2, 64),
			strconv.FormatFloat(r.Temperature, 'f', 1, 64),
			r.Timestamp.Format(time.RFC3339),
		})
	}
	w.Flush()

	return strings.ReplaceAll(strings.ToLower(spec.title), " ", "-") + ".csv", buf.Bytes(), true
}
