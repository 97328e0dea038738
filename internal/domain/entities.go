package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ID is a record identifier. The API sends it as either a JSON string or a
// JSON number; both decode to the same textual form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Severity classifies an alert.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Known reports whether s is one of the three recognised severities.
func (s Severity) Known() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Class returns the CSS class used to render the severity badge.
func (s Severity) Class() string {
	if s.Known() {
		return "severity-" + string(s)
	}
	return "severity-default"
}

// LocationStatus is the operational state of a monitoring site.
type LocationStatus string

const (
	StatusActive   LocationStatus = "active"
	StatusWarning  LocationStatus = "warning"
	StatusInactive LocationStatus = "inactive"
)

// Normalized lower-cases the status for comparison.
func (s LocationStatus) Normalized() LocationStatus {
	return LocationStatus(strings.ToLower(strings.TrimSpace(string(s))))
}

// Class returns the CSS class used to render the status badge.
func (s LocationStatus) Class() string {
	switch n := s.Normalized(); n {
	case StatusActive, StatusWarning, StatusInactive:
		return "status-" + string(n)
	}
	return "status-default"
}

// Alert is a notification raised by the monitoring backend.
type Alert struct {
	ID        ID        `json:"id"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

// Location is a monitored water source.
type Location struct {
	ID        ID             `json:"id"`
	Village   string         `json:"village"`
	District  string         `json:"district"`
	State     string         `json:"state"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Status    LocationStatus `json:"status"`
}

// Name is the display name used by readings and alerts to refer to a location.
func (l Location) Name() string {
	return l.Village
}

// Reading is one sensor sample.
type Reading struct {
	ID          ID        `json:"id"`
	Location    string    `json:"location"`
	PH          float64   `json:"ph"`
	Turbidity   float64   `json:"turbidity"`   // NTU
	Temperature float64   `json:"temperature"` // °C
	Timestamp   time.Time `json:"timestamp"`
}

// Drinking-water limits used for the unsafe flag.
const (
	MinSafePH        = 6.5
	MaxSafePH        = 8.5
	MaxSafeTurbidity = 5.0
)

// Unsafe reports whether the reading is outside drinking-water limits.
func (r Reading) Unsafe() bool {
	return r.PH < MinSafePH || r.PH > MaxSafePH || r.Turbidity > MaxSafeTurbidity
}

// Report is a generated document available for download.
type Report struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	GeneratedAt time.Time `json:"generatedAt"`
	DownloadURL string    `json:"downloadUrl"`
	Type        string    `json:"type"`
}
