package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// AlertSummary counts alerts by severity.
type AlertSummary struct {
	Total    int
	Critical int
	Warning  int
	Info     int
	Other    int // unrecognised severities
}

// DeriveAlertSummary counts alerts grouped by severity.
func DeriveAlertSummary(alerts []Alert) AlertSummary {
	s := AlertSummary{Total: len(alerts)}
	for _, a := range alerts {
		switch a.Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityWarning:
			s.Warning++
		case SeverityInfo:
			s.Info++
		default:
			s.Other++
		}
	}
	return s
}

// ReadingSummary holds the means of a set of readings, rounded to two decimals.
type ReadingSummary struct {
	Count          int
	Unsafe         int
	AvgPH          decimal.Decimal
	AvgTurbidity   decimal.Decimal
	AvgTemperature decimal.Decimal
}

// HasData reports whether the summary was computed over at least one reading.
func (s ReadingSummary) HasData() bool {
	return s.Count > 0
}

// DeriveReadingSummary computes arithmetic means over readings. An empty set
// yields zero means and Count 0.
func DeriveReadingSummary(readings []Reading) ReadingSummary {
	s := ReadingSummary{Count: len(readings)}
	if len(readings) == 0 {
		return s
	}

	var ph, turbidity, temperature decimal.Decimal
	for _, r := range readings {
		ph = ph.Add(decimal.NewFromFloat(r.PH))
		turbidity = turbidity.Add(decimal.NewFromFloat(r.Turbidity))
		temperature = temperature.Add(decimal.NewFromFloat(r.Temperature))
		if r.Unsafe() {
			s.Unsafe++
		}
	}

	n := decimal.NewFromInt(int64(len(readings)))
	s.AvgPH = ph.Div(n).Round(2)
	s.AvgTurbidity = turbidity.Div(n).Round(2)
	s.AvgTemperature = temperature.Div(n).Round(2)
	return s
}

// AllLocations is the filter value that matches every reading.
const AllLocations = "all"

// FilterReadingsByLocation keeps the readings whose Location equals location
// exactly. An empty location or AllLocations returns readings unchanged.
func FilterReadingsByLocation(readings []Reading, location string) []Reading {
	if location == "" || location == AllLocations {
		return readings
	}
	out := make([]Reading, 0, len(readings))
	for _, r := range readings {
		if r.Location == location {
			out = append(out, r)
		}
	}
	return out
}

// DistinctLocations returns the sorted set of non-empty location names in readings.
func DistinctLocations(readings []Reading) []string {
	seen := make(map[string]struct{}, len(readings))
	names := make([]string, 0, len(readings))
	for _, r := range readings {
		if r.Location == "" {
			continue
		}
		if _, ok := seen[r.Location]; ok {
			continue
		}
		seen[r.Location] = struct{}{}
		names = append(names, r.Location)
	}
	sort.Strings(names)
	return names
}

// LocationSummary counts locations by status and carries the map viewport.
type LocationSummary struct {
	Total    int
	Active   int
	Warning  int
	Inactive int
	Other    int
	Map      MapView
}

// DeriveLocationSummary counts locations by case-insensitive status.
func DeriveLocationSummary(locations []Location) LocationSummary {
	s := LocationSummary{Total: len(locations)}
	for _, l := range locations {
		switch l.Status.Normalized() {
		case StatusActive:
			s.Active++
		case StatusWarning:
			s.Warning++
		case StatusInactive:
			s.Inactive++
		default:
			s.Other++
		}
	}
	s.Map = DeriveMapView(locations)
	return s
}

// ReportSummary counts reports by type.
type ReportSummary struct {
	Total  int
	ByType map[string]int
}

// Types returns the report types in alphabetical order.
func (s ReportSummary) Types() []string {
	types := make([]string, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DeriveReportSummary counts reports grouped by lower-cased type.
func DeriveReportSummary(reports []Report) ReportSummary {
	s := ReportSummary{Total: len(reports), ByType: make(map[string]int)}
	for _, r := range reports {
		t := strings.ToLower(strings.TrimSpace(r.Type))
		if t == "" {
			t = "other"
		}
		s.ByType[t]++
	}
	return s
}
