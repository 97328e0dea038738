package domain

import "time"

// Fallback datasets are fixed sample records shown when a live fetch fails and
// the dashboard runs in demo mode. Each call returns a fresh slice so callers
// may keep it without aliasing the package data.

var fallbackTime = time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)

// FallbackAlerts returns the sample alert set.
func FallbackAlerts() []Alert {
	return []Alert{
		{ID: "1", Severity: SeverityCritical, Message: "pH level exceeded safe threshold (9.2)", Location: "Rampur", Timestamp: fallbackTime},
		{ID: "2", Severity: SeverityWarning, Message: "Turbidity rising above 4 NTU", Location: "Sitapur", Timestamp: fallbackTime.Add(-45 * time.Minute)},
		{ID: "3", Severity: SeverityInfo, Message: "Sensor maintenance scheduled", Location: "Bhavanipur", Timestamp: fallbackTime.Add(-2 * time.Hour)},
		{ID: "4", Severity: SeverityCritical, Message: "Sensor offline for more than 6 hours", Location: "Kheda", Timestamp: fallbackTime.Add(-3 * time.Hour)},
	}
}

// FallbackLocations returns the sample location set.
func FallbackLocations() []Location {
	return []Location{
		{ID: "1", Village: "Rampur", District: "Varanasi", State: "Uttar Pradesh", Latitude: 25.3176, Longitude: 82.9739, Status: StatusActive},
		{ID: "2", Village: "Sitapur", District: "Sitapur", State: "Uttar Pradesh", Latitude: 27.5680, Longitude: 80.6790, Status: StatusWarning},
		{ID: "3", Village: "Bhavanipur", District: "Purnia", State: "Bihar", Latitude: 25.7771, Longitude: 87.4753, Status: StatusActive},
		{ID: "4", Village: "Kheda", District: "Kheda", State: "Gujarat", Latitude: 22.7507, Longitude: 72.6847, Status: StatusInactive},
	}
}

// FallbackReadings returns the sample reading set.
func FallbackReadings() []Reading {
	return []Reading{
		{ID: "1", Location: "Rampur", PH: 7.2, Turbidity: 1.8, Temperature: 24.5, Timestamp: fallbackTime},
		{ID: "2", Location: "Rampur", PH: 7.4, Turbidity: 2.1, Temperature: 25.0, Timestamp: fallbackTime.Add(-1 * time.Hour)},
		{ID: "3", Location: "Sitapur", PH: 6.8, Turbidity: 4.3, Temperature: 26.2, Timestamp: fallbackTime},
		{ID: "4", Location: "Bhavanipur", PH: 7.0, Turbidity: 0.9, Temperature: 23.8, Timestamp: fallbackTime},
		{ID: "5", Location: "Kheda", PH: 8.9, Turbidity: 6.5, Temperature: 28.1, Timestamp: fallbackTime.Add(-3 * time.Hour)},
	}
}

// FallbackReports returns the sample report set.
func FallbackReports() []Report {
	return []Report{
		{ID: "1", Title: "Weekly Water Quality Summary", Description: "Aggregated readings for all active locations", GeneratedAt: fallbackTime, DownloadURL: "/api/reports/1/download", Type: "weekly"},
		{ID: "2", Title: "Monthly Compliance Report", Description: "Locations outside drinking-water limits", GeneratedAt: fallbackTime.AddDate(0, 0, -14), DownloadURL: "/api/reports/2/download", Type: "monthly"},
	}
}
