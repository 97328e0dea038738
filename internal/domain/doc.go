// Package domain models the water-quality monitoring data shown on the
// dashboard and the pure aggregates derived from it.
//
// # Data Source
//
// All records come from the monitoring REST API as JSON arrays. They are
// decoded into value types and never mutated afterwards; the dashboard keeps
// them only for as long as a page is displayed.
//
// # Entities
//
//	Alert     severity (critical, warning, info), message, location name, time
//	Location  village / district / state, WGS-84 coordinates, status
//	Reading   location name, pH, turbidity (NTU), temperature (°C), time
//	Report    title, description, generation time, download URL, type
//
// Identifiers arrive as JSON strings or numbers depending on the backend and
// are normalized to [ID].
//
// # Severity and status
//
// Alert severities outside the three known kinds are kept as-is and rendered
// with a neutral style. Location status is compared case-insensitively, so
// "Active" and "active" count together.
//
// # Water quality thresholds
//
// A reading is flagged unsafe when pH falls outside 6.5–8.5 or turbidity is
// above 5 NTU, following WHO drinking-water guidance. Values are otherwise
// not validated: a pH of 15 is displayed as received.
//
// # Aggregates
//
// Summaries are computed by pure Derive* functions over whatever records a
// page currently holds. Means are rounded half away from zero to two decimal
// places using [github.com/shopspring/decimal] so "7.005" displays as "7.01"
// regardless of binary floating-point error.
package domain
