package dataprocessing

import (
	"opcvcli/pkg/contracts/domain"
)

// YearSummary is the headline totals for the target year
type YearSummary struct {
	Tickets  int64   `json:"tickets"`
	TotalDue float64 `json:"total_due"`
}

// TallyStats accompanies a per-vehicle tally result with the row accounting
// from the underlying grouped scan.
type TallyStats struct {
	MatchedRows int64 `json:"matched_rows"`
	Vehicles    int64 `json:"vehicles"`
}

// NonMetroStats is the out-of-jurisdiction analysis result. PctVehicles is
// the share of distinct non-metro vehicles ticketed in every calendar month.
// PctViolations uses the per-violation denominator instead; it is reported
// alongside because the two differ materially on this dataset.
type NonMetroStats struct {
	Violations         int64   `json:"violations"`
	Vehicles           int64   `json:"vehicles"`
	EveryMonthVehicles int64   `json:"every_month_vehicles"`
	UnresolvedDates    int64   `json:"unresolved_dates"`
	PctVehicles        float64 `json:"pct_vehicles"`
	PctViolations      float64 `json:"pct_violations"`
}

// Report bundles every query result the presentation layer renders
type Report struct {
	Year          int                   `json:"year"`
	Summary       YearSummary           `json:"summary"`
	Distribution  []domain.CountBucket  `json:"distribution"`
	SuperSpeeders []domain.VehicleTally `json:"super_speeders"`
	BigDebtors    []domain.VehicleTally `json:"big_debtors"`
	NonMetro      NonMetroStats         `json:"non_metro"`
	TallyStats    TallyStats            `json:"tally_stats"`
}
