package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"opcvcli/internal/config"
	"opcvcli/internal/dataset"
	"opcvcli/pkg/contracts/domain"
)

// Analyzer runs the fixed report query sequence against a lazy dataset
// handle. Every method builds its own deferred plan, so methods can run in
// any order and repeatedly; nothing mutates the handle.
type Analyzer struct {
	ds     *dataset.Dataset
	cfg    config.ReportConfig
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer for the given dataset and parameters
func NewAnalyzer(ds *dataset.Dataset, cfg config.ReportConfig, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{ds: ds, cfg: cfg, logger: logger}
}

// year returns the target year as the substring matched against raw issue
// dates. Both source encodings carry the four-digit year verbatim.
func (a *Analyzer) year() string {
	return strconv.Itoa(a.cfg.Year)
}

// YearTotals answers: how many citations were issued in the target year,
// and how much is due on them.
func (a *Analyzer) YearTotals(ctx context.Context) (YearSummary, error) {
	count, sum, err := a.ds.Scan().
		Filter(dataset.IssueDateContains(a.year())).
		Totals(ctx)
	if err != nil {
		return YearSummary{}, err
	}
	return YearSummary{Tickets: count, TotalDue: sum}, nil
}

// VehicleTallies aggregates the target year per vehicle key: ticket count
// and total amount due, null amounts as zero.
func (a *Analyzer) VehicleTallies(ctx context.Context) ([]domain.VehicleTally, TallyStats, error) {
	res, err := a.ds.Scan().
		Filter(dataset.IssueDateContains(a.year())).
		GroupBy(dataset.KeyState(), dataset.KeyPlate()).
		Collect(ctx)
	if err != nil {
		return nil, TallyStats{}, err
	}

	tallies := make([]domain.VehicleTally, 0, len(res.Groups))
	for _, g := range res.Groups {
		tallies = append(tallies, domain.VehicleTally{
			Vehicle:  dataset.VehicleGroup(g),
			Tickets:  g.Count,
			TotalDue: g.Sum,
		})
	}

	stats := TallyStats{MatchedRows: res.Matched, Vehicles: int64(len(tallies))}
	a.logger.InfoContext(ctx, "per-vehicle tallies computed",
		slog.Int64("matched_rows", stats.MatchedRows),
		slog.Int64("vehicles", stats.Vehicles))

	return tallies, stats, nil
}

// Distribution reduces per-vehicle tallies into the ticket-count
// distribution: for each k, how many vehicles got exactly k tickets and
// what they owe in total. Buckets come back sorted by ticket count.
func Distribution(tallies []domain.VehicleTally) []domain.CountBucket {
	byCount := make(map[int64]*domain.CountBucket)
	for _, t := range tallies {
		b, ok := byCount[t.Tickets]
		if !ok {
			b = &domain.CountBucket{Tickets: t.Tickets}
			byCount[t.Tickets] = b
		}
		b.Vehicles++
		b.TotalDue += t.TotalDue
	}

	buckets := make([]domain.CountBucket, 0, len(byCount))
	for _, b := range byCount {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Tickets < buckets[j].Tickets
	})

	return buckets
}

// SuperSpeeders answers: which vehicles accumulated at least the threshold
// number of school-zone speed-camera citations in the target year. The
// count threshold is HAVING semantics over the aggregated output.
func (a *Analyzer) SuperSpeeders(ctx context.Context) ([]domain.VehicleTally, error) {
	min := a.cfg.SuperSpeederMin
	res, err := a.ds.Scan().
		Filter(dataset.IssueDateContains(a.year())).
		Filter(dataset.ViolationContains(a.cfg.CameraLabel)).
		GroupBy(dataset.KeyState(), dataset.KeyPlate()).
		Having(func(g dataset.Group) bool { return g.Count >= min }).
		SortBy(func(x, y dataset.Group) bool { return x.Count > y.Count }).
		Collect(ctx)
	if err != nil {
		return nil, err
	}

	return groupsToTallies(res.Groups), nil
}

// BigDebtors answers: which vehicles owe at least the threshold amount in
// aggregate for the target year. This is the aggregate-filter query: a
// vehicle qualifies on its summed balance even if no single ticket reaches
// the threshold.
func (a *Analyzer) BigDebtors(ctx context.Context) ([]domain.VehicleTally, error) {
	threshold := a.cfg.DebtorThreshold
	res, err := a.ds.Scan().
		Filter(dataset.IssueDateContains(a.year())).
		GroupBy(dataset.KeyState(), dataset.KeyPlate()).
		Having(func(g dataset.Group) bool { return g.Sum >= threshold }).
		SortBy(func(x, y dataset.Group) bool { return x.Sum > y.Sum }).
		Collect(ctx)
	if err != nil {
		return nil, err
	}

	return groupsToTallies(res.Groups), nil
}

// NonMetro analyzes vehicles from outside the metro jurisdictions: how many
// such citations and vehicles there are, and how many of those vehicles were
// ticketed in every calendar month of the year.
func (a *Analyzer) NonMetro(ctx context.Context) (NonMetroStats, error) {
	res, err := a.ds.Scan().
		Filter(dataset.IssueDateContains(a.year())).
		Filter(dataset.StateNotIn(a.cfg.MetroStates...)).
		GroupBy(dataset.KeyState(), dataset.KeyPlate()).
		WithMonths(MonthOf).
		Collect(ctx)
	if err != nil {
		return NonMetroStats{}, err
	}

	stats := NonMetroStats{
		Violations: res.Matched,
		Vehicles:   int64(len(res.Groups)),
	}
	for _, g := range res.Groups {
		if g.Months.All() {
			stats.EveryMonthVehicles++
		}
	}

	// Unresolved dates only degrade the month sets, never the counts;
	// surface them rather than hiding the gap.
	stats.UnresolvedDates = a.countUnresolvedDates(ctx)

	if stats.Vehicles > 0 {
		stats.PctVehicles = 100 * float64(stats.EveryMonthVehicles) / float64(stats.Vehicles)
	}
	if stats.Violations > 0 {
		stats.PctViolations = 100 * float64(stats.EveryMonthVehicles) / float64(stats.Violations)
	}

	a.logger.InfoContext(ctx, "non-metro analysis computed",
		slog.Int64("violations", stats.Violations),
		slog.Int64("vehicles", stats.Vehicles),
		slog.Int64("every_month_vehicles", stats.EveryMonthVehicles),
		slog.Int64("unresolved_dates", stats.UnresolvedDates))

	return stats, nil
}

// countUnresolvedDates counts non-metro rows in the year whose issue date
// resolves under neither parsing rule.
func (a *Analyzer) countUnresolvedDates(ctx context.Context) int64 {
	res, err := a.ds.Scan().
		Filter(dataset.IssueDateContains(a.year())).
		Filter(dataset.StateNotIn(a.cfg.MetroStates...)).
		GroupBy(KeyMonth()).
		Collect(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "unresolved date count failed", slog.Any("error", err))
		return 0
	}
	return res.Unresolved
}

// Run executes the full query sequence and assembles the report
func (a *Analyzer) Run(ctx context.Context) (*Report, error) {
	summary, err := a.YearTotals(ctx)
	if err != nil {
		return nil, err
	}

	tallies, tallyStats, err := a.VehicleTallies(ctx)
	if err != nil {
		return nil, err
	}

	speeders, err := a.SuperSpeeders(ctx)
	if err != nil {
		return nil, err
	}

	debtors, err := a.BigDebtors(ctx)
	if err != nil {
		return nil, err
	}

	nonMetro, err := a.NonMetro(ctx)
	if err != nil {
		return nil, err
	}

	return &Report{
		Year:          a.cfg.Year,
		Summary:       summary,
		Distribution:  Distribution(tallies),
		SuperSpeeders: speeders,
		BigDebtors:    debtors,
		NonMetro:      nonMetro,
		TallyStats:    tallyStats,
	}, nil
}

func groupsToTallies(groups []dataset.Group) []domain.VehicleTally {
	tallies := make([]domain.VehicleTally, 0, len(groups))
	for _, g := range groups {
		tallies = append(tallies, domain.VehicleTally{
			Vehicle:  dataset.VehicleGroup(g),
			Tickets:  g.Count,
			TotalDue: g.Sum,
		})
	}
	return tallies
}
