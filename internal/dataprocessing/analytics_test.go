package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opcvcli/internal/config"
	"opcvcli/internal/dataset"
	"opcvcli/pkg/contracts/domain"
)

func writePart(t *testing.T, dir string, index int, rows []domain.Violation) {
	t.Helper()

	f, err := os.Create(filepath.Join(dir, fmt.Sprintf("part-%05d.parquet", index)))
	require.NoError(t, err)

	w := parquet.NewGenericWriter[domain.Violation](f)
	_, err = w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func amount(v float64) *float64 {
	return &v
}

const camera = "PHTO SCHOOL ZN SPEED VIOLATION"

// syntheticRows builds a dataset with hand-computable 2024 statistics:
//
//	NY AAA1111: 3 camera tickets, amounts [100, null, 50]  -> sum 150
//	NY BBB2222: 1 camera ticket, 65
//	NJ CCC3333: 2 parking tickets, 200 + 200               -> sum 400
//	PA DDD4444: 12 camera tickets, one per month, 10 each  -> sum 120
//	PA EEE5555: 2 parking tickets, 15 + 15                 -> sum 30
//
// plus one 2023 row that every year-scoped query must ignore.
func syntheticRows() []domain.Violation {
	rows := []domain.Violation{
		{State: "NY", Plate: "AAA1111", IssueDate: "03/15/2024", Violation: camera, AmountDue: amount(100)},
		{State: "NY", Plate: "AAA1111", IssueDate: "2024-04-02 09:30:00", Violation: camera, AmountDue: nil},
		{State: "NY", Plate: "AAA1111", IssueDate: "05/01/2024", Violation: camera, AmountDue: amount(50)},
		{State: "NY", Plate: "BBB2222", IssueDate: "06/20/2024", Violation: camera, AmountDue: amount(65)},
		{State: "NJ", Plate: "CCC3333", IssueDate: "01/10/2024", Violation: "NO PARKING-STREET CLEANING", AmountDue: amount(200)},
		{State: "NJ", Plate: "CCC3333", IssueDate: "02/11/2024", Violation: "NO PARKING-STREET CLEANING", AmountDue: amount(200)},
		{State: "PA", Plate: "EEE5555", IssueDate: "08/08/2024", Violation: "BUS LANE VIOLATION", AmountDue: amount(15)},
		{State: "PA", Plate: "EEE5555", IssueDate: "09/09/2024", Violation: "BUS LANE VIOLATION", AmountDue: amount(15)},
		{State: "CT", Plate: "FFF6666", IssueDate: "07/04/2023", Violation: camera, AmountDue: amount(115)},
	}

	// PA DDD4444 every month, odd months via the timestamp encoding
	for month := 1; month <= 12; month++ {
		date := fmt.Sprintf("%02d/05/2024", month)
		if month%2 == 1 {
			date = fmt.Sprintf("2024-%02d-05 12:00:00", month)
		}
		rows = append(rows, domain.Violation{
			State: "PA", Plate: "DDD4444", IssueDate: date, Violation: camera, AmountDue: amount(10),
		})
	}

	return rows
}

func testConfig() config.ReportConfig {
	return config.ReportConfig{
		Year:            2024,
		MetroStates:     []string{"NY", "NJ", "CT"},
		CameraLabel:     "PHTO SCHOOL ZN SPEED",
		SuperSpeederMin: 10,
		DebtorThreshold: 350,
	}
}

func syntheticAnalyzer(t *testing.T) *Analyzer {
	t.Helper()

	dir := t.TempDir()
	rows := syntheticRows()
	// Split across parts to exercise multi-part scans
	writePart(t, dir, 0, rows[:6])
	writePart(t, dir, 1, rows[6:])

	ds, err := dataset.Open(dir)
	require.NoError(t, err)

	return NewAnalyzer(ds, testConfig(), slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func TestYearTotals(t *testing.T) {
	a := syntheticAnalyzer(t)

	summary, err := a.YearTotals(context.Background())
	require.NoError(t, err)

	// 20 of the 21 rows are 2024; total due 150+65+400+120+30 = 765
	assert.Equal(t, int64(20), summary.Tickets)
	assert.Equal(t, 765.0, summary.TotalDue)
}

func TestVehicleTallies(t *testing.T) {
	a := syntheticAnalyzer(t)

	tallies, stats, err := a.VehicleTallies(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(20), stats.MatchedRows)
	assert.Equal(t, int64(5), stats.Vehicles)

	byVehicle := make(map[domain.VehicleKey]domain.VehicleTally)
	for _, tally := range tallies {
		byVehicle[tally.Vehicle] = tally
	}

	aaa := byVehicle[domain.VehicleKey{State: "NY", Plate: "AAA1111"}]
	assert.Equal(t, int64(3), aaa.Tickets)
	assert.Equal(t, 150.0, aaa.TotalDue, "null amount contributes zero")

	ddd := byVehicle[domain.VehicleKey{State: "PA", Plate: "DDD4444"}]
	assert.Equal(t, int64(12), ddd.Tickets)
	assert.Equal(t, 120.0, ddd.TotalDue)
}

func TestDistribution(t *testing.T) {
	a := syntheticAnalyzer(t)

	tallies, _, err := a.VehicleTallies(context.Background())
	require.NoError(t, err)

	buckets := Distribution(tallies)
	require.Len(t, buckets, 4)

	// Hand-computed: k=1 {BBB2222: 65}, k=2 {CCC3333: 400, EEE5555: 30},
	// k=3 {AAA1111: 150}, k=12 {DDD4444: 120}
	assert.Equal(t, domain.CountBucket{Tickets: 1, Vehicles: 1, TotalDue: 65}, buckets[0])
	assert.Equal(t, domain.CountBucket{Tickets: 2, Vehicles: 2, TotalDue: 430}, buckets[1])
	assert.Equal(t, domain.CountBucket{Tickets: 3, Vehicles: 1, TotalDue: 150}, buckets[2])
	assert.Equal(t, domain.CountBucket{Tickets: 12, Vehicles: 1, TotalDue: 120}, buckets[3])
}

func TestDistributionConservesVehicles(t *testing.T) {
	a := syntheticAnalyzer(t)

	tallies, stats, err := a.VehicleTallies(context.Background())
	require.NoError(t, err)

	var vehicles, tickets int64
	for _, b := range Distribution(tallies) {
		vehicles += b.Vehicles
		tickets += b.Tickets * b.Vehicles
	}
	assert.Equal(t, stats.Vehicles, vehicles)
	assert.Equal(t, stats.MatchedRows, tickets)
}

func TestSuperSpeeders(t *testing.T) {
	a := syntheticAnalyzer(t)

	speeders, err := a.SuperSpeeders(context.Background())
	require.NoError(t, err)

	// Only DDD4444 has >= 10 camera tickets in 2024
	require.Len(t, speeders, 1)
	assert.Equal(t, domain.VehicleKey{State: "PA", Plate: "DDD4444"}, speeders[0].Vehicle)
	assert.Equal(t, int64(12), speeders[0].Tickets)
}

func TestBigDebtorsUsesAggregateThreshold(t *testing.T) {
	a := syntheticAnalyzer(t)

	debtors, err := a.BigDebtors(context.Background())
	require.NoError(t, err)

	// CCC3333 owes 400 in two 200s: qualifies on the aggregate even
	// though no single ticket reaches 350.
	require.Len(t, debtors, 1)
	assert.Equal(t, domain.VehicleKey{State: "NJ", Plate: "CCC3333"}, debtors[0].Vehicle)
	assert.Equal(t, 400.0, debtors[0].TotalDue)
}

func TestNonMetro(t *testing.T) {
	a := syntheticAnalyzer(t)

	stats, err := a.NonMetro(context.Background())
	require.NoError(t, err)

	// Non-metro 2024: DDD4444 (12 rows) and EEE5555 (2 rows)
	assert.Equal(t, int64(14), stats.Violations)
	assert.Equal(t, int64(2), stats.Vehicles)
	assert.Equal(t, int64(1), stats.EveryMonthVehicles)
	assert.Equal(t, int64(0), stats.UnresolvedDates)
	assert.InDelta(t, 50.0, stats.PctVehicles, 1e-9)
	assert.InDelta(t, 100.0/14.0, stats.PctViolations, 1e-9)
}

func TestRunAssemblesReport(t *testing.T) {
	a := syntheticAnalyzer(t)

	report, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2024, report.Year)
	assert.Equal(t, int64(20), report.Summary.Tickets)
	assert.Len(t, report.Distribution, 4)
	assert.Len(t, report.SuperSpeeders, 1)
	assert.Len(t, report.BigDebtors, 1)
	assert.Equal(t, int64(2), report.NonMetro.Vehicles)
}
