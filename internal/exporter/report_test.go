package exporter

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"opcvcli/internal/config"
	"opcvcli/internal/dataprocessing"
	"opcvcli/pkg/contracts/domain"
)

func sampleReport() *dataprocessing.Report {
	return &dataprocessing.Report{
		Year: 2024,
		Summary: dataprocessing.YearSummary{
			Tickets:  1234567,
			TotalDue: 89123456.78,
		},
		Distribution: []domain.CountBucket{
			{Tickets: 1, Vehicles: 1000, TotalDue: 65000},
			{Tickets: 2, Vehicles: 250, TotalDue: 32500},
		},
		SuperSpeeders: []domain.VehicleTally{
			{Vehicle: domain.VehicleKey{State: "NY", Plate: "AAA1111"}, Tickets: 87, TotalDue: 4350},
		},
		BigDebtors: []domain.VehicleTally{
			{Vehicle: domain.VehicleKey{State: "NJ", Plate: "BBB2222"}, Tickets: 12, TotalDue: 15000},
		},
		NonMetro: dataprocessing.NonMetroStats{
			Violations:         14000,
			Vehicles:           2000,
			EveryMonthVehicles: 10,
			PctVehicles:        0.5,
			PctViolations:      10.0 / 140.0,
		},
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	err := RenderTable(&buf, "Title", []string{"Name", "Due"}, [][]string{
		{"short", "$5.00"},
		{"a longer name", "$1,000.00"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "-----")
	assert.Contains(t, out, "a longer name")
	// Currency cells right-align within their column
	assert.Contains(t, out, "    $5.00")
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Violations report for 2024")
	assert.Contains(t, out, "Citations issued: 1,234,567")
	assert.Contains(t, out, "Total amount due: $89,123,456.78")
	assert.Contains(t, out, "Ticket-count distribution")
	assert.Contains(t, out, "Super speeders")
	assert.Contains(t, out, "AAA1111")
	assert.Contains(t, out, "0.50% of vehicles")
}

func TestWriteReportCSVs(t *testing.T) {
	paths := config.PathsFrom(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	require.NoError(t, WriteReportCSVs(NewCSVWriter(paths), sampleReport()))

	for _, name := range []string{"distribution.csv", "super_speeders.csv", "big_debtors.csv"} {
		assert.FileExists(t, paths.GetReportPath(name))
	}
}

func TestReportSheets(t *testing.T) {
	sheets := ReportSheets(sampleReport())
	require.Len(t, sheets, 3)

	assert.Equal(t, "Distribution", sheets[0].Name)
	assert.Len(t, sheets[0].Rows, 2)
	assert.Equal(t, "Super Speeders", sheets[1].Name)
	assert.Equal(t, "Big Debtors", sheets[2].Name)
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, WriteWorkbook(path, ReportSheets(sampleReport())))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Distribution", "Super Speeders", "Big Debtors"}, f.GetSheetList())

	rows, err := f.GetRows("Distribution")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Tickets", "Vehicles", "Total Due"}, rows[0])

	got, err := f.GetCellValue("Super Speeders", "B2")
	require.NoError(t, err)
	assert.Equal(t, "AAA1111", got)
}

func TestWriteWorkbookNoSheets(t *testing.T) {
	err := WriteWorkbook(filepath.Join(t.TempDir(), "r.xlsx"), nil)
	assert.Error(t, err)
}
