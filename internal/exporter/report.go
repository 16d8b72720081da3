package exporter

import (
	"fmt"
	"io"
	"strconv"

	"opcvcli/internal/dataprocessing"
	"opcvcli/pkg/contracts/domain"
)

// distribution table headers, shared by every output format
var distributionHeaders = []string{"Tickets", "Vehicles", "Total Due"}
var tallyHeaders = []string{"State", "Plate", "Tickets", "Total Due"}

// RenderReport writes the full human-readable report to w: one table per
// query result plus the narrative scalars.
func RenderReport(w io.Writer, rep *dataprocessing.Report) error {
	if _, err := fmt.Fprintf(w, "Violations report for %d\n\n", rep.Year); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Citations issued: %s\nTotal amount due: %s\n\n",
		FormatInt(rep.Summary.Tickets),
		FormatCurrency(rep.Summary.TotalDue)); err != nil {
		return err
	}

	if err := RenderTable(w, "Ticket-count distribution",
		distributionHeaders, distributionCells(rep.Distribution)); err != nil {
		return err
	}

	if err := RenderTable(w,
		"Super speeders (school-zone camera tickets)",
		tallyHeaders, tallyCells(rep.SuperSpeeders)); err != nil {
		return err
	}

	if err := RenderTable(w, "Vehicles owing the most",
		tallyHeaders, tallyCells(rep.BigDebtors)); err != nil {
		return err
	}

	nm := rep.NonMetro
	_, err := fmt.Fprintf(w,
		"Non-metro vehicles: %s across %s citations.\n"+
			"Ticketed in every calendar month: %s vehicles (%s of vehicles, %s of citations).\n"+
			"Citations with unresolvable issue dates: %s.\n",
		FormatInt(nm.Vehicles),
		FormatInt(nm.Violations),
		FormatInt(nm.EveryMonthVehicles),
		FormatPercent(nm.PctVehicles),
		FormatPercent(nm.PctViolations),
		FormatInt(nm.UnresolvedDates))
	return err
}

// WriteReportCSVs writes the CSV artifacts for each query result
func WriteReportCSVs(w *CSVWriter, rep *dataprocessing.Report) error {
	if err := w.WriteSimpleCSV("distribution.csv",
		distributionHeaders, distributionCells(rep.Distribution)); err != nil {
		return fmt.Errorf("write distribution.csv: %w", err)
	}
	if err := w.WriteSimpleCSV("super_speeders.csv",
		tallyHeaders, tallyCells(rep.SuperSpeeders)); err != nil {
		return fmt.Errorf("write super_speeders.csv: %w", err)
	}
	if err := w.WriteSimpleCSV("big_debtors.csv",
		tallyHeaders, tallyCells(rep.BigDebtors)); err != nil {
		return fmt.Errorf("write big_debtors.csv: %w", err)
	}
	return nil
}

// ReportSheets builds the workbook sheets for the report
func ReportSheets(rep *dataprocessing.Report) []Sheet {
	distribution := Sheet{
		Name:         "Distribution",
		Headers:      distributionHeaders,
		CurrencyCols: []int{3},
	}
	for _, b := range rep.Distribution {
		distribution.Rows = append(distribution.Rows, []any{b.Tickets, b.Vehicles, b.TotalDue})
	}

	return []Sheet{
		distribution,
		tallySheet("Super Speeders", rep.SuperSpeeders),
		tallySheet("Big Debtors", rep.BigDebtors),
	}
}

func tallySheet(name string, tallies []domain.VehicleTally) Sheet {
	sheet := Sheet{
		Name:         name,
		Headers:      tallyHeaders,
		CurrencyCols: []int{4},
	}
	for _, t := range tallies {
		sheet.Rows = append(sheet.Rows, []any{t.Vehicle.State, t.Vehicle.Plate, t.Tickets, t.TotalDue})
	}
	return sheet
}

func distributionCells(buckets []domain.CountBucket) [][]string {
	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []string{
			strconv.FormatInt(b.Tickets, 10),
			FormatInt(b.Vehicles),
			FormatCurrency(b.TotalDue),
		})
	}
	return rows
}

func tallyCells(tallies []domain.VehicleTally) [][]string {
	rows := make([][]string, 0, len(tallies))
	for _, t := range tallies {
		rows = append(rows, []string{
			t.Vehicle.State,
			t.Vehicle.Plate,
			FormatInt(t.Tickets),
			FormatCurrency(t.TotalDue),
		})
	}
	return rows
}
