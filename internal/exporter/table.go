package exporter

import (
	"fmt"
	"io"
	"strings"
)

// RenderTable writes a plain-text table with a title, aligned columns, and
// a header separator. Numeric-looking cells are right-aligned.
func RenderTable(w io.Writer, title string, headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if title != "" {
		if _, err := fmt.Fprintf(w, "%s\n", title); err != nil {
			return err
		}
	}

	if err := writeRow(w, headers, widths, nil); err != nil {
		return err
	}

	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = strings.Repeat("-", widths[i])
	}
	if err := writeRow(w, sep, widths, nil); err != nil {
		return err
	}

	for _, row := range rows {
		if err := writeRow(w, row, widths, rightAlign(row)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

func writeRow(w io.Writer, cells []string, widths []int, right []bool) error {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if right != nil && i < len(right) && right[i] {
			parts[i] = fmt.Sprintf("%*s", widths[i], cell)
		} else {
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
	}
	_, err := fmt.Fprintf(w, "%s\n", strings.TrimRight(strings.Join(parts, "  "), " "))
	return err
}

// rightAlign right-aligns cells that look like numbers or currency
func rightAlign(row []string) []bool {
	out := make([]bool, len(row))
	for i, cell := range row {
		trimmed := strings.TrimLeft(cell, "$-")
		trimmed = strings.NewReplacer(",", "", ".", "", "%", "").Replace(trimmed)
		out[i] = trimmed != "" && strings.IndexFunc(trimmed, func(r rune) bool {
			return r < '0' || r > '9'
		}) == -1
	}
	return out
}
