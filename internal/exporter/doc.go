// Package exporter renders materialized query results into report
// artifacts: plain-text tables for the narrative report, CSV files with a
// UTF-8 BOM for Excel compatibility, and an XLSX workbook with one sheet
// per query result. The analytical core hands this package only flat,
// finite result sequences; nothing here touches the dataset.
package exporter
