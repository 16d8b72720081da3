// Package files provides file discovery for the pipeline's on-disk layout:
// Parquet part files under the dataset directory and raw CSV snapshots under
// downloads. Listing order is stable (lexical by name) because dataset scans
// depend on it for deterministic results.
package files
