// Package ingest materializes the remote violations snapshot as a local
// Parquet dataset. It has two stages: a resumable HTTP downloader that
// survives interrupted transfers by resuming from a partial file with Range
// requests, and a streaming converter that turns the delimited-text
// snapshot into Parquet part files without ever holding more than one part
// of rows in memory.
package ingest
