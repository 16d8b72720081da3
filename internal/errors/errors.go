// Package errors defines the failure taxonomy for the batch pipeline.
// There are exactly four kinds: transfer failures (retryable via resumed
// download), conversion failures (fatal, one-shot batch), dataset I/O
// failures, and configuration failures. Everything wraps the underlying
// cause so errors.Is/As keep working through the pipeline.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline error
type Kind string

const (
	// KindTransfer covers network transfer failures during ingestion.
	// These are retryable: the downloader resumes rather than restarts.
	KindTransfer Kind = "transfer"

	// KindConvert covers malformed source rows during CSV conversion.
	// Fatal: a one-shot batch stops on bad input.
	KindConvert Kind = "convert"

	// KindDataset covers Parquet dataset open/scan failures.
	KindDataset Kind = "dataset"

	// KindConfig covers configuration loading and validation failures.
	KindConfig Kind = "config"
)

// PipelineError is the error type carried across pipeline stages
type PipelineError struct {
	Kind Kind
	Op   string // operation that failed, e.g. "download", "convert row 1042"
	Err  error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap returns the underlying cause
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Transfer wraps err as a retryable transfer error
func Transfer(op string, err error) *PipelineError {
	return &PipelineError{Kind: KindTransfer, Op: op, Err: err}
}

// Convert wraps err as a fatal conversion error
func Convert(op string, err error) *PipelineError {
	return &PipelineError{Kind: KindConvert, Op: op, Err: err}
}

// Dataset wraps err as a dataset I/O error
func Dataset(op string, err error) *PipelineError {
	return &PipelineError{Kind: KindDataset, Op: op, Err: err}
}

// Config wraps err as a configuration error
func Config(op string, err error) *PipelineError {
	return &PipelineError{Kind: KindConfig, Op: op, Err: err}
}

// KindOf returns the Kind of err if it is (or wraps) a PipelineError,
// or the empty Kind otherwise.
func KindOf(err error) Kind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsRetryable reports whether err is a transfer error worth resuming
func IsRetryable(err error) bool {
	return KindOf(err) == KindTransfer
}
