package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/time/rate"

	"opcvcli/internal/config"
	"opcvcli/internal/errors"
)

// Downloader fetches the raw CSV snapshot with resumable transfer. An
// interrupted transfer leaves a .partial file; the next attempt resumes
// from its size with an HTTP Range request instead of restarting. Attempts
// are paced by a rate limiter so a flapping server is not hammered.
type Downloader struct {
	client   *http.Client
	attempts int
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewDownloader creates a downloader from the ingest configuration
func NewDownloader(cfg config.IngestConfig, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		client:   &http.Client{Timeout: cfg.Timeout},
		attempts: cfg.RetryAttempts,
		limiter:  rate.NewLimiter(rate.Every(cfg.RetryEvery), 1),
		logger:   logger,
	}
}

// Download fetches url into dest, resuming any partial transfer left by a
// previous run. The destination only appears once the transfer is complete;
// until then bytes accumulate in dest+".partial".
func (d *Downloader) Download(ctx context.Context, url, dest string) error {
	partial := dest + ".partial"

	var lastErr error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		if err := d.limiter.Wait(ctx); err != nil {
			return err
		}

		err := d.fetch(ctx, url, partial)
		if err == nil {
			if err := os.Rename(partial, dest); err != nil {
				return errors.Transfer("finalize download", err)
			}
			d.logger.InfoContext(ctx, "download complete",
				slog.String("url", url),
				slog.String("dest", dest),
				slog.Int("attempts", attempt))
			return nil
		}

		if !errors.IsRetryable(err) {
			return err
		}
		lastErr = err
		d.logger.WarnContext(ctx, "transfer interrupted, will resume",
			slog.String("url", url),
			slog.Int("attempt", attempt),
			slog.Any("error", err))
	}

	return fmt.Errorf("download failed after %d attempts: %w", d.attempts, lastErr)
}

// fetch performs one transfer attempt against the partial file
func (d *Downloader) fetch(ctx context.Context, url, partial string) error {
	var offset int64
	if info, err := os.Stat(partial); err == nil {
		offset = info.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
		d.logger.InfoContext(ctx, "resuming transfer", slog.Int64("offset", offset))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return errors.Transfer("download "+url, err)
	}
	defer resp.Body.Close()

	var out *os.File
	switch resp.StatusCode {
	case http.StatusPartialContent:
		out, err = os.OpenFile(partial, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	case http.StatusOK:
		// Server ignored the range request: start over
		out, err = os.Create(partial)
	case http.StatusRequestedRangeNotSatisfiable:
		// Offset is already at or past the end: transfer was complete
		return nil
	default:
		if resp.StatusCode >= 500 {
			return errors.Transfer("download "+url, fmt.Errorf("server returned %s", resp.Status))
		}
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}
	if err != nil {
		return errors.Transfer("open partial file", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		// Partial bytes stay on disk for the next resume
		return errors.Transfer("read body of "+url, err)
	}

	return nil
}
