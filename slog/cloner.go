// Package slog provides logging decorators for siteclone services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/water102/siteclone"
)

// Ensure LoggingCloner implements siteclone.Cloner.
var _ siteclone.Cloner = (*LoggingCloner)(nil)

// LoggingCloner wraps a Cloner with structured logging of each run.
type LoggingCloner struct {
	next   siteclone.Cloner
	logger *slog.Logger
}

// NewLoggingCloner creates a new LoggingCloner.
func NewLoggingCloner(next siteclone.Cloner, logger *slog.Logger) *LoggingCloner {
	return &LoggingCloner{next: next, logger: logger}
}

// Clone logs the run's outcome and delegates to the wrapped cloner.
func (c *LoggingCloner) Clone(ctx context.Context, req *siteclone.CaptureRequest, progress siteclone.ProgressFunc) (result *siteclone.CaptureResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", req.URL,
			"outputDir", req.OutputDir,
			"duration", time.Since(begin),
			"err", err,
		}
		if result != nil {
			attrs = append(attrs,
				"processed", result.Processed,
				"downloaded", result.Downloaded,
				"skipped", result.Skipped,
				"api", result.APICount,
			)
		}
		c.logger.Info("clone", attrs...)
	}(time.Now())
	return c.next.Clone(ctx, req, progress)
}
