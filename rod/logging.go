package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/water102/siteclone"
)

// Ensure LoggingDriver implements siteclone.Driver.
var _ siteclone.Driver = (*LoggingDriver)(nil)

// LoggingDriver wraps a Driver with debug logging.
type LoggingDriver struct {
	next   siteclone.Driver
	logger *slog.Logger
}

// NewLoggingDriver creates a new LoggingDriver.
func NewLoggingDriver(next siteclone.Driver, logger *slog.Logger) *LoggingDriver {
	return &LoggingDriver{next: next, logger: logger}
}

// Capture logs the target URL and delegates to the wrapped driver.
func (d *LoggingDriver) Capture(ctx context.Context, req *siteclone.CaptureRequest, sink siteclone.ResponseSink) (html string, err error) {
	defer func(begin time.Time) {
		d.logger.Info("capture",
			"url", req.URL,
			"cookies", len(req.Cookies),
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Capture(ctx, req, sink)
}

// Close delegates to the wrapped driver.
func (d *LoggingDriver) Close() error {
	return d.next.Close()
}
