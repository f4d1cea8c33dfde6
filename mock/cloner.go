package mock

import (
	"context"

	"github.com/water102/siteclone"
)

var _ siteclone.Cloner = (*Cloner)(nil)

// Cloner is a mock implementation of siteclone.Cloner.
type Cloner struct {
	CloneFn func(ctx context.Context, req *siteclone.CaptureRequest, progress siteclone.ProgressFunc) (*siteclone.CaptureResult, error)
}

func (c *Cloner) Clone(ctx context.Context, req *siteclone.CaptureRequest, progress siteclone.ProgressFunc) (*siteclone.CaptureResult, error) {
	return c.CloneFn(ctx, req, progress)
}
