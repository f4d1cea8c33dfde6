package mock

import (
	"context"

	"github.com/water102/siteclone"
)

var _ siteclone.Driver = (*Driver)(nil)

// Driver is a mock implementation of siteclone.Driver.
type Driver struct {
	CaptureFn func(ctx context.Context, req *siteclone.CaptureRequest, sink siteclone.ResponseSink) (string, error)
	CloseFn   func() error
}

func (d *Driver) Capture(ctx context.Context, req *siteclone.CaptureRequest, sink siteclone.ResponseSink) (string, error) {
	return d.CaptureFn(ctx, req, sink)
}

func (d *Driver) Close() error {
	if d.CloseFn == nil {
		return nil
	}
	return d.CloseFn()
}

var _ siteclone.ResponseSink = (*ResponseSink)(nil)

// ResponseSink is a mock implementation of siteclone.ResponseSink.
type ResponseSink struct {
	CookiesAppliedFn func(n int)
	HandleResponseFn func(res *siteclone.CapturedResponse)
	HandleFrameFn    func(frame *siteclone.WebSocketFrame)
}

func (s *ResponseSink) CookiesApplied(n int) {
	if s.CookiesAppliedFn != nil {
		s.CookiesAppliedFn(n)
	}
}

func (s *ResponseSink) HandleResponse(res *siteclone.CapturedResponse) {
	if s.HandleResponseFn != nil {
		s.HandleResponseFn(res)
	}
}

func (s *ResponseSink) HandleFrame(frame *siteclone.WebSocketFrame) {
	if s.HandleFrameFn != nil {
		s.HandleFrameFn(frame)
	}
}
