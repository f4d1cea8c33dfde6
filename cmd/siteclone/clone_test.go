package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/water102/siteclone"
	main "github.com/water102/siteclone/cmd/siteclone"
	"github.com/water102/siteclone/mock"
)

func TestCloneCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("passes flags through to the capture request", func(t *testing.T) {
		t.Parallel()

		var gotReq *siteclone.CaptureRequest
		cloner := &mock.Cloner{
			CloneFn: func(_ context.Context, req *siteclone.CaptureRequest, _ siteclone.ProgressFunc) (*siteclone.CaptureResult, error) {
				gotReq = req
				return &siteclone.CaptureResult{
					SavedFullPath: "/out/assets/index.html",
					Processed:     3,
					Downloaded:    2,
					Skipped:       1,
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Cloner: cloner,
		}

		cmd := &main.CloneCmd{
			URL:      "https://example.com",
			Output:   "/out",
			Filename: "page.html",
		}

		err := cmd.Run(deps)
		require.NoError(t, err)

		require.NotNil(t, gotReq)
		assert.Equal(t, "https://example.com", gotReq.URL)
		assert.Equal(t, "/out", gotReq.OutputDir)
		assert.Equal(t, "page.html", gotReq.Filename)
		assert.False(t, gotReq.HTMLOnly)

		assert.Contains(t, stdout.String(), "/out/assets/index.html")
		assert.Contains(t, stdout.String(), "3 resources")
	})

	t.Run("applies cookies from config", func(t *testing.T) {
		t.Parallel()

		var gotReq *siteclone.CaptureRequest
		cloner := &mock.Cloner{
			CloneFn: func(_ context.Context, req *siteclone.CaptureRequest, _ siteclone.ProgressFunc) (*siteclone.CaptureResult, error) {
				gotReq = req
				return &siteclone.CaptureResult{}, nil
			},
		}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Cloner: cloner,
			Config: &main.Config{
				Cookies: []main.CookieConfig{
					{Name: "session", Value: "abc", Domain: ".example.com"},
				},
			},
		}

		cmd := &main.CloneCmd{URL: "https://example.com", Output: "/out"}
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, gotReq)
		require.Len(t, gotReq.Cookies, 1)
		assert.Equal(t, "session", gotReq.Cookies[0].Name)
		assert.Equal(t, ".example.com", gotReq.Cookies[0].Domain)
	})

	t.Run("reports skip reasons on stderr", func(t *testing.T) {
		t.Parallel()

		cloner := &mock.Cloner{
			CloneFn: func(_ context.Context, _ *siteclone.CaptureRequest, progress siteclone.ProgressFunc) (*siteclone.CaptureResult, error) {
				progress(siteclone.ProgressEvent{
					Type:   siteclone.ProgressResourceSkipped,
					URL:    "data:image/png;base64,xyz",
					Reason: "base64 data URL",
				})
				return &siteclone.CaptureResult{}, nil
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Cloner: cloner,
		}

		cmd := &main.CloneCmd{URL: "https://example.com", Output: "/out"}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stderr.String(), "base64 data URL")
	})

	t.Run("returns error when clone fails", func(t *testing.T) {
		t.Parallel()

		cloneErr := errors.New("navigation failed")
		cloner := &mock.Cloner{
			CloneFn: func(_ context.Context, _ *siteclone.CaptureRequest, _ siteclone.ProgressFunc) (*siteclone.CaptureResult, error) {
				return nil, cloneErr
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Cloner: cloner,
		}

		cmd := &main.CloneCmd{URL: "https://example.com", Output: "/out"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, cloneErr, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}
