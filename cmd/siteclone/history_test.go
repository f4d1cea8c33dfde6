package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/water102/siteclone"
	main "github.com/water102/siteclone/cmd/siteclone"
	"github.com/water102/siteclone/mock"
)

func TestHistoryCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists records with ID, URL and counts", func(t *testing.T) {
		t.Parallel()

		history := &mock.HistoryService{
			FindRecordsFn: func(_ context.Context, _ siteclone.CloneRecordFilter) ([]*siteclone.CloneRecord, error) {
				return []*siteclone.CloneRecord{
					{
						ID:         "rec-123",
						TargetURL:  "https://example.com",
						Processed:  5,
						Downloaded: 4,
						Skipped:    1,
						Duration:   2 * time.Second,
						CreatedAt:  time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			History: history,
		}

		cmd := &main.HistoryCmd{Limit: 20}
		require.NoError(t, cmd.Run(deps))

		output := stdout.String()
		assert.Contains(t, output, "rec-123")
		assert.Contains(t, output, "https://example.com")
		assert.Contains(t, output, "5/4/1")
	})

	t.Run("filters by target URL", func(t *testing.T) {
		t.Parallel()

		var gotFilter siteclone.CloneRecordFilter
		history := &mock.HistoryService{
			FindRecordsFn: func(_ context.Context, filter siteclone.CloneRecordFilter) ([]*siteclone.CloneRecord, error) {
				gotFilter = filter
				return nil, nil
			},
		}

		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			History: history,
		}

		cmd := &main.HistoryCmd{URL: "https://example.com", Limit: 5}
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, gotFilter.TargetURL)
		assert.Equal(t, "https://example.com", *gotFilter.TargetURL)
		assert.Equal(t, 5, gotFilter.Limit)
	})

	t.Run("shows helpful message when no records exist", func(t *testing.T) {
		t.Parallel()

		history := &mock.HistoryService{
			FindRecordsFn: func(_ context.Context, _ siteclone.CloneRecordFilter) ([]*siteclone.CloneRecord, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			History: history,
		}

		cmd := &main.HistoryCmd{Limit: 20}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "No clone runs")
	})

	t.Run("deletes record by ID", func(t *testing.T) {
		t.Parallel()

		var deletedID string
		history := &mock.HistoryService{
			DeleteRecordFn: func(_ context.Context, id string) error {
				deletedID = id
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			History: history,
		}

		cmd := &main.HistoryCmd{Delete: "rec-123"}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, "rec-123", deletedID)
		assert.Contains(t, stdout.String(), "Deleted record rec-123")
	})

	t.Run("returns error when listing fails", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("database connection failed")
		history := &mock.HistoryService{
			FindRecordsFn: func(_ context.Context, _ siteclone.CloneRecordFilter) ([]*siteclone.CloneRecord, error) {
				return nil, dbErr
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			History: history,
		}

		cmd := &main.HistoryCmd{Limit: 20}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, dbErr, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}
