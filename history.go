package siteclone

import (
	"context"
	"time"
)

// CloneRecord is one finished clone run, kept for history listings.
type CloneRecord struct {
	ID          string        `json:"id"`
	TargetURL   string        `json:"targetUrl"`
	OutputDir   string        `json:"outputDir"`
	SavedPath   string        `json:"savedPath"`
	Processed   int           `json:"processed"`
	Downloaded  int           `json:"downloaded"`
	Skipped     int           `json:"skipped"`
	APICount    int           `json:"apiCount"`
	ContentHash string        `json:"contentHash"`
	Duration    time.Duration `json:"duration"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *CloneRecord) Validate() error {
	if r.TargetURL == "" {
		return Errorf(EINVALID, "clone record target URL required")
	}
	if r.OutputDir == "" {
		return Errorf(EINVALID, "clone record output directory required")
	}
	return nil
}

// CloneRecordFilter represents a filter for FindRecords.
type CloneRecordFilter struct {
	ID        *string `json:"id"`
	TargetURL *string `json:"targetUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// HistoryService represents a service for managing clone history records.
type HistoryService interface {
	// CreateRecord creates a new clone record.
	CreateRecord(ctx context.Context, rec *CloneRecord) error

	// FindRecordByID retrieves a record by ID.
	// Returns ENOTFOUND if the record does not exist.
	FindRecordByID(ctx context.Context, id string) (*CloneRecord, error)

	// FindRecords retrieves records matching the filter, newest first.
	FindRecords(ctx context.Context, filter CloneRecordFilter) ([]*CloneRecord, error)

	// DeleteRecord permanently removes a record.
	// Returns ENOTFOUND if the record does not exist.
	DeleteRecord(ctx context.Context, id string) error
}
