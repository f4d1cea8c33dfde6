package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/water102/siteclone"
)

// Compile-time interface verification.
var _ siteclone.HistoryService = (*HistoryService)(nil)

// HistoryService implements siteclone.HistoryService using SQLite.
type HistoryService struct {
	db *DB
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(db *DB) *HistoryService {
	return &HistoryService{db: db}
}

// CreateRecord creates a new clone record.
func (s *HistoryService) CreateRecord(ctx context.Context, rec *siteclone.CloneRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clone_records (id, target_url, output_dir, saved_path, processed, downloaded, skipped, api_count, content_hash, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.TargetURL, rec.OutputDir, rec.SavedPath, rec.Processed, rec.Downloaded,
		rec.Skipped, rec.APICount, rec.ContentHash, rec.Duration.Milliseconds(),
		rec.CreatedAt.Format(time.RFC3339))

	return err
}

// FindRecordByID retrieves a clone record by ID.
func (s *HistoryService) FindRecordByID(ctx context.Context, id string) (*siteclone.CloneRecord, error) {
	var rec siteclone.CloneRecord
	var durationMS int64
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, target_url, output_dir, saved_path, processed, downloaded, skipped, api_count, content_hash, duration_ms, created_at
		FROM clone_records
		WHERE id = ?
	`, id).Scan(&rec.ID, &rec.TargetURL, &rec.OutputDir, &rec.SavedPath, &rec.Processed,
		&rec.Downloaded, &rec.Skipped, &rec.APICount, &rec.ContentHash, &durationMS, &createdAt)

	if err == sql.ErrNoRows {
		return nil, siteclone.Errorf(siteclone.ENOTFOUND, "clone record not found")
	}
	if err != nil {
		return nil, err
	}

	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.CreatedAt, err = parseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// FindRecords retrieves clone records matching the filter, newest first.
func (s *HistoryService) FindRecords(ctx context.Context, filter siteclone.CloneRecordFilter) ([]*siteclone.CloneRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, target_url, output_dir, saved_path, processed, downloaded, skipped, api_count, content_hash, duration_ms, created_at FROM clone_records WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.TargetURL != nil {
		query.WriteString(" AND target_url = ?")
		args = append(args, *filter.TargetURL)
	}

	query.WriteString(" ORDER BY created_at DESC")
	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*siteclone.CloneRecord
	for rows.Next() {
		var rec siteclone.CloneRecord
		var durationMS int64
		var createdAt string

		if err := rows.Scan(&rec.ID, &rec.TargetURL, &rec.OutputDir, &rec.SavedPath, &rec.Processed,
			&rec.Downloaded, &rec.Skipped, &rec.APICount, &rec.ContentHash, &durationMS, &createdAt); err != nil {
			return nil, err
		}

		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.CreatedAt, err = parseTimestamp(createdAt)
		if err != nil {
			return nil, err
		}

		records = append(records, &rec)
	}

	return records, rows.Err()
}

// parseTimestamp converts a stored created_at column back to a
// time.Time. Timestamps are always written in RFC3339, so a value that
// fails to parse means the row was corrupted outside this service.
func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, siteclone.Errorf(siteclone.EINTERNAL, "parsing created_at: %v", err)
	}
	return t, nil
}

// DeleteRecord permanently removes a clone record.
func (s *HistoryService) DeleteRecord(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM clone_records WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return siteclone.Errorf(siteclone.ENOTFOUND, "clone record not found")
	}

	return nil
}
