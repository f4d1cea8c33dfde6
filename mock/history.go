package mock

import (
	"context"

	"github.com/water102/siteclone"
)

var _ siteclone.HistoryService = (*HistoryService)(nil)

// HistoryService is a mock implementation of siteclone.HistoryService.
type HistoryService struct {
	CreateRecordFn   func(ctx context.Context, rec *siteclone.CloneRecord) error
	FindRecordByIDFn func(ctx context.Context, id string) (*siteclone.CloneRecord, error)
	FindRecordsFn    func(ctx context.Context, filter siteclone.CloneRecordFilter) ([]*siteclone.CloneRecord, error)
	DeleteRecordFn   func(ctx context.Context, id string) error
}

func (s *HistoryService) CreateRecord(ctx context.Context, rec *siteclone.CloneRecord) error {
	return s.CreateRecordFn(ctx, rec)
}

func (s *HistoryService) FindRecordByID(ctx context.Context, id string) (*siteclone.CloneRecord, error) {
	return s.FindRecordByIDFn(ctx, id)
}

func (s *HistoryService) FindRecords(ctx context.Context, filter siteclone.CloneRecordFilter) ([]*siteclone.CloneRecord, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *HistoryService) DeleteRecord(ctx context.Context, id string) error {
	return s.DeleteRecordFn(ctx, id)
}
