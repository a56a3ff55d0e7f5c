package store

import (
	"context"

	"github.com/nhle/task-extractor/internal/model"
)

// RecordFilter controls filtering, sorting, and pagination for record
// queries.
type RecordFilter struct {
	Status    *string // normalized status, or nil (all)
	Priority  *string // normalized priority, or nil (all)
	SmartList *string // normalized smart list, or nil (all)
	Query     *string // search name + content
	SortBy    string  // "extracted_at", "name", "due"
	SortDesc  bool
	Limit     int
	Offset    int
}

// Store defines the persistence interface for extracted task records.
type Store interface {
	UpsertRecords(ctx context.Context, records []model.StoredRecord) error
	GetRecords(ctx context.Context, filter RecordFilter) ([]model.StoredRecord, error)
	GetRecordByID(ctx context.Context, id string) (*model.StoredRecord, error)
	Close() error
}
