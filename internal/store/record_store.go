package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/task-extractor/internal/model"
)

// recordRow is the flat task_records row shape for sqlx scanning.
type recordRow struct {
	ID          string         `db:"id"`
	MessageID   string         `db:"message_id"`
	Subject     string         `db:"subject"`
	Content     string         `db:"content"`
	Name        string         `db:"name"`
	Due         sql.NullString `db:"due"`
	EmailLink   sql.NullString `db:"email_link"`
	Label       sql.NullString `db:"label"`
	Priority    sql.NullString `db:"priority"`
	SmartList   sql.NullString `db:"smart_list"`
	Status      sql.NullString `db:"status"`
	Tag         sql.NullString `db:"tag"`
	ExtractedAt time.Time      `db:"extracted_at"`
}

// UpsertRecords inserts or replaces a batch of extracted records.
// Records are keyed by id; a re-extracted message with the same
// message_id replaces the previous row.
func (s *SQLiteStore) UpsertRecords(
	ctx context.Context,
	records []model.StoredRecord,
) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO task_records (
			id, message_id, subject, content, name,
			due, email_link, label, priority,
			smart_list, status, tag, extracted_at
		) VALUES (
			?, ?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?, ?
		)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		label, err := marshalLabel(rec.Record.Label)
		if err != nil {
			return fmt.Errorf("marshaling label for record %s: %w", rec.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			rec.ID, rec.MessageID, rec.Subject, rec.Record.Content, rec.Record.Name,
			nullable(rec.Record.Due), nullable(rec.Record.EmailLink), label,
			nullable((*string)(rec.Record.Priority)),
			nullable((*string)(rec.Record.SmartList)),
			nullable((*string)(rec.Record.Status)),
			nullable(rec.Record.Tag),
			rec.ExtractedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting record %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// GetRecords retrieves records matching the provided filter options.
func (s *SQLiteStore) GetRecords(
	ctx context.Context,
	filter RecordFilter,
) ([]model.StoredRecord, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, *filter.Priority)
	}
	if filter.SmartList != nil {
		conditions = append(conditions, "smart_list = ?")
		args = append(args, *filter.SmartList)
	}
	if filter.Query != nil {
		conditions = append(conditions, "(name LIKE ? OR content LIKE ?)")
		pattern := "%" + *filter.Query + "%"
		args = append(args, pattern, pattern)
	}

	query := "SELECT * FROM task_records"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	switch sortBy {
	case "name", "due", "extracted_at":
	default:
		sortBy = "extracted_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, direction)

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	var rows []recordRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}

	records := make([]model.StoredRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := rowToRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// GetRecordByID retrieves a single record, or nil when not found.
func (s *SQLiteStore) GetRecordByID(
	ctx context.Context, id string,
) (*model.StoredRecord, error) {
	var row recordRow
	err := s.db.GetContext(
		ctx, &row, "SELECT * FROM task_records WHERE id = ?", id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying record %s: %w", id, err)
	}

	rec, err := rowToRecord(row)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// rowToRecord maps a database row back to a StoredRecord.
func rowToRecord(row recordRow) (model.StoredRecord, error) {
	rec := model.StoredRecord{
		ID:          row.ID,
		MessageID:   row.MessageID,
		Subject:     row.Subject,
		ExtractedAt: row.ExtractedAt,
		Record: model.TaskRecord{
			Content: row.Content,
			Name:    row.Name,
		},
	}

	if row.Due.Valid {
		rec.Record.Due = &row.Due.String
	}
	if row.EmailLink.Valid {
		rec.Record.EmailLink = &row.EmailLink.String
	}
	if row.Label.Valid {
		// A stored "[]" round-trips to an empty slice, not nil.
		labels := []string{}
		if err := json.Unmarshal([]byte(row.Label.String), &labels); err != nil {
			return rec, fmt.Errorf("unmarshaling label for record %s: %w", row.ID, err)
		}
		rec.Record.Label = labels
	}
	if row.Priority.Valid {
		priority := model.Priority(row.Priority.String)
		rec.Record.Priority = &priority
	}
	if row.SmartList.Valid {
		smartList := model.SmartList(row.SmartList.String)
		rec.Record.SmartList = &smartList
	}
	if row.Status.Valid {
		status := model.Status(row.Status.String)
		rec.Record.Status = &status
	}
	if row.Tag.Valid {
		rec.Record.Tag = &row.Tag.String
	}

	return rec, nil
}

// marshalLabel serializes the label slice, preserving the distinction
// between an absent value (NULL) and an empty list ("[]").
func marshalLabel(labels []string) (interface{}, error) {
	if labels == nil {
		return nil, nil
	}
	data, err := json.Marshal(labels)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// nullable converts an optional string to a driver-level value.
func nullable(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
