package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/resumekit/internal/db"
)

// Store records and queries résumé edit events.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Log inserts a new event. If ev.ID is empty a UUID is generated; a zero
// timestamp is replaced with the current time.
func (s *Store) Log(ctx context.Context, ev Event) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	if ev.Actor == "" {
		ev.Actor = ActorEditor
	}

	var previous, next sql.NullString
	if ev.PreviousValue != "" {
		previous = sql.NullString{String: ev.PreviousValue, Valid: true}
	}
	if ev.NewValue != "" {
		next = sql.NullString{String: ev.NewValue, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resume_events (id, resume_id, timestamp, actor, action, summary, previous_value, new_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.ResumeID, ev.Timestamp, ev.Actor, string(ev.Action), ev.Summary, previous, next,
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// Query returns events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	var where []string
	var args []any

	if filter.ResumeID != "" {
		where = append(where, "resume_id = ?")
		args = append(args, filter.ResumeID)
	}
	if filter.Action != "" {
		where = append(where, "action = ?")
		args = append(args, string(filter.Action))
	}
	if filter.Since != nil {
		where = append(where, "timestamp >= ?")
		args = append(args, filter.Since.UTC())
	}

	query := `SELECT id, resume_id, timestamp, actor, action, summary, previous_value, new_value FROM resume_events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var ev Event
		var action string
		var previous, next sql.NullString
		if err := rows.Scan(&ev.ID, &ev.ResumeID, &ev.Timestamp, &ev.Actor, &action, &ev.Summary, &previous, &next); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		ev.Action = Action(action)
		ev.PreviousValue = previous.String
		ev.NewValue = next.String
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Count returns the number of events recorded for a résumé.
func (s *Store) Count(ctx context.Context, resumeID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM resume_events WHERE resume_id = ?`, resumeID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}
