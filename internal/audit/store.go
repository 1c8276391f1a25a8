// Package audit keeps the per-account activity log: sign-ups, sign-ins,
// sign-outs and settings changes.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/learnova/internal/db"
	"github.com/ziadkadry99/learnova/internal/identity"
)

// Entry is a single activity record.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UID       string    `json:"uid"`
	Action    string    `json:"action"`
	Method    string    `json:"method,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Store persists entries. It implements identity.Recorder.
type Store struct {
	db     *db.DB
	logger *zap.Logger
	now    func() time.Time
}

var _ identity.Recorder = (*Store)(nil)

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: database, logger: logger.Named("audit"), now: time.Now}
}

// Log inserts a new entry. If entry.ID is empty a UUID is generated and a
// zero Timestamp means now.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_entries (id, timestamp, uid, action, method, detail)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.UTC().Format(time.DateTime),
		entry.UID,
		entry.Action,
		entry.Method,
		entry.Detail,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// Record logs an account event. Failures are logged, not returned, so an
// unavailable log never blocks a sign-in.
func (s *Store) Record(ctx context.Context, e identity.Event) {
	err := s.Log(ctx, Entry{UID: e.UID, Action: e.Action, Method: e.Method, Detail: e.Detail})
	if err != nil {
		s.logger.Warn("recording account event", zap.String("uid", e.UID), zap.String("action", e.Action), zap.Error(err))
	}
}

// QueryFilter controls which entries Query returns.
type QueryFilter struct {
	UID    string
	Action string
	Since  *time.Time
	Until  *time.Time
	Limit  int
	Offset int
}

// Query returns entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.UID != "" {
		clauses = append(clauses, "uid = ?")
		args = append(args, filter.UID)
	}
	if filter.Action != "" {
		clauses = append(clauses, "action = ?")
		args = append(args, filter.Action)
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC().Format(time.DateTime))
	}
	if filter.Until != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, filter.Until.UTC().Format(time.DateTime))
	}

	query := "SELECT id, timestamp, uid, action, method, detail FROM audit_entries"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteBefore removes all entries older than the given time and returns
// the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM audit_entries WHERE timestamp < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old audit entries: %w", err)
	}
	return res.RowsAffected()
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e  Entry
		ts string
	)
	if err := rows.Scan(&e.ID, &ts, &e.UID, &e.Action, &e.Method, &e.Detail); err != nil {
		return Entry{}, fmt.Errorf("scanning audit entry: %w", err)
	}
	if t, err := time.Parse(time.DateTime, ts); err == nil {
		e.Timestamp = t
	} else if t, err := time.Parse(time.RFC3339, ts); err == nil {
		e.Timestamp = t
	}
	return e, nil
}
