package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// GetDocument returns the JSON stored at path.
func (d *DB) GetDocument(ctx context.Context, path string) (json.RawMessage, error) {
	var data string
	err := d.QueryRowContext(ctx, `SELECT data FROM documents WHERE path = ?`, path).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}
	return json.RawMessage(data), nil
}

// MergeDocument sets the given top-level fields of the document at path,
// leaving other fields untouched byte for byte. The document is created if
// missing.
func (d *DB) MergeDocument(ctx context.Context, path string, fields map[string]any) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	doc := map[string]json.RawMessage{}
	var data string
	err = tx.QueryRowContext(ctx, `SELECT data FROM documents WHERE path = ?`, path).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("reading document %s: %w", path, err)
	default:
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			return fmt.Errorf("decoding document %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]json.RawMessage{}
		}
	}

	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding field %s of %s: %w", k, path, err)
		}
		doc[k] = raw
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document %s: %w", path, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (path, data, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(path) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		path, string(merged))
	if err != nil {
		return fmt.Errorf("writing document %s: %w", path, err)
	}
	return tx.Commit()
}
