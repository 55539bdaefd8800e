package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/estimator/internal/db"
)

// SQLiteKVRepo implements KVRepo on the kv_entries table.
type SQLiteKVRepo struct {
	db db.DBTX
}

// NewSQLiteKVRepo creates a KV repository on a database or transaction.
func NewSQLiteKVRepo(q db.DBTX) *SQLiteKVRepo {
	return &SQLiteKVRepo{db: q}
}

// Get decodes the value stored under key into dst. It reports false when the
// key does not exist.
func (r *SQLiteKVRepo) Get(ctx context.Context, namespace, key string, dst any) (bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM kv_entries WHERE namespace = ? AND key = ?`, namespace, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s/%s: %w", namespace, key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decoding %s/%s: %w", namespace, key, err)
	}
	return true, nil
}

func (r *SQLiteKVRepo) Put(ctx context.Context, namespace, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", namespace, key, err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO kv_entries (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		namespace, key, string(data), nowUTC())
	if err != nil {
		return fmt.Errorf("writing %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (r *SQLiteKVRepo) Delete(ctx context.Context, namespace, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE namespace = ? AND key = ?`, namespace, key)
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Keys lists the keys of a namespace, most recently updated first.
func (r *SQLiteKVRepo) Keys(ctx context.Context, namespace string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key FROM kv_entries WHERE namespace = ? ORDER BY updated_at DESC, key`, namespace)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", namespace, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating keys: %w", err)
	}
	return keys, nil
}
