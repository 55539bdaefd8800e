package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/estimator/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUoW(t *testing.T) (*db.SQLiteUnitOfWork, db.DBTX) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database), database
}

func countEntries(t *testing.T, q db.DBTX, key string) int {
	t.Helper()
	var n int
	err := q.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM kv_entries WHERE namespace = 'test' AND key = ?`, key).Scan(&n)
	require.NoError(t, err)
	return n
}

func insert(ctx context.Context, tx db.DBTX, key string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO kv_entries (namespace, key, value, updated_at) VALUES ('test', ?, '{}', '2026-01-01T00:00:00Z')`, key)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, q := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insert(ctx, tx, "k1")
	})

	require.NoError(t, err)
	assert.Equal(t, 1, countEntries(t, q, "k1"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, q := newUoW(t)
	boom := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		require.NoError(t, insert(ctx, tx, "k2"))
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countEntries(t, q, "k2"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, q := newUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insert(ctx, tx, "k3")
			panic("boom")
		})
	})

	assert.Equal(t, 0, countEntries(t, q, "k3"))
}
