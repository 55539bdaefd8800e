package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/estimator/internal/db"
	"github.com/alexanderramin/estimator/internal/domain"
)

const (
	recentNamespace = "recent"
	recentKey       = "projects"

	// DefaultMaxRecent bounds the recently-opened list.
	DefaultMaxRecent = 10
)

// recentRecord is the stored form of a RecentProject.
type recentRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	Version    string    `json:"version"`
	FilePath   string    `json:"filePath"`
	LastOpened time.Time `json:"lastOpened"`
}

// SQLiteRecentProjectRepo stores the recent list as one JSON document in the
// key-value table. Each change is a read-modify-write inside a transaction.
type SQLiteRecentProjectRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
	max int
}

// NewSQLiteRecentProjectRepo creates the repository. max <= 0 uses
// DefaultMaxRecent.
func NewSQLiteRecentProjectRepo(q db.DBTX, uow db.UnitOfWork, max int) *SQLiteRecentProjectRepo {
	if max <= 0 {
		max = DefaultMaxRecent
	}
	return &SQLiteRecentProjectRepo{db: q, uow: uow, max: max}
}

func (r *SQLiteRecentProjectRepo) List(ctx context.Context) ([]domain.RecentProject, error) {
	recs, err := r.load(ctx, NewSQLiteKVRepo(r.db))
	if err != nil {
		return nil, err
	}
	out := make([]domain.RecentProject, len(recs))
	for i, rec := range recs {
		out[i] = domain.RecentProject(rec)
	}
	return out, nil
}

// Touch moves r to the front of the list, inserting it when new and
// trimming the list to its bound.
func (r *SQLiteRecentProjectRepo) Touch(ctx context.Context, rp domain.RecentProject) error {
	return r.modify(ctx, func(recs []recentRecord) []recentRecord {
		next := make([]recentRecord, 0, len(recs)+1)
		next = append(next, recentRecord(rp))
		for _, rec := range recs {
			if rec.ID != rp.ID {
				next = append(next, rec)
			}
		}
		if len(next) > r.max {
			next = next[:r.max]
		}
		return next
	})
}

func (r *SQLiteRecentProjectRepo) Remove(ctx context.Context, projectID string) error {
	return r.modify(ctx, func(recs []recentRecord) []recentRecord {
		next := recs[:0:0]
		for _, rec := range recs {
			if rec.ID != projectID {
				next = append(next, rec)
			}
		}
		return next
	})
}

func (r *SQLiteRecentProjectRepo) Clear(ctx context.Context) error {
	return NewSQLiteKVRepo(r.db).Delete(ctx, recentNamespace, recentKey)
}

func (r *SQLiteRecentProjectRepo) modify(ctx context.Context, fn func([]recentRecord) []recentRecord) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		kv := NewSQLiteKVRepo(tx)
		recs, err := r.load(ctx, kv)
		if err != nil {
			return err
		}
		return kv.Put(ctx, recentNamespace, recentKey, fn(recs))
	})
}

func (r *SQLiteRecentProjectRepo) load(ctx context.Context, kv *SQLiteKVRepo) ([]recentRecord, error) {
	var recs []recentRecord
	if _, err := kv.Get(ctx, recentNamespace, recentKey, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
