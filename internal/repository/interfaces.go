package repository

import (
	"context"

	"github.com/alexanderramin/estimator/internal/domain"
)

// KVRepo is a namespaced key-value store for small JSON documents.
type KVRepo interface {
	Get(ctx context.Context, namespace, key string, dst any) (bool, error)
	Put(ctx context.Context, namespace, key string, value any) error
	Delete(ctx context.Context, namespace, key string) error
	Keys(ctx context.Context, namespace string) ([]string, error)
}

// RecentProjectRepo keeps the bounded, most-recent-first list of opened
// projects.
type RecentProjectRepo interface {
	List(ctx context.Context) ([]domain.RecentProject, error)
	Touch(ctx context.Context, r domain.RecentProject) error
	Remove(ctx context.Context, projectID string) error
	Clear(ctx context.Context) error
}
