package service

import (
	"context"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/alexanderramin/estimator/internal/projectfile"
)

// ProjectFiles is the file-backed project storage.
type ProjectFiles interface {
	Load(ctx context.Context, path string) (*domain.Project, error)
	Save(ctx context.Context, p *domain.Project) (projectfile.SaveResult, error)
	List(ctx context.Context) ([]projectfile.FileInfo, error)
	Delete(ctx context.Context, path string) error
}

// Notifier reports outcomes to the user.
type Notifier interface {
	Success(title, message string) string
	Error(title, message string) string
	Warning(title, message string) string
	Info(title, message string) string
}

// NewProjectInput describes a project to create.
type NewProjectInput struct {
	Name        string
	Code        string
	Description string
	// Force discards unsaved changes to the open project.
	Force bool
}

type ProjectService interface {
	New(ctx context.Context, in NewProjectInput) (*domain.Project, error)
	Open(ctx context.Context, path string, force bool) (*domain.Project, error)
	Save(ctx context.Context) (projectfile.SaveResult, error)
	Close(ctx context.Context, force bool) error
	Delete(ctx context.Context, path string) error
	List(ctx context.Context) ([]projectfile.FileInfo, error)
	Recent(ctx context.Context) ([]domain.RecentProject, error)
}

type FeatureService interface {
	Add(ctx context.Context, f domain.Feature) (domain.Feature, error)
	Update(ctx context.Context, f domain.Feature) (domain.Feature, error)
	Remove(ctx context.Context, id string) error
	Duplicate(ctx context.Context, id string) (domain.Feature, error)
	List(ctx context.Context) ([]domain.Feature, error)
}

type NavigationService interface {
	Navigate(ctx context.Context, section domain.Section) error
	Current() domain.Section
}
