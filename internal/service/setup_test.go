package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/alexanderramin/estimator/internal/projectfile"
	"github.com/alexanderramin/estimator/internal/repository"
	"github.com/alexanderramin/estimator/internal/store"
	"github.com/alexanderramin/estimator/internal/testutil"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu      sync.Mutex
	entries []string
}

func (r *recordingNotifier) add(kind, title string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, kind+":"+title)
	return title
}

func (r *recordingNotifier) Success(title, _ string) string { return r.add("success", title) }
func (r *recordingNotifier) Error(title, _ string) string   { return r.add("error", title) }
func (r *recordingNotifier) Warning(title, _ string) string { return r.add("warning", title) }
func (r *recordingNotifier) Info(title, _ string) string    { return r.add("info", title) }

func (r *recordingNotifier) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}

type harness struct {
	st       *store.Store
	dir      *projectfile.Dir
	recent   repository.RecentProjectRepo
	notifier *recordingNotifier
	projects ProjectService
	features FeatureService
}

func setup(t *testing.T) *harness {
	t.Helper()
	dir, err := projectfile.Open(t.TempDir(), nil)
	require.NoError(t, err)
	return setupWithFiles(t, dir, dir)
}

func setupWithFiles(t *testing.T, dir *projectfile.Dir, files ProjectFiles) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	h := &harness{
		st:       store.New(store.WithTransformVerification(true)),
		dir:      dir,
		recent:   repository.NewSQLiteRecentProjectRepo(database, testutil.NewTestUoW(database), 0),
		notifier: &recordingNotifier{},
	}
	h.projects = NewProjectService(h.st, files, h.recent, h.notifier, nil)
	h.features = NewFeatureService(h.st)
	return h
}

// stubFiles wraps a real directory and lets tests intercept saves.
type stubFiles struct {
	*projectfile.Dir
	saveErr    error
	beforeSave func()
}

func (s *stubFiles) Save(ctx context.Context, p *domain.Project) (projectfile.SaveResult, error) {
	if s.beforeSave != nil {
		s.beforeSave()
	}
	if s.saveErr != nil {
		return projectfile.SaveResult{}, s.saveErr
	}
	return s.Dir.Save(ctx, p)
}

var errDiskFull = errors.New("disk full")
