package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/alexanderramin/estimator/internal/logging"
	"github.com/alexanderramin/estimator/internal/projectfile"
	"github.com/alexanderramin/estimator/internal/repository"
	"github.com/alexanderramin/estimator/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// projectService runs the project lifecycle against the store. Storage
// results are known before the store is touched, so a failed load or save
// leaves the open project and its dirty flag as they were.
type projectService struct {
	st       *store.Store
	files    ProjectFiles
	recent   repository.RecentProjectRepo
	notifier Notifier
	observer UseCaseObserver
	log      *logrus.Entry
	now      func() time.Time
}

func NewProjectService(
	st *store.Store,
	files ProjectFiles,
	recent repository.RecentProjectRepo,
	notifier Notifier,
	log *logrus.Entry,
	observers ...UseCaseObserver,
) ProjectService {
	return &projectService{
		st:       st,
		files:    files,
		recent:   recent,
		notifier: notifierOrNoop(notifier),
		observer: useCaseObserverOrNoop(observers),
		log:      logging.OrDiscard(log),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *projectService) guardUnsaved(force bool) error {
	st := s.st.State()
	if st.HasProject() && st.IsDirty && !force {
		return fmt.Errorf("%w: %s", ErrUnsavedChanges, st.CurrentProject.Meta.Name)
	}
	return nil
}

func (s *projectService) New(ctx context.Context, in NewProjectInput) (p *domain.Project, err error) {
	defer observe(ctx, s.observer, "project-new", map[string]any{"code": in.Code})(&err)

	if err = s.guardUnsaved(in.Force); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("creating project: name is required")
	}
	p = domain.NewProject(uuid.New().String(), strings.ToUpper(strings.TrimSpace(in.Code)), name, s.now())
	p.Meta.Description = strings.TrimSpace(in.Description)
	if err = p.Validate(); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.st.SetProject(p, false)
	s.notifier.Info("Project created", fmt.Sprintf("%s is not saved yet", p.Meta.Name))
	return p, nil
}

func (s *projectService) Open(ctx context.Context, path string, force bool) (p *domain.Project, err error) {
	defer observe(ctx, s.observer, "project-open", map[string]any{"path": path})(&err)

	if err = s.guardUnsaved(force); err != nil {
		return nil, err
	}
	p, err = s.files.Load(ctx, path)
	if err != nil {
		s.notifier.Error("Open failed", err.Error())
		return nil, fmt.Errorf("opening project: %w", err)
	}

	s.st.SetProject(p, true)
	s.touchRecent(ctx, p, path)
	s.notifier.Success("Project opened", p.Meta.Name)
	return p, nil
}

// Save writes the open project with its patch version bumped. The store is
// marked clean only when the project was not edited while the write was in
// flight.
func (s *projectService) Save(ctx context.Context) (res projectfile.SaveResult, err error) {
	defer observe(ctx, s.observer, "project-save", nil)(&err)

	before := s.st.State().CurrentProject
	if before == nil {
		return res, ErrNoProject
	}
	next := before.Clone()
	next.Meta.Version = domain.BumpVersion(next.Meta.Version)
	next.Meta.LastModified = s.now()

	res, err = s.files.Save(ctx, next)
	if err != nil {
		s.notifier.Error("Save failed", err.Error())
		return res, fmt.Errorf("saving project: %w", err)
	}

	s.st.UpdateIf(func(st store.State) (store.Patch, bool) {
		if st.CurrentProject == before {
			return store.Patch{CurrentProject: store.Value(next), IsDirty: store.Value(false)}, true
		}
		if st.CurrentProject == nil || st.CurrentProject.Meta.ID != next.Meta.ID {
			// Closed or replaced during the write.
			return store.Patch{}, false
		}
		// Edited during the write: keep the edits and the dirty flag, but
		// carry the saved version forward.
		cur := st.CurrentProject.Clone()
		cur.Meta.Version = next.Meta.Version
		cur.Meta.LastModified = next.Meta.LastModified
		return store.Patch{CurrentProject: store.Value(cur)}, true
	})

	s.touchRecent(ctx, next, res.FilePath)
	s.notifier.Success("Project saved", res.FileName)
	return res, nil
}

func (s *projectService) Close(ctx context.Context, force bool) (err error) {
	defer observe(ctx, s.observer, "project-close", map[string]any{"force": force})(&err)

	if !s.st.State().HasProject() {
		return ErrNoProject
	}
	if err = s.guardUnsaved(force); err != nil {
		s.notifier.Warning("Unsaved changes", "Save the project or close it with force")
		return err
	}
	s.st.CloseProject()
	return nil
}

// Delete removes a project file. When the file holds the open project the
// project is closed as well.
func (s *projectService) Delete(ctx context.Context, path string) (err error) {
	defer observe(ctx, s.observer, "project-delete", map[string]any{"path": path})(&err)

	var id string
	if p, loadErr := s.files.Load(ctx, path); loadErr == nil {
		id = p.Meta.ID
	} else if errors.Is(loadErr, projectfile.ErrNotFound) {
		s.notifier.Error("Delete failed", loadErr.Error())
		return fmt.Errorf("deleting project: %w", loadErr)
	}

	if err = s.files.Delete(ctx, path); err != nil {
		s.notifier.Error("Delete failed", err.Error())
		return fmt.Errorf("deleting project: %w", err)
	}

	if id != "" {
		if cur := s.st.State().CurrentProject; cur != nil && cur.Meta.ID == id {
			s.st.CloseProject()
		}
		if s.recent != nil {
			if rerr := s.recent.Remove(ctx, id); rerr != nil {
				s.log.WithError(rerr).WithField("project", id).Warn("removing recent entry")
			}
		}
	}
	s.notifier.Success("Project deleted", path)
	return nil
}

func (s *projectService) List(ctx context.Context) ([]projectfile.FileInfo, error) {
	infos, err := s.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return infos, nil
}

func (s *projectService) Recent(ctx context.Context) ([]domain.RecentProject, error) {
	if s.recent == nil {
		return nil, nil
	}
	list, err := s.recent.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recent projects: %w", err)
	}
	return list, nil
}

// touchRecent records p as recently used. Failures only cost the recent
// list, so they are logged rather than returned.
func (s *projectService) touchRecent(ctx context.Context, p *domain.Project, path string) {
	if s.recent == nil {
		return
	}
	if err := s.recent.Touch(ctx, domain.RecentFrom(p, path, s.now())); err != nil {
		s.log.WithError(err).WithField("project", p.Meta.ID).Warn("updating recent projects")
	}
}
