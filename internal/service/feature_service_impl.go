package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/alexanderramin/estimator/internal/store"
)

// featureService edits the features of the open project. Every edit is a
// single UpdateProject whose transform checks its preconditions against the
// project it is given, so checks and writes cannot interleave with other
// writers.
type featureService struct {
	st       *store.Store
	observer UseCaseObserver
}

func NewFeatureService(st *store.Store, observers ...UseCaseObserver) FeatureService {
	return &featureService{st: st, observer: useCaseObserverOrNoop(observers)}
}

// edit runs fn on a clone of the open project. fn returns an error to leave
// the project untouched.
func (s *featureService) edit(fn func(p *domain.Project) error) error {
	var err error
	wrote := s.st.UpdateProject(func(cur *domain.Project) *domain.Project {
		next := cur.Clone()
		if err = fn(next); err != nil {
			return nil
		}
		return next
	})
	if err != nil {
		return err
	}
	if !wrote {
		return ErrNoProject
	}
	return nil
}

func (s *featureService) Add(ctx context.Context, f domain.Feature) (added domain.Feature, err error) {
	defer observe(ctx, s.observer, "feature-add", map[string]any{"feature": f.ID})(&err)

	err = s.edit(func(p *domain.Project) error {
		if f.ID == "" {
			f.ID = nextFeatureID(p)
		}
		if p.FeatureIndex(f.ID) >= 0 {
			return fmt.Errorf("%w: %s", ErrDuplicateFeature, f.ID)
		}
		f = f.WithDerivedManDays()
		if err := f.Validate(); err != nil {
			return fmt.Errorf("adding feature: %w", err)
		}
		p.Features = append(p.Features, f)
		added = f
		return nil
	})
	return added, err
}

func (s *featureService) Update(ctx context.Context, f domain.Feature) (updated domain.Feature, err error) {
	defer observe(ctx, s.observer, "feature-update", map[string]any{"feature": f.ID})(&err)

	err = s.edit(func(p *domain.Project) error {
		idx := p.FeatureIndex(f.ID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrFeatureNotFound, f.ID)
		}
		f = f.WithDerivedManDays()
		if err := f.Validate(); err != nil {
			return fmt.Errorf("updating feature: %w", err)
		}
		p.Features[idx] = f
		updated = f
		return nil
	})
	return updated, err
}

func (s *featureService) Remove(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "feature-remove", map[string]any{"feature": id})(&err)

	return s.edit(func(p *domain.Project) error {
		idx := p.FeatureIndex(id)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
		}
		p.Features = append(p.Features[:idx], p.Features[idx+1:]...)
		return nil
	})
}

// Duplicate copies a feature under a fresh id, directly after the original.
func (s *featureService) Duplicate(ctx context.Context, id string) (dup domain.Feature, err error) {
	defer observe(ctx, s.observer, "feature-duplicate", map[string]any{"feature": id})(&err)

	err = s.edit(func(p *domain.Project) error {
		idx := p.FeatureIndex(id)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
		}
		dup = p.Features[idx]
		dup.ID = nextFeatureID(p)
		dup.Description += " (copy)"
		p.Features = append(p.Features[:idx+1], append([]domain.Feature{dup}, p.Features[idx+1:]...)...)
		return nil
	})
	return dup, err
}

func (s *featureService) List(ctx context.Context) ([]domain.Feature, error) {
	p := s.st.State().CurrentProject
	if p == nil {
		return nil, ErrNoProject
	}
	out := make([]domain.Feature, len(p.Features))
	copy(out, p.Features)
	return out, nil
}

// nextFeatureID returns F001-style ids, one past the highest numbered id in
// use.
func nextFeatureID(p *domain.Project) string {
	max := 0
	for _, f := range p.Features {
		if !strings.HasPrefix(f.ID, "F") {
			continue
		}
		if n, err := strconv.Atoi(f.ID[1:]); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("F%03d", max+1)
}
