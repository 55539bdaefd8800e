package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/alexanderramin/estimator/internal/store"
)

// Navigator switches sections and falls back to the project list when the
// open project goes away while a project-only section is showing.
type Navigator struct {
	st   *store.Store
	stop func()
}

func NewNavigator(st *store.Store) *Navigator {
	n := &Navigator{st: st}
	n.stop = store.SubscribeComparable(st, store.State.HasProject, func(open, _ bool) {
		if !open && st.State().CurrentSection.RequiresProject() {
			st.SetSection(domain.SectionProjects)
		}
	})
	return n
}

func (n *Navigator) Navigate(_ context.Context, section domain.Section) error {
	if !section.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	if section.RequiresProject() && !n.st.State().HasProject() {
		return fmt.Errorf("opening %s: %w", section, ErrNoProject)
	}
	n.st.SetSection(section)
	return nil
}

func (n *Navigator) Current() domain.Section {
	return n.st.State().CurrentSection
}

// Close stops following project changes.
func (n *Navigator) Close() {
	n.stop()
}
