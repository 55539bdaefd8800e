// Package store holds the process-wide application state.
//
// A Store owns one immutable State snapshot. Every write builds a new
// snapshot by shallow-merging a Patch into the previous one, swaps it in,
// and then synchronously notifies every subscriber with the new and previous
// snapshots, in subscription order. The store never deduplicates writes and
// never batches them; deciding whether a change matters is left to each
// subscriber, typically through SubscribeSelect.
package store

import "github.com/alexanderramin/estimator/internal/domain"

// State is one snapshot of the application. Slices, maps and the project
// reachable from a State are shared between snapshots and must be treated as
// read-only.
type State struct {
	CurrentProject *domain.Project
	IsDirty        bool
	CurrentSection domain.Section
	Notifications  []domain.Notification

	// Version increases by one on every write.
	Version uint64
}

// HasProject reports whether a project is open.
func (s State) HasProject() bool {
	return s.CurrentProject != nil
}

// DirtyState returns the named dirty/clean state.
func (s State) DirtyState() domain.DirtyState {
	return domain.DirtyStateOf(s.IsDirty)
}

// Initial returns the state of a freshly started application.
func Initial() State {
	return State{CurrentSection: domain.SectionProjects}
}

// Field is an optional patch value. The zero Field leaves the target
// untouched.
type Field[T any] struct {
	Value T
	Set   bool
}

// Value returns a Field that sets v.
func Value[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Patch is a partial State. Only fields marked Set are written.
type Patch struct {
	CurrentProject Field[*domain.Project]
	IsDirty        Field[bool]
	CurrentSection Field[domain.Section]
	Notifications  Field[[]domain.Notification]
}

// Empty reports whether the patch sets nothing.
func (p Patch) Empty() bool {
	return !p.CurrentProject.Set && !p.IsDirty.Set && !p.CurrentSection.Set && !p.Notifications.Set
}

// merge returns a copy of s with the patch applied. Fields not named keep
// their previous values and references.
func (p Patch) merge(s State) State {
	if p.CurrentProject.Set {
		s.CurrentProject = p.CurrentProject.Value
	}
	if p.IsDirty.Set {
		s.IsDirty = p.IsDirty.Value
	}
	if p.CurrentSection.Set {
		s.CurrentSection = p.CurrentSection.Value
	}
	if p.Notifications.Set {
		s.Notifications = p.Notifications.Value
	}
	return s
}
