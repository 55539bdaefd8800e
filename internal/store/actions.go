package store

import "github.com/alexanderramin/estimator/internal/domain"

// SetProject opens p. loaded is true when p was just read from storage and
// false when it was created in memory and has never been saved.
func (s *Store) SetProject(p *domain.Project, loaded bool) {
	s.Dispatch(SetProject{Project: p, Loaded: loaded})
}

// UpdateProject replaces the open project with fn(current) and marks the
// state dirty, in one notification pass. It reports false, without writing,
// when no project is open or when fn returns nil. fn must return a new
// project rather than modify the one it receives. It may run more than once.
func (s *Store) UpdateProject(fn func(*domain.Project) *domain.Project) bool {
	return s.Dispatch(UpdateProject{Transform: fn})
}

// CloseProject clears the open project.
func (s *Store) CloseProject() {
	s.Dispatch(ClearProject{})
}

func (s *Store) MarkDirty() {
	s.Dispatch(MarkDirty{})
}

func (s *Store) MarkClean() {
	s.Dispatch(MarkClean{})
}

func (s *Store) SetSection(section domain.Section) {
	s.Dispatch(SetSection{Section: section})
}

// AddNotification queues n and returns its id, generating one when n.ID is
// empty.
func (s *Store) AddNotification(n domain.Notification) string {
	cmd := s.prepare(AddNotification{Notification: n}).(AddNotification)
	s.Dispatch(cmd)
	return cmd.Notification.ID
}

// RemoveNotification drops the notification with the given id. Removing an
// id that is not queued does nothing.
func (s *Store) RemoveNotification(id string) {
	s.Dispatch(RemoveNotification{ID: id})
}

func (s *Store) ClearNotifications() {
	s.Dispatch(ClearNotifications{})
}
