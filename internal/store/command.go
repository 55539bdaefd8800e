package store

import (
	"github.com/alexanderramin/estimator/internal/domain"
)

// DefaultMaxNotifications bounds the notification queue.
const DefaultMaxNotifications = 5

// Limits holds the bounds Apply enforces.
type Limits struct {
	MaxNotifications int
}

// DefaultLimits returns the stock limits.
func DefaultLimits() Limits {
	return Limits{MaxNotifications: DefaultMaxNotifications}
}

func (l Limits) maxNotifications() int {
	if l.MaxNotifications <= 0 {
		return DefaultMaxNotifications
	}
	return l.MaxNotifications
}

// Command is a state transition. The set of commands is closed: only the
// types in this file implement it.
type Command interface {
	command()
}

// SetProject replaces the open project. Loaded distinguishes a project read
// from storage (clean) from a newly created one that was never saved (dirty).
type SetProject struct {
	Project *domain.Project
	Loaded  bool
}

// UpdateProject replaces the open project with Transform(current) and marks
// it dirty. It is ignored when no project is open. Transform must not modify
// its argument.
type UpdateProject struct {
	Transform func(*domain.Project) *domain.Project
}

// ClearProject closes the open project.
type ClearProject struct{}

type MarkDirty struct{}

type MarkClean struct{}

type SetSection struct {
	Section domain.Section
}

// AddNotification appends a notification, evicting the oldest one when the
// queue is full.
type AddNotification struct {
	Notification domain.Notification
}

// RemoveNotification drops the notification with the given id. Unknown ids
// are ignored.
type RemoveNotification struct {
	ID string
}

type ClearNotifications struct{}

func (SetProject) command()         {}
func (UpdateProject) command()      {}
func (ClearProject) command()       {}
func (MarkDirty) command()          {}
func (MarkClean) command()          {}
func (SetSection) command()         {}
func (AddNotification) command()    {}
func (RemoveNotification) command() {}
func (ClearNotifications) command() {}

// Apply returns the state that results from running cmd against s. The
// returned State keeps s.Version; only the Store advances versions. When the
// command is a no-op s is returned unchanged.
func Apply(s State, cmd Command, lim Limits) State {
	p, ok := Plan(s, cmd, lim)
	if !ok {
		return s
	}
	return p.merge(s)
}

// Plan computes the patch for cmd. The boolean is false when the command
// does not write at all, which is the case for UpdateProject without an
// open project or whose transform returns nil, and for RemoveNotification
// with an unknown id.
func Plan(s State, cmd Command, lim Limits) (Patch, bool) {
	switch c := cmd.(type) {
	case SetProject:
		return Patch{
			CurrentProject: Value(c.Project),
			IsDirty:        Value(c.Project != nil && !c.Loaded),
		}, true

	case UpdateProject:
		if s.CurrentProject == nil || c.Transform == nil {
			return Patch{}, false
		}
		next := c.Transform(s.CurrentProject)
		if next == nil {
			return Patch{}, false
		}
		return Patch{
			CurrentProject: Value(next),
			IsDirty:        Value(true),
		}, true

	case ClearProject:
		return Patch{
			CurrentProject: Value[*domain.Project](nil),
			IsDirty:        Value(false),
		}, true

	case MarkDirty:
		return Patch{IsDirty: Value(true)}, true

	case MarkClean:
		return Patch{IsDirty: Value(false)}, true

	case SetSection:
		return Patch{CurrentSection: Value(c.Section)}, true

	case AddNotification:
		return Patch{Notifications: Value(appendBounded(s.Notifications, c.Notification, lim.maxNotifications()))}, true

	case RemoveNotification:
		idx := notificationIndex(s.Notifications, c.ID)
		if idx < 0 {
			return Patch{}, false
		}
		next := make([]domain.Notification, 0, len(s.Notifications)-1)
		next = append(next, s.Notifications[:idx]...)
		next = append(next, s.Notifications[idx+1:]...)
		return Patch{Notifications: Value(next)}, true

	case ClearNotifications:
		return Patch{Notifications: Value([]domain.Notification{})}, true
	}
	return Patch{}, false
}

// appendBounded returns a new slice with n appended, dropping from the front
// so the result holds at most max entries.
func appendBounded(list []domain.Notification, n domain.Notification, max int) []domain.Notification {
	start := 0
	if len(list) >= max {
		start = len(list) - max + 1
	}
	next := make([]domain.Notification, 0, len(list)-start+1)
	next = append(next, list[start:]...)
	return append(next, n)
}

func notificationIndex(list []domain.Notification, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
