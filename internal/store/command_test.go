package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProject(id string) *domain.Project {
	return domain.NewProject(id, "CRM", "CRM rollout", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func note(id string) domain.Notification {
	return domain.Notification{ID: id, Title: id, Type: domain.NotifyInfo}
}

func TestApply_SetProject_DirtyFollowsLoadedFlag(t *testing.T) {
	p := testProject("p1")

	created := Apply(Initial(), SetProject{Project: p, Loaded: false}, DefaultLimits())
	assert.Same(t, p, created.CurrentProject)
	assert.True(t, created.IsDirty)

	loaded := Apply(created, SetProject{Project: p, Loaded: true}, DefaultLimits())
	assert.False(t, loaded.IsDirty)
}

func TestApply_UpdateProject_WithoutProjectIsNoop(t *testing.T) {
	called := false
	_, ok := Plan(Initial(), UpdateProject{Transform: func(p *domain.Project) *domain.Project {
		called = true
		return p
	}}, DefaultLimits())

	assert.False(t, ok)
	assert.False(t, called)
}

func TestApply_UpdateProject_NilResultDeclines(t *testing.T) {
	s := Apply(Initial(), SetProject{Project: testProject("p1"), Loaded: true}, DefaultLimits())

	_, ok := Plan(s, UpdateProject{Transform: func(*domain.Project) *domain.Project {
		return nil
	}}, DefaultLimits())

	assert.False(t, ok)
}

func TestApply_UpdateProject_SetsDirty(t *testing.T) {
	s := Apply(Initial(), SetProject{Project: testProject("p1"), Loaded: true}, DefaultLimits())
	require.False(t, s.IsDirty)

	next := Apply(s, UpdateProject{Transform: func(p *domain.Project) *domain.Project {
		c := p.Clone()
		c.Meta.Name = "renamed"
		return c
	}}, DefaultLimits())

	assert.True(t, next.IsDirty)
	assert.Equal(t, "renamed", next.CurrentProject.Meta.Name)
	assert.Equal(t, "CRM rollout", s.CurrentProject.Meta.Name)
}

func TestApply_ClearProject(t *testing.T) {
	s := Apply(Initial(), SetProject{Project: testProject("p1")}, DefaultLimits())
	s = Apply(s, ClearProject{}, DefaultLimits())
	assert.Nil(t, s.CurrentProject)
	assert.False(t, s.IsDirty)
}

func TestApply_MarkDirtyAndClean_LeaveProjectAlone(t *testing.T) {
	p := testProject("p1")
	s := Apply(Initial(), SetProject{Project: p, Loaded: true}, DefaultLimits())

	s = Apply(s, MarkDirty{}, DefaultLimits())
	assert.True(t, s.IsDirty)
	assert.Same(t, p, s.CurrentProject)

	s = Apply(s, MarkClean{}, DefaultLimits())
	assert.False(t, s.IsDirty)
	assert.Same(t, p, s.CurrentProject)
}

func TestApply_SetSection(t *testing.T) {
	s := Apply(Initial(), SetSection{Section: domain.SectionPhases}, DefaultLimits())
	assert.Equal(t, domain.SectionPhases, s.CurrentSection)
}

func TestApply_AddNotification_EvictsOldestAtCapacity(t *testing.T) {
	lim := Limits{MaxNotifications: 3}
	s := Initial()
	for i := 1; i <= 4; i++ {
		s = Apply(s, AddNotification{Notification: note(fmt.Sprintf("n%d", i))}, lim)
	}

	assert.Equal(t, []string{"n2", "n3", "n4"}, NotificationIDs(s))
}

func TestApply_AddNotification_DoesNotAliasPreviousSlice(t *testing.T) {
	s1 := Apply(Initial(), AddNotification{Notification: note("a")}, DefaultLimits())
	s2 := Apply(s1, AddNotification{Notification: note("b")}, DefaultLimits())
	s3 := Apply(s1, AddNotification{Notification: note("c")}, DefaultLimits())

	assert.Equal(t, []string{"a"}, NotificationIDs(s1))
	assert.Equal(t, []string{"a", "b"}, NotificationIDs(s2))
	assert.Equal(t, []string{"a", "c"}, NotificationIDs(s3))
}

func TestApply_RemoveNotification_IsIdempotent(t *testing.T) {
	s := Initial()
	for _, id := range []string{"a", "b", "c"} {
		s = Apply(s, AddNotification{Notification: note(id)}, DefaultLimits())
	}

	once := Apply(s, RemoveNotification{ID: "b"}, DefaultLimits())
	assert.Equal(t, []string{"a", "c"}, NotificationIDs(once))

	_, wrote := Plan(once, RemoveNotification{ID: "b"}, DefaultLimits())
	assert.False(t, wrote)
	twice := Apply(once, RemoveNotification{ID: "b"}, DefaultLimits())
	assert.Equal(t, NotificationIDs(once), NotificationIDs(twice))
	assert.Equal(t, []string{"a", "b", "c"}, NotificationIDs(s), "source snapshot untouched")
}

func TestApply_ClearNotifications(t *testing.T) {
	s := Apply(Initial(), AddNotification{Notification: note("a")}, DefaultLimits())
	s = Apply(s, ClearNotifications{}, DefaultLimits())
	assert.Empty(t, s.Notifications)
}

func TestLimits_ZeroMeansDefault(t *testing.T) {
	assert.Equal(t, DefaultMaxNotifications, Limits{}.maxNotifications())
}
