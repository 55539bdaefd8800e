// Package notify mirrors the notification queue onto a renderer and expires
// notifications on a timer.
//
// The queue lives behind a Sink. StoreSink keeps it in the application store,
// which is the source of truth; LocalSink keeps a private copy for the
// degraded mode where no store is reachable. A Center works the same way on
// top of either.
package notify

import (
	"sync"
	"time"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/alexanderramin/estimator/internal/store"
	"github.com/google/uuid"
)

// Sink owns a bounded notification queue.
type Sink interface {
	// Add queues n and returns its id.
	Add(n domain.Notification) string
	// Remove drops the notification with the given id; unknown ids are ignored.
	Remove(id string)
	// List returns the queue in insertion order.
	List() []domain.Notification
	// Watch calls fn after every change to the queue. The returned function
	// stops watching.
	Watch(fn func(next, prev []domain.Notification)) (stop func())
}

// StoreSink keeps notifications in the application store.
type StoreSink struct {
	st *store.Store
}

func NewStoreSink(st *store.Store) *StoreSink {
	return &StoreSink{st: st}
}

func (s *StoreSink) Add(n domain.Notification) string {
	return s.st.AddNotification(n)
}

func (s *StoreSink) Remove(id string) {
	s.st.RemoveNotification(id)
}

func (s *StoreSink) List() []domain.Notification {
	return s.st.State().Notifications
}

func (s *StoreSink) Watch(fn func(next, prev []domain.Notification)) func() {
	return store.SubscribeSelect(s.st,
		func(st store.State) []domain.Notification { return st.Notifications },
		sameIDs,
		fn,
	)
}

// LocalSink is an in-memory queue with the same bound and eviction rule as
// the store. Nothing else in the application sees its contents.
type LocalSink struct {
	mu       sync.Mutex
	list     []domain.Notification
	limits   store.Limits
	watchers map[int]func(next, prev []domain.Notification)
	nextW    int
	now      func() time.Time
}

func NewLocalSink(limits store.Limits) *LocalSink {
	return &LocalSink{
		limits:   limits,
		watchers: make(map[int]func(next, prev []domain.Notification)),
		now:      time.Now,
	}
}

func (s *LocalSink) Add(n domain.Notification) string {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = s.now()
	}
	if n.Type == "" {
		n.Type = domain.NotifyInfo
	}
	s.apply(store.AddNotification{Notification: n})
	return n.ID
}

func (s *LocalSink) Remove(id string) {
	s.apply(store.RemoveNotification{ID: id})
}

func (s *LocalSink) List() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list
}

func (s *LocalSink) Watch(fn func(next, prev []domain.Notification)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextW
	s.nextW++
	s.watchers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, id)
	}
}

// apply reuses the store's pure transition so both sinks evict identically.
func (s *LocalSink) apply(cmd store.Command) {
	s.mu.Lock()
	prev := s.list
	next := store.Apply(store.State{Notifications: prev}, cmd, s.limits).Notifications
	if sameIDs(prev, next) {
		s.mu.Unlock()
		return
	}
	s.list = next
	watchers := make([]func(next, prev []domain.Notification), 0, len(s.watchers))
	for i := 0; i < s.nextW; i++ {
		if w, ok := s.watchers[i]; ok {
			watchers = append(watchers, w)
		}
	}
	s.mu.Unlock()

	for _, w := range watchers {
		w(next, prev)
	}
}

func sameIDs(a, b []domain.Notification) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
