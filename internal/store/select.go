package store

import (
	"sync"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/mitchellh/hashstructure/v2"
)

// SubscribeSelect subscribes listener to a derived value. The registry keeps
// the last selected value and calls listener only when equal reports a
// change, passing the new and previous selections.
//
// Selections are taken in version order. A pass older than the last one seen
// is dropped, which happens when a nested write finishes before the outer
// pass resumes or when concurrent writers deliver out of order. Changes are
// handed to listener one at a time in the order they were selected: a write
// made by listener, or by another goroutine while listener runs, is
// delivered after listener returns.
func SubscribeSelect[T any](s *Store, selector func(State) T, equal func(a, b T) bool, listener func(next, prev T)) (unsubscribe func()) {
	var (
		mu       sync.Mutex
		queue    []selection[T]
		draining bool
	)
	st := s.State()
	last, version := selector(st), st.Version

	return s.Subscribe(func(next, _ State) {
		v := selector(next)

		mu.Lock()
		if next.Version <= version {
			mu.Unlock()
			return
		}
		version = next.Version
		if equal(last, v) {
			mu.Unlock()
			return
		}
		queue = append(queue, selection[T]{next: v, prev: last})
		last = v
		if draining {
			mu.Unlock()
			return
		}
		draining = true

		defer func() {
			if r := recover(); r != nil {
				mu.Lock()
				draining = false
				queue = nil
				mu.Unlock()
				panic(r)
			}
		}()
		for len(queue) > 0 {
			c := queue[0]
			queue = queue[1:]
			mu.Unlock()
			listener(c.next, c.prev)
			mu.Lock()
		}
		draining = false
		mu.Unlock()
	})
}

type selection[T any] struct {
	next, prev T
}

// SubscribeComparable is SubscribeSelect for comparable selections.
func SubscribeComparable[T comparable](s *Store, selector func(State) T, listener func(next, prev T)) (unsubscribe func()) {
	return SubscribeSelect(s, selector, func(a, b T) bool { return a == b }, listener)
}

// ProjectHash hashes the full structure of p. A nil project hashes to a
// stable value.
func ProjectHash(p *domain.Project) (uint64, error) {
	return hashstructure.Hash(p, hashstructure.FormatV2, nil)
}

// ProjectKey is a cheap, comparable summary of the parts of a project that
// screens and calculations depend on.
type ProjectKey struct {
	ID           string
	FeatureCount int
	Hash         uint64
}

// KeyOf returns the key of p. Two projects with equal keys have the same id,
// features and phases.
func KeyOf(p *domain.Project) ProjectKey {
	if p == nil {
		return ProjectKey{}
	}
	h, err := hashstructure.Hash(struct {
		Features []domain.Feature
		Phases   map[domain.PhaseKey]domain.PhaseEstimate
	}{p.Features, p.Phases}, hashstructure.FormatV2, nil)
	if err != nil {
		// Unhashable content; fall back to count and modification time.
		h = uint64(len(p.Features))<<32 | uint64(p.Meta.LastModified.UnixNano())
	}
	return ProjectKey{ID: p.Meta.ID, FeatureCount: len(p.Features), Hash: h}
}

// FeaturesKey hashes only the features of p.
func FeaturesKey(p *domain.Project) uint64 {
	if p == nil {
		return 0
	}
	h, err := hashstructure.Hash(p.Features, hashstructure.FormatV2, nil)
	if err != nil {
		return 0
	}
	return h
}

// NotificationIDs returns the ids of the queued notifications in order.
func NotificationIDs(s State) []string {
	ids := make([]string, len(s.Notifications))
	for i, n := range s.Notifications {
		ids[i] = n.ID
	}
	return ids
}
