package store

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/alexanderramin/estimator/internal/logging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Listener is called after every write with the new and previous snapshots.
type Listener func(next, prev State)

// Store is the state container and subscription registry.
//
// Writes are atomic: a producer computes its patch from one snapshot and the
// patch is applied only if that snapshot is still current; otherwise the
// producer runs again. Listeners run on the writer's goroutine after the
// swap, so they may read and write the store again. A write made from inside
// a listener starts a nested notification pass that completes before the
// outer pass resumes. Passes can therefore reach a listener out of version
// order; SubscribeSelect orders them.
type Store struct {
	mu     sync.Mutex
	state  State
	limits Limits

	subMu  sync.Mutex
	subs   []*subscription
	nextID uint64

	log              *logrus.Entry
	now              func() time.Time
	newID            func() string
	verifyTransforms bool
}

type subscription struct {
	id uint64
	fn Listener

	mu     sync.Mutex
	active bool
}

func (s *subscription) isActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Option configures a Store.
type Option func(*Store)

// WithLimits overrides the notification bound.
func WithLimits(l Limits) Option {
	return func(s *Store) { s.limits = l }
}

// WithLogger sets the logger used for listener failures.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Store) { s.log = logging.OrDiscard(l) }
}

// WithClock sets the time source used to stamp notifications.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the generator for notification ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithInitialState seeds the store.
func WithInitialState(st State) Option {
	return func(s *Store) { s.state = st }
}

// WithTransformVerification makes UpdateProject hash the current project
// before and after running the transform and log an error when the transform
// modified its input.
func WithTransformVerification(on bool) Option {
	return func(s *Store) { s.verifyTransforms = on }
}

// New creates a Store holding Initial().
func New(opts ...Option) *Store {
	s := &Store{
		state:  Initial(),
		limits: DefaultLimits(),
		log:    logging.Discard(),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Limits returns the bounds the store enforces.
func (s *Store) Limits() Limits {
	return s.limits
}

// Set shallow-merges p into the current snapshot and notifies subscribers.
// An empty patch still produces a new snapshot and a notification pass.
func (s *Store) Set(p Patch) {
	s.commit(func(State) (Patch, bool) { return p, true })
}

// Update computes a patch from the current snapshot and applies it
// atomically. fn runs without the store's lock held and may read the store;
// it is re-run when another write lands first, so it must be free of side
// effects.
func (s *Store) Update(fn func(State) Patch) {
	s.commit(func(st State) (Patch, bool) { return fn(st), true })
}

// UpdateIf is Update for producers that may decline. When fn reports false
// nothing is written and no listener runs.
func (s *Store) UpdateIf(fn func(State) (Patch, bool)) bool {
	return s.commit(fn)
}

// Dispatch runs cmd as a single write. It reports whether the command wrote;
// commands that are no-ops for the current state produce no notification.
func (s *Store) Dispatch(cmd Command) bool {
	cmd = s.prepare(cmd)
	return s.commit(func(st State) (Patch, bool) {
		c := cmd
		if up, ok := c.(UpdateProject); ok && s.verifyTransforms {
			c = s.verified(st, up)
		}
		return Plan(st, c, s.limits)
	})
}

// prepare fills in fields a command needs but callers may omit.
func (s *Store) prepare(cmd Command) Command {
	if add, ok := cmd.(AddNotification); ok {
		if add.Notification.ID == "" {
			add.Notification.ID = s.newID()
		}
		if add.Notification.Timestamp.IsZero() {
			add.Notification.Timestamp = s.now()
		}
		if add.Notification.Type == "" {
			add.Notification.Type = domain.NotifyInfo
		}
		return add
	}
	return cmd
}

func (s *Store) verified(st State, up UpdateProject) UpdateProject {
	if st.CurrentProject == nil || up.Transform == nil {
		return up
	}
	inner := up.Transform
	return UpdateProject{Transform: func(p *domain.Project) *domain.Project {
		before, err := ProjectHash(p)
		next := inner(p)
		after, err2 := ProjectHash(p)
		if err == nil && err2 == nil && before != after {
			s.log.WithField("project", p.Meta.ID).Error("project transform modified its input")
		}
		return next
	}}
}

// maxCommitAttempts bounds how often a producer is re-run because other
// writes landed while it was running. Every failed attempt means some other
// write succeeded.
const maxCommitAttempts = 64

func (s *Store) commit(fn func(State) (Patch, bool)) bool {
	for attempt := 1; attempt <= maxCommitAttempts; attempt++ {
		prev := s.State()
		p, ok := fn(prev)
		if !ok {
			return false
		}

		s.mu.Lock()
		if s.state.Version != prev.Version {
			s.mu.Unlock()
			continue
		}
		next := p.merge(prev)
		next.Version = prev.Version + 1
		s.state = next
		listeners := s.snapshot()
		s.mu.Unlock()

		s.notify(listeners, next, prev)
		return true
	}
	// A producer that writes to the store itself never sees a stable
	// snapshot.
	s.log.WithField("attempts", maxCommitAttempts).Error("store write declined: state changed under every attempt")
	return false
}

func (s *Store) snapshot() []*subscription {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	out := make([]*subscription, len(s.subs))
	copy(out, s.subs)
	return out
}

func (s *Store) notify(listeners []*subscription, next, prev State) {
	for _, sub := range listeners {
		// A listener unsubscribed earlier in this pass, or from a nested
		// pass, receives nothing more.
		if !sub.isActive() {
			continue
		}
		s.call(sub, next, prev)
	}
}

func (s *Store) call(sub *subscription, next, prev State) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{
				"subscription": sub.id,
				"version":      next.Version,
				"panic":        fmt.Sprint(r),
			}).Error("store listener panicked")
		}
	}()
	sub.fn(next, prev)
}

// Subscribe registers fn for every future write. The returned function
// removes the subscription; calling it more than once is harmless.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	s.nextID++
	sub := &subscription{id: s.nextID, fn: fn, active: true}
	s.subs = append(s.subs, sub)
	s.subMu.Unlock()

	return func() { s.remove(sub) }
}

func (s *Store) remove(sub *subscription) {
	sub.mu.Lock()
	sub.active = false
	sub.mu.Unlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for i, cur := range s.subs {
		if cur == sub {
			s.subs = slices.Delete(s.subs, i, i+1)
			return
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (s *Store) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}
