package service

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/estimator/internal/logging"
	"github.com/alexanderramin/estimator/internal/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const autosaveTimeout = 30 * time.Second

// AutoSaver saves the open project in the background while it is dirty, at
// most once per interval. Saves run outside the notification pass that
// scheduled them.
type AutoSaver struct {
	st       *store.Store
	projects ProjectService
	limiter  *rate.Limiter
	log      *logrus.Entry

	mu      sync.Mutex
	pending *time.Timer
	closed  bool
	saving  sync.WaitGroup
	stop    func()
}

func NewAutoSaver(st *store.Store, projects ProjectService, interval time.Duration, log *logrus.Entry) *AutoSaver {
	a := &AutoSaver{
		st:       st,
		projects: projects,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		log:      logging.OrDiscard(log),
	}
	// The first save also waits a full interval.
	a.limiter.Allow()
	a.stop = st.Subscribe(func(next, _ store.State) {
		if next.IsDirty && next.HasProject() {
			a.schedule()
		}
	})
	return a
}

func (a *AutoSaver) schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || a.pending != nil {
		return
	}
	a.pending = time.AfterFunc(a.limiter.Reserve().Delay(), a.run)
}

func (a *AutoSaver) run() {
	a.mu.Lock()
	a.pending = nil
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.saving.Add(1)
	a.mu.Unlock()
	defer a.saving.Done()

	st := a.st.State()
	if !st.IsDirty || !st.HasProject() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), autosaveTimeout)
	defer cancel()
	res, err := a.projects.Save(ctx)
	if err != nil {
		a.log.WithError(err).WithField("project", st.CurrentProject.Meta.ID).Warn("autosave failed")
		return
	}
	a.log.WithField("file", res.FileName).Debug("autosaved")
}

// Close stops scheduling and waits for a running save to finish.
func (a *AutoSaver) Close() {
	a.stop()
	a.mu.Lock()
	a.closed = true
	if a.pending != nil {
		a.pending.Stop()
		a.pending = nil
	}
	a.mu.Unlock()
	a.saving.Wait()
}
