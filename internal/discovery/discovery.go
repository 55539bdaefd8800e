// Package discovery lets a component built before the store attach to it
// once it is published.
//
// The composition root normally builds the store first and injects it, which
// makes discovery unnecessary. Attach exists for components whose
// construction order cannot be controlled; it polls a Locator a bounded
// number of times and gives up into a degraded, store-less mode instead of
// failing.
package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/estimator/internal/logging"
	"github.com/alexanderramin/estimator/internal/store"
	"github.com/sirupsen/logrus"
)

const (
	DefaultInterval    = 100 * time.Millisecond
	DefaultMaxAttempts = 50
)

// Locator is the place a store is published for late consumers.
type Locator struct {
	mu    sync.RWMutex
	store *store.Store
}

// Publish makes st visible to Lookup.
func (l *Locator) Publish(st *store.Store) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.store = st
}

// Lookup returns the published store, if any.
func (l *Locator) Lookup() (*store.Store, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store, l.store != nil
}

type Result string

const (
	Attached  Result = "attached"
	Degraded  Result = "degraded"
	Cancelled Result = "cancelled"
)

// Options bounds the polling loop.
type Options struct {
	Interval    time.Duration
	MaxAttempts int
	Logger      *logrus.Entry
	// Component names the consumer in log output.
	Component string
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Logger == nil {
		o.Logger = logging.NewLogger("discovery")
	}
	return o
}

// Attach looks the store up immediately and then once per interval until it
// is found, the attempts run out, or ctx ends. onAttach runs at most once, on
// the calling goroutine, with the store it found. Exhausting the attempts
// logs a warning and returns Degraded; a store published afterwards is never
// attached.
func Attach(ctx context.Context, loc *Locator, opts Options, onAttach func(*store.Store)) Result {
	opts = opts.withDefaults()
	log := opts.Logger.WithField("consumer", opts.Component)

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		if st, ok := loc.Lookup(); ok {
			log.WithField("attempt", attempt).Debug("store found")
			onAttach(st)
			return Attached
		}
		if attempt >= opts.MaxAttempts {
			log.WithFields(logrus.Fields{
				"attempts": attempt,
				"waited":   opts.Interval * time.Duration(attempt),
			}).Warn("store not available, continuing without it")
			return Degraded
		}
		select {
		case <-ctx.Done():
			log.WithField("attempt", attempt).Debug("store discovery cancelled")
			return Cancelled
		case <-ticker.C:
		}
	}
}

// AttachAsync runs Attach on its own goroutine and delivers the result on the
// returned channel.
func AttachAsync(ctx context.Context, loc *Locator, opts Options, onAttach func(*store.Store)) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		done <- Attach(ctx, loc, opts, onAttach)
	}()
	return done
}
