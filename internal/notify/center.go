package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/alexanderramin/estimator/internal/logging"
	"github.com/sirupsen/logrus"
)

// Renderer displays notifications. Calls may arrive from timer goroutines.
type Renderer interface {
	Show(n domain.Notification)
	Hide(id string)
}

// RendererFuncs adapts two functions to Renderer. Nil functions are skipped.
type RendererFuncs struct {
	OnShow func(domain.Notification)
	OnHide func(string)
}

func (r RendererFuncs) Show(n domain.Notification) {
	if r.OnShow != nil {
		r.OnShow(n)
	}
}

func (r RendererFuncs) Hide(id string) {
	if r.OnHide != nil {
		r.OnHide(id)
	}
}

// Center diffs the queue on every change, renders additions and removals,
// and expires non-persistent notifications by removing them through the
// sink. It never removes a rendered notification on its own; the queue
// stays the source of truth.
type Center struct {
	sink     Sink
	renderer Renderer
	clock    Clock
	log      *logrus.Entry
	duration time.Duration

	mu     sync.Mutex
	timers map[string]Timer
	stop   func()
}

// CenterOption configures a Center.
type CenterOption func(*Center)

func WithClock(c Clock) CenterOption {
	return func(n *Center) { n.clock = c }
}

// WithDefaultDuration sets how long notifications raised through the
// Success, Warning and Info helpers stay visible.
func WithDefaultDuration(d time.Duration) CenterOption {
	return func(n *Center) { n.duration = d }
}

func WithLogger(l *logrus.Entry) CenterOption {
	return func(n *Center) { n.log = logging.OrDiscard(l) }
}

// NewCenter starts watching sink. Notifications already queued are rendered
// and scheduled immediately.
func NewCenter(sink Sink, r Renderer, opts ...CenterOption) *Center {
	c := &Center{
		sink:     sink,
		renderer: r,
		clock:    RealClock(),
		log:      logging.Discard(),
		timers:   make(map[string]Timer),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, n := range sink.List() {
		c.added(n)
	}
	c.stop = sink.Watch(c.changed)
	return c
}

// Sink returns the queue the center renders.
func (c *Center) Sink() Sink {
	return c.sink
}

func (c *Center) changed(next, prev []domain.Notification) {
	before := make(map[string]bool, len(prev))
	for _, n := range prev {
		before[n.ID] = true
	}
	after := make(map[string]bool, len(next))
	for _, n := range next {
		after[n.ID] = true
	}

	for _, n := range prev {
		if !after[n.ID] {
			c.removed(n.ID)
		}
	}
	for _, n := range next {
		if !before[n.ID] {
			c.added(n)
		}
	}
}

func (c *Center) added(n domain.Notification) {
	c.renderer.Show(n)

	d, expires := n.ExpiresAfter()
	if !expires {
		return
	}
	id := n.ID
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.timers[id]; ok {
		old.Stop()
	}
	c.timers[id] = c.clock.AfterFunc(d, func() { c.expire(id) })
}

func (c *Center) expire(id string) {
	c.mu.Lock()
	_, pending := c.timers[id]
	delete(c.timers, id)
	c.mu.Unlock()
	if !pending {
		return
	}
	c.log.WithField("notification", id).Debug("notification expired")
	c.sink.Remove(id)
}

func (c *Center) removed(id string) {
	c.mu.Lock()
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	c.mu.Unlock()
	c.renderer.Hide(id)
}

// Pending returns the number of armed expiry timers.
func (c *Center) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Dismiss removes a notification before it expires.
func (c *Center) Dismiss(id string) {
	c.sink.Remove(id)
}

// Trigger runs the handler of one of a notification's actions and then
// dismisses the notification.
func (c *Center) Trigger(notificationID, actionID string) error {
	for _, n := range c.sink.List() {
		if n.ID != notificationID {
			continue
		}
		for _, a := range n.Actions {
			if a.ID == actionID {
				if a.Handler != nil {
					a.Handler()
				}
				c.Dismiss(notificationID)
				return nil
			}
		}
		return fmt.Errorf("notification %s has no action %q", notificationID, actionID)
	}
	return fmt.Errorf("notification %s not found", notificationID)
}

// Close stops watching the sink and cancels all pending expiries.
func (c *Center) Close() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
}

func (c *Center) notify(t domain.NotificationType, title, message string) string {
	n := domain.Notification{Title: title, Message: message, Type: t}
	if t != domain.NotifyError {
		n.Duration = c.duration
	}
	return c.sink.Add(n)
}

func (c *Center) Success(title, message string) string {
	return c.notify(domain.NotifySuccess, title, message)
}

func (c *Center) Error(title, message string) string {
	return c.notify(domain.NotifyError, title, message)
}

func (c *Center) Warning(title, message string) string {
	return c.notify(domain.NotifyWarning, title, message)
}

func (c *Center) Info(title, message string) string {
	return c.notify(domain.NotifyInfo, title, message)
}
