package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/estimator/internal/store"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions(t *testing.T) (Options, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return Options{
		Interval:    time.Millisecond,
		MaxAttempts: 5,
		Logger:      logrus.NewEntry(logger),
		Component:   "test",
	}, hook
}

func TestAttach_AlreadyPublished(t *testing.T) {
	loc := &Locator{}
	st := store.New()
	loc.Publish(st)
	opts, _ := fastOptions(t)

	var got *store.Store
	res := Attach(context.Background(), loc, opts, func(s *store.Store) { got = s })

	assert.Equal(t, Attached, res)
	assert.Same(t, st, got)
}

func TestAttach_PublishedWhilePolling(t *testing.T) {
	loc := &Locator{}
	opts, _ := fastOptions(t)
	opts.MaxAttempts = 1000
	st := store.New()

	attached := make(chan *store.Store, 1)
	done := AttachAsync(context.Background(), loc, opts, func(s *store.Store) { attached <- s })
	time.Sleep(5 * time.Millisecond)
	loc.Publish(st)

	select {
	case res := <-done:
		assert.Equal(t, Attached, res)
	case <-time.After(2 * time.Second):
		t.Fatal("discovery did not finish")
	}
	assert.Same(t, st, <-attached)
}

func TestAttach_TimeoutEndsDegradedAndNeverConnectsLater(t *testing.T) {
	loc := &Locator{}
	opts, hook := fastOptions(t)
	calls := 0

	var res Result
	require.NotPanics(t, func() {
		res = Attach(context.Background(), loc, opts, func(*store.Store) { calls++ })
	})

	assert.Equal(t, Degraded, res)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, 5, hook.LastEntry().Data["attempts"])

	st := store.New()
	loc.Publish(st)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, st.Subscribers())
}

func TestAttach_Cancelled(t *testing.T) {
	loc := &Locator{}
	opts, _ := fastOptions(t)
	opts.Interval = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := Attach(ctx, loc, opts, func(*store.Store) { t.Fatal("must not attach") })
	assert.Equal(t, Cancelled, res)
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, 100*time.Millisecond, o.Interval)
	assert.Equal(t, 50, o.MaxAttempts)
	assert.NotNil(t, o.Logger)
}
