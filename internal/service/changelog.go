package service

import (
	"github.com/alexanderramin/estimator/internal/logging"
	"github.com/alexanderramin/estimator/internal/store"
	"github.com/sirupsen/logrus"
)

// ChangeLog writes project lifecycle, dirty-state and navigation changes to
// the log.
type ChangeLog struct {
	log  *logrus.Entry
	stop func()
}

func NewChangeLog(st *store.Store, log *logrus.Entry) *ChangeLog {
	c := &ChangeLog{log: logging.OrDiscard(log)}
	c.stop = st.Subscribe(c.observe)
	return c
}

func (c *ChangeLog) observe(next, prev store.State) {
	entry := c.log.WithField("version", next.Version)

	switch {
	case prev.CurrentProject == nil && next.CurrentProject != nil:
		entry.WithField("project", next.CurrentProject.Meta.ID).Info("project opened")
	case prev.CurrentProject != nil && next.CurrentProject == nil:
		entry.WithField("project", prev.CurrentProject.Meta.ID).Info("project closed")
	case prev.CurrentProject != nil && next.CurrentProject != nil &&
		prev.CurrentProject.Meta.ID != next.CurrentProject.Meta.ID:
		entry.WithFields(logrus.Fields{
			"from": prev.CurrentProject.Meta.ID,
			"to":   next.CurrentProject.Meta.ID,
		}).Info("project replaced")
	}

	if prev.IsDirty != next.IsDirty {
		entry.WithFields(logrus.Fields{
			"from": prev.DirtyState(),
			"to":   next.DirtyState(),
		}).Info("dirty state changed")
	}
	if prev.CurrentSection != next.CurrentSection {
		entry.WithFields(logrus.Fields{
			"from": prev.CurrentSection,
			"to":   next.CurrentSection,
		}).Info("section changed")
	}
}

func (c *ChangeLog) Close() {
	c.stop()
}
