package service

import (
	"math"
	"sync/atomic"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/alexanderramin/estimator/internal/logging"
	"github.com/alexanderramin/estimator/internal/store"
	"github.com/sirupsen/logrus"
)

// featureKey identifies a feature list within one project.
type featureKey struct {
	ProjectID string
	Features  uint64
}

func featureKeyOf(s store.State) featureKey {
	if s.CurrentProject == nil {
		return featureKey{}
	}
	return featureKey{ProjectID: s.CurrentProject.Meta.ID, Features: store.FeaturesKey(s.CurrentProject)}
}

// PhaseCalculator keeps the development phase in step with the feature list.
//
// It reacts only when the features of the same project change, so opening a
// project never marks it dirty, and its own write changes phases but not
// features, so the nested pass it triggers is filtered by the key. The busy
// flag covers writers that bypass the key.
type PhaseCalculator struct {
	st        *store.Store
	dailyRate float64
	log       *logrus.Entry
	busy      atomic.Bool
	stop      func()
}

// NewPhaseCalculator subscribes a calculator. dailyRate converts man-days to
// cost; zero leaves the development cost untouched.
func NewPhaseCalculator(st *store.Store, dailyRate float64, log *logrus.Entry) *PhaseCalculator {
	c := &PhaseCalculator{st: st, dailyRate: dailyRate, log: logging.OrDiscard(log)}
	c.stop = store.SubscribeComparable(st, featureKeyOf, func(next, prev featureKey) {
		if next.ProjectID == "" || next.ProjectID != prev.ProjectID {
			return
		}
		c.recalculate()
	})
	return c
}

func (c *PhaseCalculator) recalculate() {
	if !c.busy.CompareAndSwap(false, true) {
		return
	}
	defer c.busy.Store(false)

	c.st.UpdateProject(func(cur *domain.Project) *domain.Project {
		est := DevelopmentEstimate(cur, c.dailyRate)
		old := cur.Phases[domain.PhaseDevelopment]
		if old.ManDays == est.ManDays && old.Cost == est.Cost {
			return nil
		}
		next := cur.Clone()
		next.Phases[domain.PhaseDevelopment] = est
		c.log.WithFields(logrus.Fields{
			"project":  cur.Meta.ID,
			"man_days": est.ManDays,
		}).Debug("development phase recalculated")
		return next
	})
}

// Close unsubscribes the calculator.
func (c *PhaseCalculator) Close() {
	c.stop()
}

// DevelopmentEstimate sums feature man-days into the development phase,
// keeping its assigned resources.
func DevelopmentEstimate(p *domain.Project, dailyRate float64) domain.PhaseEstimate {
	est := p.Phases[domain.PhaseDevelopment].Clone()
	var total float64
	for _, f := range p.Features {
		total += f.ManDays
	}
	est.ManDays = round2(total)
	if dailyRate > 0 {
		est.Cost = round2(total * dailyRate)
	}
	return est
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
