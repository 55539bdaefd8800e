package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/google/uuid"
)

var testCodeCounter atomic.Int64

// ProjectOption customizes a test project.
type ProjectOption func(*domain.Project)

func WithCode(code string) ProjectOption {
	return func(p *domain.Project) {
		p.Meta.Code = code
	}
}

func WithVersion(v string) ProjectOption {
	return func(p *domain.Project) {
		p.Meta.Version = v
	}
}

func WithFeatures(features ...domain.Feature) ProjectOption {
	return func(p *domain.Project) {
		p.Features = append(p.Features, features...)
	}
}

func WithPhase(key domain.PhaseKey, est domain.PhaseEstimate) ProjectOption {
	return func(p *domain.Project) {
		p.Phases[key] = est
	}
}

func defaultCode(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testCodeCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

// NewTestProject returns a valid project with a unique id and code.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	p := domain.NewProject(uuid.New().String(), defaultCode(name), name, time.Now().UTC())
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FeatureOption customizes a test feature.
type FeatureOption func(*domain.Feature)

func WithRealManDays(d float64) FeatureOption {
	return func(f *domain.Feature) {
		f.RealManDays = d
	}
}

func WithExpertise(e int) FeatureOption {
	return func(f *domain.Feature) {
		f.Expertise = e
	}
}

func WithRiskMargin(m float64) FeatureOption {
	return func(f *domain.Feature) {
		f.RiskMargin = m
	}
}

func WithSupplier(s string) FeatureOption {
	return func(f *domain.Feature) {
		f.Supplier = s
	}
}

func WithCategory(c string) FeatureOption {
	return func(f *domain.Feature) {
		f.Category = c
	}
}

// NewTestFeature returns a valid feature with derived man-days.
func NewTestFeature(id string, opts ...FeatureOption) domain.Feature {
	f := domain.Feature{
		ID:          id,
		Description: "Feature " + id,
		RealManDays: 1,
		Expertise:   domain.DefaultExpertise,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f.WithDerivedManDays()
}

// NewTestRecent returns a recent-project entry opened at the given time.
func NewTestRecent(name string, openedAt time.Time) domain.RecentProject {
	p := NewTestProject(name)
	return domain.RecentFrom(p, "/tmp/"+p.Meta.Code+".json", openedAt)
}
