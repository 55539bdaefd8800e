package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"time"

	"github.com/Masterminds/semver/v3"
)

var codePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_-]{1,19}$`)

// DefaultProjectVersion is assigned to projects created without a version.
const DefaultProjectVersion = "1.0.0"

// ProjectMeta is the identity and bookkeeping record of a project.
type ProjectMeta struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Version      string    `json:"version"`
	Created      time.Time `json:"created"`
	LastModified time.Time `json:"lastModified"`
}

// ProjectConfig is the project-level configuration. The store and services
// treat it opaquely; resolving the three layers is left to the configuration
// screens.
type ProjectConfig struct {
	ProjectSpecific map[string]json.RawMessage `json:"projectSpecific,omitempty"`
	GlobalOverrides map[string]json.RawMessage `json:"globalOverrides,omitempty"`
	Inherited       map[string]json.RawMessage `json:"inherited,omitempty"`
}

// Project is a complete estimation project.
type Project struct {
	Meta     ProjectMeta                `json:"project"`
	Features []Feature                  `json:"features"`
	Phases   map[PhaseKey]PhaseEstimate `json:"phases"`
	Config   ProjectConfig              `json:"config"`
}

// NewProject returns an empty project with every phase present.
func NewProject(id, code, name string, now time.Time) *Project {
	return &Project{
		Meta: ProjectMeta{
			ID:           id,
			Code:         code,
			Name:         name,
			Version:      DefaultProjectVersion,
			Created:      now,
			LastModified: now,
		},
		Features: []Feature{},
		Phases:   EmptyPhases(),
	}
}

// Clone returns a deep copy. Transforms passed to the store must edit a clone,
// never the value they were given.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := &Project{Meta: p.Meta}
	if p.Features != nil {
		c.Features = make([]Feature, len(p.Features))
		copy(c.Features, p.Features)
	}
	if p.Phases != nil {
		c.Phases = make(map[PhaseKey]PhaseEstimate, len(p.Phases))
		for k, v := range p.Phases {
			c.Phases[k] = v.Clone()
		}
	}
	c.Config = ProjectConfig{
		ProjectSpecific: cloneRaw(p.Config.ProjectSpecific),
		GlobalOverrides: cloneRaw(p.Config.GlobalOverrides),
		Inherited:       cloneRaw(p.Config.Inherited),
	}
	return c
}

func cloneRaw(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// FeatureIndex returns the position of the feature with the given id, or -1.
func (p *Project) FeatureIndex(id string) int {
	for i := range p.Features {
		if p.Features[i].ID == id {
			return i
		}
	}
	return -1
}

// TotalManDays sums the man-days of every phase.
func (p *Project) TotalManDays() float64 {
	var total float64
	for _, ph := range p.Phases {
		total += ph.ManDays
	}
	return total
}

// TotalCost sums the cost of every phase.
func (p *Project) TotalCost() float64 {
	var total float64
	for _, ph := range p.Phases {
		total += ph.Cost
	}
	return total
}

// ValidateCode checks that Code is non-empty and matches the required
// format: an uppercase letter followed by 1-19 uppercase letters, digits,
// '_' or '-' (e.g. CRM, ERP-2024).
func (p *Project) ValidateCode() error {
	if p.Meta.Code == "" {
		return fmt.Errorf("project code is required (use --code flag)")
	}
	if !codePattern.MatchString(p.Meta.Code) {
		return fmt.Errorf("project code %q must start with an uppercase letter followed by 1-19 uppercase letters, digits, '_' or '-'", p.Meta.Code)
	}
	return nil
}

// Validate reports every structural problem with the project.
func (p *Project) Validate() error {
	var errs []error
	if p.Meta.ID == "" {
		errs = append(errs, fmt.Errorf("project.id is required"))
	}
	if p.Meta.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if err := p.ValidateCode(); err != nil {
		errs = append(errs, err)
	}
	if _, err := semver.StrictNewVersion(p.Meta.Version); err != nil {
		errs = append(errs, fmt.Errorf("project.version %q is not a semantic version: %w", p.Meta.Version, err))
	}
	seen := make(map[string]bool, len(p.Features))
	for i, f := range p.Features {
		if seen[f.ID] {
			errs = append(errs, fmt.Errorf("features[%d]: duplicate id %q", i, f.ID))
		}
		seen[f.ID] = true
		if err := f.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("features[%d]: %w", i, err))
		}
	}
	for k := range p.Phases {
		if !k.Valid() {
			errs = append(errs, fmt.Errorf("phases: unknown phase %q", k))
		}
	}
	return errors.Join(errs...)
}

// BumpVersion returns the version with its patch component incremented.
// Unparseable versions restart at DefaultProjectVersion.
func BumpVersion(version string) string {
	v, err := semver.NewVersion(version)
	if err != nil {
		return DefaultProjectVersion
	}
	return v.IncPatch().String()
}

// DisplayID returns the best short identifier for display.
// It prefers Code; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.Meta.Code != "" {
		return p.Meta.Code
	}
	if len(p.Meta.ID) >= 8 {
		return p.Meta.ID[:8]
	}
	return p.Meta.ID
}

// PhaseEstimate is the effort and cost assigned to one phase.
type PhaseEstimate struct {
	ManDays           float64            `json:"manDays"`
	AssignedResources map[string]float64 `json:"assignedResources,omitempty"`
	Cost              float64            `json:"cost"`
}

// Clone returns a deep copy of the estimate.
func (e PhaseEstimate) Clone() PhaseEstimate {
	e.AssignedResources = maps.Clone(e.AssignedResources)
	return e
}

// EmptyPhases returns a phase map with a zero estimate for every phase.
func EmptyPhases() map[PhaseKey]PhaseEstimate {
	phases := make(map[PhaseKey]PhaseEstimate, len(AllPhases))
	for _, k := range AllPhases {
		phases[k] = PhaseEstimate{}
	}
	return phases
}
