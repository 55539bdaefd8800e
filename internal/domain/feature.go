package domain

import (
	"fmt"
	"math"
)

// Feature is a single estimated unit of work within a project.
type Feature struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Category    string  `json:"category,omitempty"`
	Supplier    string  `json:"supplier,omitempty"`
	RealManDays float64 `json:"realManDays"`
	// Expertise is the supplier's expertise percentage (1-100).
	Expertise int `json:"expertise"`
	// RiskMargin is an extra percentage applied on top of the adjusted effort.
	RiskMargin float64 `json:"riskMargin"`
	ManDays    float64 `json:"manDays"`
	Notes      string  `json:"notes,omitempty"`
}

// DefaultExpertise is used when a feature does not specify one.
const DefaultExpertise = 100

// CalculateManDays derives the effective man-days from the real estimate,
// the expertise level and the risk margin, rounded to two decimals.
func CalculateManDays(realManDays float64, expertise int, riskMargin float64) float64 {
	if expertise <= 0 {
		expertise = DefaultExpertise
	}
	v := realManDays * (100 / float64(expertise)) * (1 + riskMargin/100)
	return math.Round(v*100) / 100
}

// WithDerivedManDays returns a copy of f with ManDays recomputed.
func (f Feature) WithDerivedManDays() Feature {
	if f.Expertise == 0 {
		f.Expertise = DefaultExpertise
	}
	f.ManDays = CalculateManDays(f.RealManDays, f.Expertise, f.RiskMargin)
	return f
}

func (f Feature) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("id is required")
	}
	if f.Description == "" {
		return fmt.Errorf("feature %s: description is required", f.ID)
	}
	if f.RealManDays < 0 {
		return fmt.Errorf("feature %s: real man-days must not be negative", f.ID)
	}
	if f.Expertise < 0 || f.Expertise > 100 {
		return fmt.Errorf("feature %s: expertise must be between 1 and 100", f.ID)
	}
	if f.RiskMargin < 0 {
		return fmt.Errorf("feature %s: risk margin must not be negative", f.ID)
	}
	return nil
}
