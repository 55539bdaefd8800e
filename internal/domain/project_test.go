package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProject() *Project {
	p := NewProject("550e8400-e29b-41d4-a716-446655440000", "CRM", "CRM rollout", time.Now())
	p.Features = []Feature{{ID: "F1", Description: "Login", RealManDays: 2, Expertise: 100}}
	return p
}

func TestValidateCode_Valid(t *testing.T) {
	cases := []string{"CRM", "ERP-2024", "A1", "BILLING_V2"}
	for _, code := range cases {
		p := &Project{Meta: ProjectMeta{Code: code}}
		assert.NoError(t, p.ValidateCode(), "should accept %q", code)
	}
}

func TestValidateCode_Empty(t *testing.T) {
	p := &Project{}
	err := p.ValidateCode()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestValidateCode_Lowercase(t *testing.T) {
	p := &Project{Meta: ProjectMeta{Code: "crm"}}
	err := p.ValidateCode()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uppercase")
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	p := validProject()
	p.Meta.Version = "one"
	p.Features = append(p.Features, Feature{ID: "F1", Description: "Dup", Expertise: 100})
	p.Phases["bogus"] = PhaseEstimate{}

	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "semantic version")
	assert.Contains(t, err.Error(), `duplicate id "F1"`)
	assert.Contains(t, err.Error(), `unknown phase "bogus"`)
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validProject().Validate())
}

func TestClone_IsDeep(t *testing.T) {
	p := validProject()
	p.Phases[PhaseDevelopment] = PhaseEstimate{ManDays: 3, AssignedResources: map[string]float64{"dev": 1}}
	p.Config.ProjectSpecific = map[string]json.RawMessage{"rates": json.RawMessage(`{"dev":400}`)}

	c := p.Clone()
	c.Features[0].Description = "changed"
	c.Phases[PhaseDevelopment].AssignedResources["dev"] = 9
	c.Config.ProjectSpecific["rates"][0] = '['

	assert.Equal(t, "Login", p.Features[0].Description)
	assert.Equal(t, 1.0, p.Phases[PhaseDevelopment].AssignedResources["dev"])
	assert.Equal(t, `{"dev":400}`, string(p.Config.ProjectSpecific["rates"]))
}

func TestClone_Nil(t *testing.T) {
	var p *Project
	assert.Nil(t, p.Clone())
}

func TestBumpVersion(t *testing.T) {
	assert.Equal(t, "1.0.1", BumpVersion("1.0.0"))
	assert.Equal(t, "2.3.5", BumpVersion("2.3.4"))
	assert.Equal(t, DefaultProjectVersion, BumpVersion("not-a-version"))
}

func TestDisplayID(t *testing.T) {
	assert.Equal(t, "CRM", validProject().DisplayID())
	p := &Project{Meta: ProjectMeta{ID: "550e8400-e29b-41d4-a716-446655440000"}}
	assert.Equal(t, "550e8400", p.DisplayID())
	p = &Project{Meta: ProjectMeta{ID: "abc"}}
	assert.Equal(t, "abc", p.DisplayID())
}

func TestCalculateManDays(t *testing.T) {
	assert.Equal(t, 10.0, CalculateManDays(10, 100, 0))
	assert.Equal(t, 20.0, CalculateManDays(10, 50, 0))
	assert.Equal(t, 11.0, CalculateManDays(10, 100, 10))
	assert.Equal(t, 10.0, CalculateManDays(10, 0, 0), "zero expertise falls back to default")
}

func TestTotals(t *testing.T) {
	p := validProject()
	p.Phases[PhaseDevelopment] = PhaseEstimate{ManDays: 4, Cost: 1600}
	p.Phases[PhaseUAT] = PhaseEstimate{ManDays: 1, Cost: 300}
	assert.Equal(t, 5.0, p.TotalManDays())
	assert.Equal(t, 1900.0, p.TotalCost())
}

func TestNotificationExpiresAfter(t *testing.T) {
	d, ok := Notification{Type: NotifyInfo}.ExpiresAfter()
	assert.True(t, ok)
	assert.Equal(t, DefaultNotificationDuration, d)

	d, ok = Notification{Type: NotifyError}.ExpiresAfter()
	assert.True(t, ok)
	assert.Equal(t, DefaultErrorDuration, d)

	d, ok = Notification{Duration: time.Second}.ExpiresAfter()
	assert.True(t, ok)
	assert.Equal(t, time.Second, d)

	_, ok = Notification{Persistent: true}.ExpiresAfter()
	assert.False(t, ok)
}

func TestSectionRequiresProject(t *testing.T) {
	assert.False(t, SectionProjects.RequiresProject())
	assert.False(t, SectionConfiguration.RequiresProject())
	assert.True(t, SectionFeatures.RequiresProject())
	assert.True(t, Section("features").Valid())
	assert.False(t, Section("nope").Valid())
}
