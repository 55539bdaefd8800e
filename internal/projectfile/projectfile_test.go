package projectfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDir(t *testing.T) *Dir {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "projects"), nil)
	require.NoError(t, err)
	return d
}

func sampleProject() *domain.Project {
	p := domain.NewProject("550e8400-e29b-41d4-a716-446655440000", "CRM", "CRM rollout",
		time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	p.Features = []domain.Feature{
		domain.Feature{ID: "F1", Description: "Login", RealManDays: 2, Expertise: 80, RiskMargin: 10}.WithDerivedManDays(),
	}
	p.Phases[domain.PhaseDevelopment] = domain.PhaseEstimate{ManDays: 2.75, Cost: 1100, AssignedResources: map[string]float64{"G2": 2.75}}
	return p
}

func TestSaveLoadRoundTrip(t *testing.T) {
	d := newDir(t)
	ctx := context.Background()
	p := sampleProject()

	res, err := d.Save(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "CRM_550e8400.json", res.FileName)
	assert.Equal(t, filepath.Join(d.Root(), res.FileName), res.FilePath)

	loaded, err := d.Load(ctx, res.FilePath)
	require.NoError(t, err)
	assert.Equal(t, p.Meta.ID, loaded.Meta.ID)
	assert.True(t, p.Meta.Created.Equal(loaded.Meta.Created))
	assert.Equal(t, p.Features, loaded.Features)
	assert.Equal(t, p.Phases[domain.PhaseDevelopment], loaded.Phases[domain.PhaseDevelopment])

	relative, err := d.Load(ctx, res.FileName)
	require.NoError(t, err)
	assert.Equal(t, p.Meta.ID, relative.Meta.ID)
}

func TestLoad_Missing(t *testing.T) {
	d := newDir(t)
	_, err := d.Load(context.Background(), "nope.json")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_RejectsSchemaViolations(t *testing.T) {
	d := newDir(t)
	cases := map[string]string{
		"not json":          `{`,
		"missing project":   `{"features": [], "phases": {}}`,
		"negative man-days": `{"project": {"id":"x","code":"CRM","name":"n","version":"1.0.0","created":"2026-01-01T00:00:00Z","lastModified":"2026-01-01T00:00:00Z"}, "features": [{"id":"F1","description":"d","realManDays":-1}], "phases": {}}`,
		"bad version":       `{"project": {"id":"x","code":"CRM","name":"n","version":"v-one","created":"2026-01-01T00:00:00Z","lastModified":"2026-01-01T00:00:00Z"}, "features": [], "phases": {}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(d.Root(), "bad.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := d.Load(context.Background(), path)
			require.ErrorIs(t, err, ErrInvalidProject)
		})
	}
}

func TestLoad_FillsMissingCollections(t *testing.T) {
	d := newDir(t)
	body := `{"project": {"id":"x","code":"CRM","name":"n","version":"1.0.0","created":"2026-01-01T00:00:00Z","lastModified":"2026-01-01T00:00:00Z"}, "features": null, "phases": null}`
	path := filepath.Join(d.Root(), "sparse.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	p, err := d.Load(context.Background(), path)
	require.NoError(t, err)
	assert.NotNil(t, p.Features)
	assert.Len(t, p.Phases, len(domain.AllPhases))
}

func TestSave_RejectsInvalidProject(t *testing.T) {
	d := newDir(t)
	p := sampleProject()
	p.Meta.Name = ""
	_, err := d.Save(context.Background(), p)
	require.ErrorIs(t, err, ErrInvalidProject)

	entries, err := os.ReadDir(d.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestList_SkipsInvalidAndSortsNewestFirst(t *testing.T) {
	d := newDir(t)
	ctx := context.Background()

	older := sampleProject()
	res1, err := d.Save(ctx, older)
	require.NoError(t, err)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(res1.FilePath, past, past))

	newer := sampleProject()
	newer.Meta.ID = "660e8400-e29b-41d4-a716-446655440000"
	newer.Meta.Code = "ERP"
	_, err = d.Save(ctx, newer)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(d.Root(), "broken.json"), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(d.Root(), "notes.txt"), []byte("x"), 0644))

	list, err := d.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ERP", list[0].Project.Code)
	assert.Equal(t, "CRM", list[1].Project.Code)
	assert.Equal(t, 1, list[1].FeatureCount)
	assert.Positive(t, list[1].FileSize)
}

func TestDelete(t *testing.T) {
	d := newDir(t)
	ctx := context.Background()
	res, err := d.Save(ctx, sampleProject())
	require.NoError(t, err)

	require.NoError(t, d.Delete(ctx, res.FilePath))
	_, err = os.Stat(res.FilePath)
	assert.True(t, os.IsNotExist(err))

	require.ErrorIs(t, d.Delete(ctx, res.FilePath), ErrNotFound)
	require.ErrorIs(t, d.Delete(ctx, filepath.Join(d.Root(), "..", "elsewhere.json")), ErrOutsideDir)
}

func TestDelete_NameStartingWithDotsStaysInside(t *testing.T) {
	d := newDir(t)
	path := filepath.Join(d.Root(), "..draft.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	require.NoError(t, d.Delete(context.Background(), path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestEscapes(t *testing.T) {
	tests := []struct {
		rel  string
		want bool
	}{
		{"project.json", false},
		{"..draft.json", false},
		{filepath.Join("sub", "..", "p.json"), false},
		{"..", true},
		{filepath.Join("..", "elsewhere.json"), true},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, escapes(tt.rel))
		})
	}
}

func TestFileName_SanitizesCode(t *testing.T) {
	p := sampleProject()
	p.Meta.Code = "A/B C"
	p.Meta.ID = "short"
	assert.Equal(t, "A_B_C_short.json", FileName(p))
}

func TestCancelledContext(t *testing.T) {
	d := newDir(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Save(ctx, sampleProject())
	require.ErrorIs(t, err, context.Canceled)
}
