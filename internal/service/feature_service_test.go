package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/alexanderramin/estimator/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openProject(t *testing.T, h *harness, features ...domain.Feature) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject("CRM rollout", testutil.WithFeatures(features...))
	h.st.SetProject(p, true)
	return p
}

func TestFeatureService_RequiresProject(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	_, err := h.features.Add(ctx, testutil.NewTestFeature("F001"))
	assert.ErrorIs(t, err, ErrNoProject)
	_, err = h.features.List(ctx)
	assert.ErrorIs(t, err, ErrNoProject)
	assert.ErrorIs(t, h.features.Remove(ctx, "F001"), ErrNoProject)
}

func TestFeatureService_AddAssignsIDsAndDerivesManDays(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	before := openProject(t, h, testutil.NewTestFeature("F007"))

	added, err := h.features.Add(ctx, domain.Feature{
		Description: "Login",
		RealManDays: 10,
		Expertise:   50,
		RiskMargin:  10,
	})
	require.NoError(t, err)

	assert.Equal(t, "F008", added.ID)
	assert.Equal(t, 22.0, added.ManDays)
	st := h.st.State()
	assert.True(t, st.IsDirty)
	assert.Len(t, st.CurrentProject.Features, 2)
	assert.Len(t, before.Features, 1, "the previous snapshot must not change")
}

func TestFeatureService_RejectedEditDoesNotWrite(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	openProject(t, h, testutil.NewTestFeature("F001"))
	version := h.st.State().Version

	_, err := h.features.Add(ctx, testutil.NewTestFeature("F001"))
	assert.ErrorIs(t, err, ErrDuplicateFeature)

	_, err = h.features.Add(ctx, domain.Feature{ID: "F002", RealManDays: 1})
	assert.Error(t, err)

	_, err = h.features.Update(ctx, testutil.NewTestFeature("F404"))
	assert.ErrorIs(t, err, ErrFeatureNotFound)

	st := h.st.State()
	assert.Equal(t, version, st.Version)
	assert.False(t, st.IsDirty)
}

func TestFeatureService_UpdateRecalculates(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	openProject(t, h, testutil.NewTestFeature("F001"))

	f := testutil.NewTestFeature("F001", testutil.WithRealManDays(4), testutil.WithRiskMargin(25))
	f.ManDays = 0
	updated, err := h.features.Update(ctx, f)
	require.NoError(t, err)

	assert.Equal(t, 5.0, updated.ManDays)
	list, err := h.features.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Feature{updated}, list)
}

func TestFeatureService_RemoveAndDuplicate(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	openProject(t, h,
		testutil.NewTestFeature("F001"),
		testutil.NewTestFeature("F002"),
		testutil.NewTestFeature("F003"),
	)

	dup, err := h.features.Duplicate(ctx, "F001")
	require.NoError(t, err)
	assert.Equal(t, "F004", dup.ID)
	assert.Equal(t, "Feature F001 (copy)", dup.Description)

	require.NoError(t, h.features.Remove(ctx, "F002"))
	assert.ErrorIs(t, h.features.Remove(ctx, "F002"), ErrFeatureNotFound)

	list, err := h.features.List(ctx)
	require.NoError(t, err)
	ids := make([]string, len(list))
	for i, f := range list {
		ids[i] = f.ID
	}
	assert.Equal(t, []string{"F001", "F004", "F003"}, ids)
}
