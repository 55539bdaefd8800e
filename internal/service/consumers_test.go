package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/alexanderramin/estimator/internal/store"
	"github.com/alexanderramin/estimator/internal/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigator_Navigate(t *testing.T) {
	st := store.New()
	nav := NewNavigator(st)
	defer nav.Close()
	ctx := context.Background()

	assert.ErrorIs(t, nav.Navigate(ctx, "reports"), ErrUnknownSection)
	assert.ErrorIs(t, nav.Navigate(ctx, domain.SectionFeatures), ErrNoProject)
	require.NoError(t, nav.Navigate(ctx, domain.SectionConfiguration))
	assert.Equal(t, domain.SectionConfiguration, nav.Current())

	st.SetProject(testutil.NewTestProject("CRM"), true)
	require.NoError(t, nav.Navigate(ctx, domain.SectionFeatures))
	assert.Equal(t, domain.SectionFeatures, nav.Current())
}

func TestNavigator_FallsBackWhenProjectCloses(t *testing.T) {
	st := store.New()
	nav := NewNavigator(st)
	defer nav.Close()

	st.SetProject(testutil.NewTestProject("CRM"), true)
	st.SetSection(domain.SectionPhases)
	st.CloseProject()

	assert.Equal(t, domain.SectionProjects, st.State().CurrentSection)
}

func TestNavigator_KeepsProjectFreeSection(t *testing.T) {
	st := store.New()
	nav := NewNavigator(st)
	defer nav.Close()

	st.SetProject(testutil.NewTestProject("CRM"), true)
	st.SetSection(domain.SectionConfiguration)
	st.CloseProject()

	assert.Equal(t, domain.SectionConfiguration, st.State().CurrentSection)
}

func TestPhaseCalculator_TracksFeatures(t *testing.T) {
	h := setup(t)
	calc := NewPhaseCalculator(h.st, 400, nil)
	defer calc.Close()
	ctx := context.Background()

	openProject(t, h, testutil.NewTestFeature("F001", testutil.WithRealManDays(2)))
	assert.False(t, h.st.State().IsDirty, "opening a project must not recalculate")

	_, err := h.features.Add(ctx, testutil.NewTestFeature("F002", testutil.WithRealManDays(3)))
	require.NoError(t, err)

	dev := h.st.State().CurrentProject.Phases[domain.PhaseDevelopment]
	assert.Equal(t, 5.0, dev.ManDays)
	assert.Equal(t, 2000.0, dev.Cost)

	version := h.st.State().Version
	h.st.SetSection(domain.SectionPhases)
	assert.Equal(t, version+1, h.st.State().Version, "unrelated writes must not trigger a recalculation")
}

func TestPhaseCalculator_SingleWritePerFeatureChange(t *testing.T) {
	h := setup(t)
	calc := NewPhaseCalculator(h.st, 0, nil)
	defer calc.Close()
	openProject(t, h)

	var passes int
	unsubscribe := h.st.Subscribe(func(store.State, store.State) { passes++ })
	defer unsubscribe()

	_, err := h.features.Add(context.Background(), testutil.NewTestFeature("F001"))
	require.NoError(t, err)

	assert.Equal(t, 2, passes, "one pass for the edit and one for the phase update")
}

func TestAutoSaver_SavesWhileDirty(t *testing.T) {
	h := setup(t)
	saver := NewAutoSaver(h.st, h.projects, 20*time.Millisecond, nil)
	defer saver.Close()

	_, err := h.projects.New(context.Background(), NewProjectInput{Name: "CRM rollout", Code: "CRM"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return !h.st.State().IsDirty
	}, 2*time.Second, 10*time.Millisecond)

	infos, err := h.projects.List(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	_, statErr := os.Stat(infos[0].FilePath)
	assert.NoError(t, statErr)
}

func TestAutoSaver_CloseCancelsPendingSave(t *testing.T) {
	h := setup(t)
	saver := NewAutoSaver(h.st, h.projects, time.Hour, nil)

	_, err := h.projects.New(context.Background(), NewProjectInput{Name: "CRM rollout", Code: "CRM"})
	require.NoError(t, err)
	saver.Close()

	assert.True(t, h.st.State().IsDirty)
	infos, err := h.projects.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestChangeLog_RecordsTransitions(t *testing.T) {
	logger, hook := test.NewNullLogger()
	st := store.New()
	cl := NewChangeLog(st, logrus.NewEntry(logger))
	defer cl.Close()

	p := testutil.NewTestProject("CRM")
	st.SetProject(p, false)
	st.MarkClean()
	st.SetSection(domain.SectionFeatures)
	st.CloseProject()

	var messages []string
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{
		"project opened",
		"dirty state changed",
		"dirty state changed",
		"section changed",
		"project closed",
	}, messages)

	last := hook.LastEntry()
	assert.Equal(t, p.Meta.ID, last.Data["project"])
}
