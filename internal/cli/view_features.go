package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/estimator/internal/cli/formatter"
	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// featuresView edits the feature table of the open project. It reads the
// features from the store on every render.
type featuresView struct {
	state  *tuiState
	cursor int
}

func newFeaturesView(state *tuiState) *featuresView {
	return &featuresView{state: state}
}

func (v *featuresView) ID() ViewID    { return ViewFeatures }
func (v *featuresView) Title() string { return "Features" }

func (v *featuresView) ShortHelp() []key.Binding {
	return []key.Binding{keys.Add, keys.Edit, keys.Copy, keys.Delete}
}

func (v *featuresView) Init() tea.Cmd { return nil }

func (v *featuresView) features() []domain.Feature {
	if p := v.state.App.Store.State().CurrentProject; p != nil {
		return p.Features
	}
	return nil
}

func (v *featuresView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case storeChangedMsg, refreshViewMsg:
		v.cursor = clampCursor(v.cursor, len(v.features()))
	case tea.KeyMsg:
		return v.updateKey(msg)
	}
	return v, nil
}

func (v *featuresView) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := v.state.App
	features := v.features()

	switch {
	case key.Matches(msg, keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, keys.Down):
		if v.cursor < len(features)-1 {
			v.cursor++
		}
	case key.Matches(msg, keys.Add):
		return v, featureWizard(v.state, nil)
	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Select):
		if v.cursor < len(features) {
			f := features[v.cursor]
			return v, featureWizard(v.state, &f)
		}
	case key.Matches(msg, keys.Copy):
		if v.cursor < len(features) {
			id := features[v.cursor].ID
			v.cursor++
			return v, run(func(ctx context.Context) error {
				_, err := app.Features.Duplicate(ctx, id)
				return err
			})
		}
	case key.Matches(msg, keys.Delete):
		if v.cursor < len(features) {
			f := features[v.cursor]
			var ok bool
			form := confirmForm(fmt.Sprintf("Remove %s?", f.ID), f.Description, &ok)
			return v, startWizardCmd(v.state, "Remove feature", form, func() tea.Cmd {
				if !ok {
					return nil
				}
				return run(func(ctx context.Context) error { return app.Features.Remove(ctx, f.ID) })
			})
		}
	}
	return v, nil
}

func (v *featuresView) View() string {
	features := v.features()
	if len(features) == 0 {
		return "\n  " + formatter.Dim("No features yet. Press a to add one.")
	}
	return formatter.FormatFeatures(features, v.cursor)
}
