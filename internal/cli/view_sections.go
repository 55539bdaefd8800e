package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/estimator/internal/cli/formatter"
	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// phasesView shows the phase estimates of the open project.
type phasesView struct {
	state *tuiState
}

func newPhasesView(state *tuiState) *phasesView { return &phasesView{state: state} }

func (v *phasesView) ID() ViewID                          { return ViewPhases }
func (v *phasesView) Title() string                       { return "Phases" }
func (v *phasesView) ShortHelp() []key.Binding            { return nil }
func (v *phasesView) Init() tea.Cmd                       { return nil }
func (v *phasesView) Update(tea.Msg) (tea.Model, tea.Cmd) { return v, nil }

func (v *phasesView) View() string {
	p := v.state.App.Store.State().CurrentProject
	if p == nil {
		return ""
	}
	return formatter.FormatPhases(p)
}

// configView shows the application configuration and the project's three
// configuration layers in a scrollable viewport.
type configView struct {
	state *tuiState
	vp    viewport.Model
}

func newConfigView(state *tuiState) *configView {
	vp := viewport.New(max(state.Width, 20), state.ContentHeight())
	return &configView{state: state, vp: vp}
}

func (v *configView) ID() ViewID    { return ViewConfiguration }
func (v *configView) Title() string { return "Configuration" }

func (v *configView) ShortHelp() []key.Binding {
	return []key.Binding{key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "scroll"))}
}

func (v *configView) Init() tea.Cmd {
	v.vp.SetContent(v.content())
	return nil
}

func (v *configView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = v.state.ContentHeight()
	case storeChangedMsg, refreshViewMsg:
		v.vp.SetContent(v.content())
		return v, nil
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *configView) content() string {
	cfg := v.state.App.Config
	var b strings.Builder
	b.WriteString(formatter.Header("Application") + "\n")
	b.WriteString(formatter.RenderTable([]string{"SETTING", "VALUE"}, [][]string{
		{"Home", cfg.Home},
		{"Projects", cfg.ProjectsDir},
		{"Database", cfg.DBPath},
		{"Log level", cfg.LogLevel},
		{"Autosave", cfg.AutosaveInterval.String()},
		{"Notifications", fmt.Sprintf("%d max, %s", cfg.MaxNotifications, cfg.NotificationDuration)},
	}))
	if p := v.state.App.Store.State().CurrentProject; p != nil {
		b.WriteString("\n" + formatter.Header("Project") + "\n")
		b.WriteString(formatter.FormatConfigLayers(p.Config))
	}
	return b.String()
}

func (v *configView) View() string {
	return v.vp.View()
}

// calculationsView summarizes totals for the open project.
type calculationsView struct {
	state *tuiState
}

func newCalculationsView(state *tuiState) *calculationsView { return &calculationsView{state: state} }

func (v *calculationsView) ID() ViewID                          { return ViewCalculations }
func (v *calculationsView) Title() string                       { return "Calculations" }
func (v *calculationsView) ShortHelp() []key.Binding            { return nil }
func (v *calculationsView) Init() tea.Cmd                       { return nil }
func (v *calculationsView) Update(tea.Msg) (tea.Model, tea.Cmd) { return v, nil }

func (v *calculationsView) View() string {
	st := v.state.App.Store.State()
	if st.CurrentProject == nil {
		return ""
	}
	return formatter.FormatProjectCard(st.CurrentProject, st.DirtyState())
}

// recentLoadedMsg carries the recently opened projects.
type recentLoadedMsg struct {
	list []domain.RecentProject
	err  error
}

// historyView lists recently opened projects and reopens them.
type historyView struct {
	state  *tuiState
	list   []domain.RecentProject
	cursor int
	err    error
}

func newHistoryView(state *tuiState) *historyView { return &historyView{state: state} }

func (v *historyView) ID() ViewID    { return ViewHistory }
func (v *historyView) Title() string { return "History" }

func (v *historyView) ShortHelp() []key.Binding {
	return []key.Binding{keys.Select}
}

func (v *historyView) Init() tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		list, err := app.Projects.Recent(context.Background())
		return recentLoadedMsg{list: list, err: err}
	}
}

func (v *historyView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recentLoadedMsg:
		v.list, v.err = msg.list, msg.err
		v.cursor = clampCursor(v.cursor, len(v.list))
	case refreshViewMsg:
		return v, v.Init()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, keys.Down):
			if v.cursor < len(v.list)-1 {
				v.cursor++
			}
		case key.Matches(msg, keys.Select):
			if v.cursor < len(v.list) {
				return v, openProjectCmd(v.state, v.list[v.cursor].FilePath)
			}
		}
	}
	return v, nil
}

func (v *historyView) View() string {
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}
	if len(v.list) == 0 {
		return "\n  " + formatter.Dim("No recent projects.")
	}
	lines := strings.Split(formatter.FormatRecent(v.list, v.state.App.now()), "\n")
	// Rows start after the header and its rule.
	if i := v.cursor + 2; i < len(lines) {
		lines[i] = formatter.StyleHeader.Render("▸") + lines[i]
	}
	return strings.Join(lines, "\n")
}
