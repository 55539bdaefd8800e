package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/estimator/internal/cli/formatter"
	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// tuiState is shared by pointer across all views.
type tuiState struct {
	App    *App
	Width  int
	Height int
}

// ContentHeight returns the lines left for a view after the header (tabs and
// separator), the toast area and the status bar.
func (s *tuiState) ContentHeight() int {
	h := s.Height - 2 - 2 - maxToasts
	if h < 5 {
		return 5
	}
	return h
}

// maxToasts caps how many notifications are drawn at once.
const maxToasts = 3

// appModel is the root bubbletea Model for the TUI. The bottom of the view
// stack is always the view for the store's current section.
type appModel struct {
	state     *tuiState
	viewStack []View
	toasts    []domain.Notification
	lastErr   error
	quitArmed bool
	quitting  bool
}

func newAppModel(app *App) appModel {
	state := &tuiState{App: app}
	m := appModel{state: state}
	st := app.Store.State()
	m.viewStack = []View{newSectionView(state, st.CurrentSection)}
	m.toasts = append(m.toasts, st.Notifications...)
	return m
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil

	case wizardCompleteMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, tea.Batch(msg.nextCmd, refresh)

	case storeChangedMsg:
		cmd := m.syncSection()
		if !m.state.App.Store.State().IsDirty {
			m.quitArmed = false
		}
		return m, tea.Batch(cmd, m.broadcast(msg))

	case refreshViewMsg:
		cmd := m.syncSection()
		return m, tea.Batch(cmd, m.broadcast(msg))

	case toastShownMsg:
		if m.queued(msg.n.ID) && !m.showing(msg.n.ID) {
			m.toasts = append(m.toasts, msg.n)
		}
		return m, nil

	case toastHiddenMsg:
		m.toasts = removeToast(m.toasts, msg.id)
		return m, nil

	case errMsg:
		m.lastErr = msg.err
		return m, nil
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

// broadcast forwards msg to every view on the stack.
func (m *appModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, v := range m.viewStack {
		updated, cmd := v.Update(msg)
		m.viewStack[i] = updated.(View)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// syncSection swaps the base view when the store's section has moved.
func (m *appModel) syncSection() tea.Cmd {
	section := m.state.App.Store.State().CurrentSection
	if len(m.viewStack) > 0 && m.viewStack[0].ID() == sectionViewID(section) {
		return nil
	}
	v := newSectionView(m.state, section)
	m.viewStack = []View{v}
	return v.Init()
}

func (m *appModel) queued(id string) bool {
	for _, n := range m.state.App.Store.State().Notifications {
		if n.ID == id {
			return true
		}
	}
	return false
}

func (m *appModel) showing(id string) bool {
	for _, n := range m.toasts {
		if n.ID == id {
			return true
		}
	}
	return false
}

func removeToast(list []domain.Notification, id string) []domain.Notification {
	out := list[:0:0]
	for _, n := range list {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	// Forms receive every key, including q and the digits.
	if v := m.activeView(); v != nil && v.ID() == ViewForm {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	m.lastErr = nil
	app := m.state.App

	switch {
	case key.Matches(msg, keys.Quit):
		if app.Store.State().IsDirty && !m.quitArmed {
			m.quitArmed = true
			app.Notices.Warning("Unsaved changes", "Press q again to quit without saving")
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Back):
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil

	case key.Matches(msg, keys.NextSection):
		return m, m.cycleSection(1)

	case key.Matches(msg, keys.PrevSection):
		return m, m.cycleSection(-1)

	case key.Matches(msg, sectionKeys):
		i := int(msg.Runes[0] - '1')
		return m, m.navigate(domain.AllSections[i])

	case key.Matches(msg, keys.Save):
		if !app.Store.State().HasProject() {
			return m, nil
		}
		return m, run(func(ctx context.Context) error {
			_, err := app.Projects.Save(ctx)
			return err
		})

	case key.Matches(msg, keys.CloseProj):
		if !app.Store.State().HasProject() {
			return m, nil
		}
		return m, m.closeProject()
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

// cycleSection moves to the next reachable section in direction dir.
func (m *appModel) cycleSection(dir int) tea.Cmd {
	st := m.state.App.Store.State()
	n := len(domain.AllSections)
	cur := 0
	for i, s := range domain.AllSections {
		if s == st.CurrentSection {
			cur = i
		}
	}
	for step := 1; step < n; step++ {
		next := domain.AllSections[((cur+dir*step)%n+n)%n]
		if next.RequiresProject() && !st.HasProject() {
			continue
		}
		return m.navigate(next)
	}
	return nil
}

func (m *appModel) navigate(section domain.Section) tea.Cmd {
	app := m.state.App
	if err := app.Navigation.Navigate(context.Background(), section); err != nil {
		app.Notices.Warning("Section unavailable", err.Error())
		return nil
	}
	return func() tea.Msg { return storeChangedMsg{} }
}

func (m *appModel) closeProject() tea.Cmd {
	app := m.state.App
	if !app.Store.State().IsDirty {
		return run(func(ctx context.Context) error { return app.Projects.Close(ctx, false) })
	}
	var discard bool
	form := confirmForm("Close without saving?", "The open project has unsaved changes.", &discard)
	return startWizardCmd(m.state, "Close project", form, func() tea.Cmd {
		if !discard {
			return nil
		}
		return run(func(ctx context.Context) error { return app.Projects.Close(ctx, true) })
	})
}

// run executes a service call off the event loop and refreshes the views
// when it succeeds. Services report their own failures as notifications.
func run(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return errMsg{err: err}
		}
		return refreshViewMsg{}
	}
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	if t := m.renderToasts(); t != "" {
		sections = append(sections, t)
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height so the line-diff renderer clears stale rows.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}
	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	st := m.state.App.Store.State()
	title := formatter.StylePurple.Render("estimator")

	var tabs []string
	for i, s := range domain.AllSections {
		label := string(rune('1'+i)) + " " + sectionTitle(s)
		switch {
		case s == st.CurrentSection:
			tabs = append(tabs, formatter.StyleHeader.Render(label))
		case s.RequiresProject() && !st.HasProject():
			tabs = append(tabs, formatter.Dim(strings.Repeat("·", len(label))))
		default:
			tabs = append(tabs, formatter.StyleFg.Render(label))
		}
	}
	header := title + "  " + strings.Join(tabs, formatter.Dim(" │ "))

	if p := st.CurrentProject; p != nil {
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(p.DisplayID()) + formatter.Dim("]") +
			" " + formatter.DirtyBadge(st.DirtyState())
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	shown := m.toasts
	if len(shown) > maxToasts {
		shown = shown[len(shown)-maxToasts:]
	}
	return formatter.FormatNotifications(shown)
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if m.quitArmed {
		hints = append(hints, formatter.StyleYellow.Render("Unsaved changes. Press q again to quit."))
	}
	if m.lastErr != nil && !errors.Is(m.lastErr, context.Canceled) {
		hints = append(hints, formatter.StyleRed.Render(m.lastErr.Error()))
	}
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	if len(m.viewStack) > 1 {
		hints = append(hints, formatter.Dim("esc: back"))
	} else {
		hints = append(hints, formatter.Dim("tab: section"))
		if m.state.App.Store.State().HasProject() {
			hints = append(hints, formatter.Dim("s: save"), formatter.Dim("x: close"))
		}
		hints = append(hints, formatter.Dim("q: quit"))
	}

	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}
