package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// wizardView wraps a huh.Form as a View on the navigation stack. When the
// form completes it sends a wizardCompleteMsg carrying the done callback's
// command.
type wizardView struct {
	state    *tuiState
	form     *huh.Form
	titleStr string
	done     func() tea.Cmd
}

func newWizardView(state *tuiState, title string, form *huh.Form, done func() tea.Cmd) *wizardView {
	return &wizardView{
		state:    state,
		form:     form,
		titleStr: title,
		done:     done,
	}
}

func (v *wizardView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *wizardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Escape cancels the wizard.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return v, func() tea.Msg { return wizardCompleteMsg{} }
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	switch v.form.State {
	case huh.StateCompleted:
		var doneCmd tea.Cmd
		if v.done != nil {
			doneCmd = v.done()
		}
		// Drop the form's own follow-up; the form is finished.
		return v, func() tea.Msg { return wizardCompleteMsg{nextCmd: doneCmd} }
	case huh.StateAborted:
		return v, func() tea.Msg { return wizardCompleteMsg{} }
	}

	return v, cmd
}

func (v *wizardView) View() string {
	return v.form.View()
}

func (v *wizardView) ID() ViewID    { return ViewForm }
func (v *wizardView) Title() string { return v.titleStr }
func (v *wizardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// startWizardCmd pushes a wizardView. If form is nil it calls done directly.
func startWizardCmd(state *tuiState, title string, form *huh.Form, done func() tea.Cmd) tea.Cmd {
	if form == nil {
		if done != nil {
			return done()
		}
		return nil
	}
	return pushView(newWizardView(state, title, form, done))
}
