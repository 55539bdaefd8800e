package cli

import tea "github.com/charmbracelet/bubbletea"

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack.
type popViewMsg struct{}

// wizardCompleteMsg is sent when a wizard form completes or is cancelled.
// The appModel pops the wizard view, then runs nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// storeChangedMsg is sent after every store write.
type storeChangedMsg struct{}

// refreshViewMsg asks every view on the stack to reload its data.
type refreshViewMsg struct{}

// errMsg reports a failed background command.
type errMsg struct{ err error }

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func refresh() tea.Msg { return refreshViewMsg{} }
