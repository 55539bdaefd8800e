package cli

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextSection key.Binding
	PrevSection key.Binding
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	New         key.Binding
	Add         key.Binding
	Edit        key.Binding
	Delete      key.Binding
	Copy        key.Binding
	Folder      key.Binding
	Save        key.Binding
	CloseProj   key.Binding
	Back        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

var keys = keyMap{
	NextSection: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next section")),
	PrevSection: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev section")),
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	New:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new project")),
	Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Copy:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "duplicate")),
	Folder:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open folder")),
	Save:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	CloseProj:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close project")),
	Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c")),
}

// sectionKeys jumps straight to a section by its position in the menu.
var sectionKeys = key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"))
