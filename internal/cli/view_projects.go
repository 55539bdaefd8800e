package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/estimator/internal/cli/formatter"
	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/alexanderramin/estimator/internal/projectfile"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// projectsLoadedMsg carries the project files found in the projects directory.
type projectsLoadedMsg struct {
	files []projectfile.FileInfo
	err   error
}

// projectsView lists project files and opens, creates and deletes them.
type projectsView struct {
	state   *tuiState
	files   []projectfile.FileInfo
	cursor  int
	loading bool
	err     error
}

func newProjectsView(state *tuiState) *projectsView {
	return &projectsView{state: state, loading: true}
}

func (v *projectsView) ID() ViewID    { return ViewProjects }
func (v *projectsView) Title() string { return "Projects" }

func (v *projectsView) ShortHelp() []key.Binding {
	return []key.Binding{keys.Select, keys.New, keys.Delete, keys.Folder}
}

func (v *projectsView) Init() tea.Cmd {
	return v.load()
}

func (v *projectsView) load() tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		files, err := app.Projects.List(context.Background())
		return projectsLoadedMsg{files: files, err: err}
	}
}

func (v *projectsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		v.loading = false
		v.err = msg.err
		v.files = msg.files
		v.cursor = clampCursor(v.cursor, len(v.files))
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		return v.updateKey(msg)
	}
	return v, nil
}

func (v *projectsView) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := v.state.App
	switch {
	case key.Matches(msg, keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, keys.Down):
		if v.cursor < len(v.files)-1 {
			v.cursor++
		}
	case key.Matches(msg, keys.Select):
		if f, ok := v.selected(); ok {
			return v, openProjectCmd(v.state, f.FilePath)
		}
	case key.Matches(msg, keys.New):
		return v, newProjectWizard(v.state)
	case key.Matches(msg, keys.Delete):
		if f, ok := v.selected(); ok {
			return v, v.confirmDelete(f)
		}
	case key.Matches(msg, keys.Folder):
		return v, run(func(ctx context.Context) error {
			ok, err := app.Host.OpenFolder(ctx, app.Config.ProjectsDir)
			if err == nil && !ok {
				err = fmt.Errorf("projects directory %s does not exist", app.Config.ProjectsDir)
			}
			return err
		})
	}
	return v, nil
}

func (v *projectsView) selected() (projectfile.FileInfo, bool) {
	if v.cursor < 0 || v.cursor >= len(v.files) {
		return projectfile.FileInfo{}, false
	}
	return v.files[v.cursor], true
}

func (v *projectsView) confirmDelete(f projectfile.FileInfo) tea.Cmd {
	app := v.state.App
	var ok bool
	form := confirmForm(fmt.Sprintf("Delete %s?", f.FileName), "The file is removed from disk.", &ok)
	return startWizardCmd(v.state, "Delete project", form, func() tea.Cmd {
		if !ok {
			return nil
		}
		return run(func(ctx context.Context) error { return app.Projects.Delete(ctx, f.FilePath) })
	})
}

func (v *projectsView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading projects...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}

	var b strings.Builder
	b.WriteString(formatter.Dim(v.state.App.Config.ProjectsDir) + "\n\n")
	if len(v.files) == 0 {
		b.WriteString(formatter.Dim("No projects yet. Press n to create one."))
		return b.String()
	}

	now := v.state.App.now()
	current := v.state.App.Store.State().CurrentProject
	for i, f := range v.files {
		marker := "  "
		if i == v.cursor {
			marker = formatter.StyleHeader.Render("▸ ")
		}
		name := f.Project.Name
		if current != nil && current.Meta.ID == f.Project.ID {
			name = formatter.StyleGreen.Render(name)
		}
		fmt.Fprintf(&b, "%s%-10s %s  %s  %s\n", marker,
			f.Project.Code, name,
			formatter.Dim(fmt.Sprintf("%d features", f.FeatureCount)),
			formatter.Dim(formatter.HumanTimestamp(f.LastModified, now)))
	}
	return b.String()
}

// openProjectCmd opens the project at path, asking before it discards
// unsaved changes, and shows its features.
func openProjectCmd(state *tuiState, path string) tea.Cmd {
	app := state.App
	open := func(force bool) tea.Cmd {
		return func() tea.Msg {
			ctx := context.Background()
			if _, err := app.Projects.Open(ctx, path, force); err != nil {
				return errMsg{err: err}
			}
			_ = app.Navigation.Navigate(ctx, domain.SectionFeatures)
			return refreshViewMsg{}
		}
	}

	if !app.Store.State().IsDirty {
		return open(false)
	}
	var discard bool
	form := confirmForm("Discard unsaved changes?", "The open project has unsaved changes.", &discard)
	return startWizardCmd(state, "Open project", form, func() tea.Cmd {
		if !discard {
			return nil
		}
		return open(true)
	})
}
