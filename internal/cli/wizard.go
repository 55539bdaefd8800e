package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/estimator/internal/cli/formatter"
	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/alexanderramin/estimator/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// estimatorHuhTheme returns a huh theme using the formatter palette.
func estimatorHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func confirmForm(title, description string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(estimatorHuhTheme()).WithShowHelp(false)
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

// newProjectWizard collects a name and code, creates the project and saves it.
func newProjectWizard(state *tuiState) tea.Cmd {
	app := state.App
	in := &service.NewProjectInput{}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project name").Value(&in.Name).Validate(required("name")),
			huh.NewInput().Title("Code").Description("Letters, digits, - and _ (e.g. CRM-2025)").
				Value(&in.Code).
				Validate(func(s string) error {
					p := domain.Project{Meta: domain.ProjectMeta{Code: strings.ToUpper(strings.TrimSpace(s))}}
					return p.ValidateCode()
				}),
			huh.NewText().Title("Description").Value(&in.Description).Lines(3),
		),
	).WithTheme(estimatorHuhTheme()).WithShowHelp(false)

	return startWizardCmd(state, "New project", form, func() tea.Cmd {
		return func() tea.Msg {
			ctx := context.Background()
			if _, err := app.Projects.New(ctx, *in); err != nil {
				return errMsg{err: err}
			}
			if _, err := app.Projects.Save(ctx); err != nil {
				return errMsg{err: err}
			}
			_ = app.Navigation.Navigate(ctx, domain.SectionFeatures)
			return refreshViewMsg{}
		}
	})
}

// featureFields holds the text form of a feature while it is edited.
type featureFields struct {
	Description string
	Category    string
	Supplier    string
	RealManDays string
	Expertise   string
	RiskMargin  string
	Notes       string
}

func fieldsOf(f domain.Feature) featureFields {
	return featureFields{
		Description: f.Description,
		Category:    f.Category,
		Supplier:    f.Supplier,
		RealManDays: strconv.FormatFloat(f.RealManDays, 'f', -1, 64),
		Expertise:   strconv.Itoa(f.Expertise),
		RiskMargin:  strconv.FormatFloat(f.RiskMargin, 'f', -1, 64),
		Notes:       f.Notes,
	}
}

// apply parses the fields onto base.
func (ff featureFields) apply(base domain.Feature) (domain.Feature, error) {
	days, err := strconv.ParseFloat(strings.TrimSpace(ff.RealManDays), 64)
	if err != nil {
		return base, fmt.Errorf("man-days: %w", err)
	}
	expertise, err := strconv.Atoi(strings.TrimSpace(ff.Expertise))
	if err != nil {
		return base, fmt.Errorf("expertise: %w", err)
	}
	risk, err := strconv.ParseFloat(strings.TrimSpace(ff.RiskMargin), 64)
	if err != nil {
		return base, fmt.Errorf("risk margin: %w", err)
	}
	base.Description = strings.TrimSpace(ff.Description)
	base.Category = ff.Category
	base.Supplier = ff.Supplier
	base.RealManDays = days
	base.Expertise = expertise
	base.RiskMargin = risk
	base.Notes = ff.Notes
	return base, nil
}

func number(label string, integer bool) func(string) error {
	return func(s string) error {
		var err error
		if integer {
			_, err = strconv.Atoi(strings.TrimSpace(s))
		} else {
			_, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		}
		if err != nil {
			return fmt.Errorf("%s must be a number", label)
		}
		return nil
	}
}

// featureWizard adds a feature, or edits existing when it is not nil.
func featureWizard(state *tuiState, existing *domain.Feature) tea.Cmd {
	app := state.App
	base := domain.Feature{Expertise: domain.DefaultExpertise}
	title := "Add feature"
	if existing != nil {
		base = *existing
		title = "Edit " + existing.ID
	}
	ff := fieldsOf(base)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Description").Value(&ff.Description).Validate(required("description")),
			huh.NewInput().Title("Category").Value(&ff.Category),
			huh.NewInput().Title("Supplier").Value(&ff.Supplier),
		),
		huh.NewGroup(
			huh.NewInput().Title("Real man-days").Value(&ff.RealManDays).Validate(number("man-days", false)),
			huh.NewInput().Title("Expertise %").Value(&ff.Expertise).Validate(number("expertise", true)),
			huh.NewInput().Title("Risk margin %").Value(&ff.RiskMargin).Validate(number("risk margin", false)),
			huh.NewText().Title("Notes").Value(&ff.Notes).Lines(2),
		),
	).WithTheme(estimatorHuhTheme()).WithShowHelp(false)

	return startWizardCmd(state, title, form, func() tea.Cmd {
		f, err := ff.apply(base)
		if err != nil {
			return func() tea.Msg { return errMsg{err: err} }
		}
		return run(func(ctx context.Context) error {
			if existing == nil {
				_, err := app.Features.Add(ctx, f)
				return err
			}
			_, err := app.Features.Update(ctx, f)
			return err
		})
	})
}
