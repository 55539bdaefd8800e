package formatter

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/alexanderramin/estimator/internal/projectfile"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectFiles renders the project files found in the projects
// directory.
func FormatProjectFiles(files []projectfile.FileInfo, now time.Time) string {
	if len(files) == 0 {
		return RenderBox("Projects", Dim("No projects yet. Create one with: estimator project new"))
	}
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{
			StylePurple.Render(f.Project.Code),
			Bold(f.Project.Name),
			f.Project.Version,
			strconv.Itoa(f.FeatureCount),
			FileSize(f.FileSize),
			HumanTimestamp(f.LastModified, now),
			Dim(f.FileName),
		})
	}
	return RenderBox("Projects", RenderTable(
		[]string{"CODE", "NAME", "VERSION", "FEATURES", "SIZE", "MODIFIED", "FILE"}, rows))
}

// FormatRecent renders the recently opened projects.
func FormatRecent(list []domain.RecentProject, now time.Time) string {
	if len(list) == 0 {
		return Dim("No recent projects.")
	}
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, []string{
			StylePurple.Render(r.Code),
			Bold(r.Name),
			r.Version,
			HumanTimestamp(r.LastOpened, now),
			Dim(r.FilePath),
		})
	}
	return RenderTable([]string{"CODE", "NAME", "VERSION", "OPENED", "FILE"}, rows)
}

// FormatFeatures renders a project's feature table.
func FormatFeatures(features []domain.Feature, cursor int) string {
	if len(features) == 0 {
		return Dim("No features. Press a to add one.")
	}
	rows := make([][]string, 0, len(features))
	var total float64
	for i, f := range features {
		marker := "  "
		if i == cursor {
			marker = StyleHeader.Render("▸ ")
		}
		rows = append(rows, []string{
			marker + f.ID,
			f.Description,
			orDash(f.Category),
			orDash(f.Supplier),
			ManDays(f.RealManDays),
			strconv.Itoa(f.Expertise) + "%",
			strconv.FormatFloat(f.RiskMargin, 'f', -1, 64) + "%",
			Bold(ManDays(f.ManDays)),
		})
		total += f.ManDays
	}
	table := RenderTable([]string{"ID", "DESCRIPTION", "CATEGORY", "SUPPLIER", "REAL", "EXPERTISE", "RISK", "MAN-DAYS"}, rows)
	return table + fmt.Sprintf("\n%s %s", Dim("Total:"), Bold(ManDays(round2(total))))
}

// FormatPhases renders the phase estimates in delivery order.
func FormatPhases(p *domain.Project) string {
	rows := make([][]string, 0, len(domain.AllPhases))
	for _, key := range domain.AllPhases {
		est := p.Phases[key]
		rows = append(rows, []string{
			string(key),
			ManDays(est.ManDays),
			strconv.Itoa(len(est.AssignedResources)),
			Money(est.Cost),
		})
	}
	table := RenderTable([]string{"PHASE", "MAN-DAYS", "RESOURCES", "COST"}, rows)
	return table + fmt.Sprintf("\n%s %s   %s %s",
		Dim("Total:"), Bold(ManDays(round2(p.TotalManDays()))),
		Dim("Cost:"), Bold(Money(p.TotalCost())))
}

// FormatProjectCard renders the metadata of a project with its totals.
func FormatProjectCard(p *domain.Project, dirty domain.DirtyState) string {
	label := lipgloss.NewStyle().Foreground(ColorDim).Width(14)
	line := func(k, v string) string {
		return label.Render(k) + v
	}
	lines := []string{
		line("Name", Bold(p.Meta.Name)),
		line("Code", StylePurple.Render(p.Meta.Code)),
		line("Version", p.Meta.Version),
		line("ID", TruncID(p.Meta.ID)),
		line("Created", p.Meta.Created.Format("Jan 2, 2006 15:04")),
		line("Modified", p.Meta.LastModified.Format("Jan 2, 2006 15:04")),
		line("Features", strconv.Itoa(len(p.Features))),
		line("Man-days", ManDays(round2(p.TotalManDays()))),
		line("Cost", Money(p.TotalCost())),
		line("State", DirtyBadge(dirty)),
	}
	if p.Meta.Description != "" {
		lines = append(lines, "", p.Meta.Description)
	}
	return RenderBox(p.DisplayID(), strings.Join(lines, "\n"))
}

// FormatConfigLayers summarizes the three project configuration layers.
func FormatConfigLayers(c domain.ProjectConfig) string {
	rows := [][]string{
		{"project-specific", strconv.Itoa(len(c.ProjectSpecific)), keys(c.ProjectSpecific)},
		{"global overrides", strconv.Itoa(len(c.GlobalOverrides)), keys(c.GlobalOverrides)},
		{"inherited", strconv.Itoa(len(c.Inherited)), keys(c.Inherited)},
	}
	return RenderTable([]string{"LAYER", "ENTRIES", "KEYS"}, rows)
}

func keys[V any](m map[string]V) string {
	if len(m) == 0 {
		return Dim("--")
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return strings.Join(out, ", ")
}

func orDash(s string) string {
	if s == "" {
		return Dim("--")
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
