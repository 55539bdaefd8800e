package cli

import "github.com/alexanderramin/estimator/internal/domain"

func newSectionView(state *tuiState, s domain.Section) View {
	switch s {
	case domain.SectionFeatures:
		return newFeaturesView(state)
	case domain.SectionPhases:
		return newPhasesView(state)
	case domain.SectionConfiguration:
		return newConfigView(state)
	case domain.SectionCalculations:
		return newCalculationsView(state)
	case domain.SectionHistory:
		return newHistoryView(state)
	default:
		return newProjectsView(state)
	}
}

func sectionViewID(s domain.Section) ViewID {
	switch s {
	case domain.SectionFeatures:
		return ViewFeatures
	case domain.SectionPhases:
		return ViewPhases
	case domain.SectionConfiguration:
		return ViewConfiguration
	case domain.SectionCalculations:
		return ViewCalculations
	case domain.SectionHistory:
		return ViewHistory
	default:
		return ViewProjects
	}
}

func sectionTitle(s domain.Section) string {
	switch s {
	case domain.SectionProjects:
		return "Projects"
	case domain.SectionFeatures:
		return "Features"
	case domain.SectionPhases:
		return "Phases"
	case domain.SectionConfiguration:
		return "Configuration"
	case domain.SectionCalculations:
		return "Calculations"
	case domain.SectionHistory:
		return "History"
	default:
		return string(s)
	}
}

// clampCursor keeps a list cursor inside [0, n).
func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
