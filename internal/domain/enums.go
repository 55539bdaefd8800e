package domain

type PhaseKey string

const (
	PhaseFunctionalSpec PhaseKey = "functionalSpec"
	PhaseTechSpec       PhaseKey = "techSpec"
	PhaseDevelopment    PhaseKey = "development"
	PhaseSIT            PhaseKey = "sit"
	PhaseUAT            PhaseKey = "uat"
	PhaseVAPT           PhaseKey = "vapt"
	PhaseConsolidation  PhaseKey = "consolidation"
	PhasePostGoLive     PhaseKey = "postGoLive"
)

// AllPhases lists every phase in delivery order.
var AllPhases = []PhaseKey{
	PhaseFunctionalSpec,
	PhaseTechSpec,
	PhaseDevelopment,
	PhaseSIT,
	PhaseUAT,
	PhaseVAPT,
	PhaseConsolidation,
	PhasePostGoLive,
}

// Valid reports whether k is one of AllPhases.
func (k PhaseKey) Valid() bool {
	for _, p := range AllPhases {
		if p == k {
			return true
		}
	}
	return false
}

type Section string

const (
	SectionProjects      Section = "projects"
	SectionFeatures      Section = "features"
	SectionPhases        Section = "phases"
	SectionConfiguration Section = "configuration"
	SectionCalculations  Section = "calculations"
	SectionHistory       Section = "history"
)

// AllSections lists the navigation sections in menu order.
var AllSections = []Section{
	SectionProjects,
	SectionFeatures,
	SectionPhases,
	SectionConfiguration,
	SectionCalculations,
	SectionHistory,
}

// RequiresProject reports whether the section can only be shown with an
// open project.
func (s Section) RequiresProject() bool {
	switch s {
	case SectionFeatures, SectionPhases, SectionCalculations, SectionHistory:
		return true
	default:
		return false
	}
}

// Valid reports whether s is one of AllSections.
func (s Section) Valid() bool {
	for _, v := range AllSections {
		if v == s {
			return true
		}
	}
	return false
}

type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyWarning NotificationType = "warning"
	NotifyInfo    NotificationType = "info"
)

type DirtyState string

const (
	StateClean DirtyState = "clean"
	StateDirty DirtyState = "dirty"
)

// DirtyStateOf maps the store's dirty flag onto the two named states.
func DirtyStateOf(isDirty bool) DirtyState {
	if isDirty {
		return StateDirty
	}
	return StateClean
}
