package cli

import (
	"time"

	"github.com/alexanderramin/estimator/internal/config"
	"github.com/alexanderramin/estimator/internal/host"
	"github.com/alexanderramin/estimator/internal/notify"
	"github.com/alexanderramin/estimator/internal/service"
	"github.com/alexanderramin/estimator/internal/store"
	"github.com/spf13/cobra"
)

// App holds everything CLI commands and the TUI operate on.
type App struct {
	Config     config.Config
	Flags      *GlobalFlags
	Store      *store.Store
	Projects   service.ProjectService
	Features   service.FeatureService
	Navigation service.NavigationService
	Notices    *notify.Center
	Toasts     *ToastBridge
	Host       host.Host

	// Interactive is true when stdout is a terminal; the bare command then
	// starts the TUI.
	Interactive bool
	Now         func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "estimator" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "estimator",
		Short:         "Software estimation projects: features, phases and costs",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Interactive {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	if app.Flags == nil {
		app.Flags = &GlobalFlags{}
	}
	root.PersistentFlags().AddFlagSet(app.Flags.FlagSet())

	root.AddCommand(
		newProjectCmd(app),
		newFeatureCmd(app),
		newFolderCmd(app),
		newTUICmd(app),
	)

	return root
}
