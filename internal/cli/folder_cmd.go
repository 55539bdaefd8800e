package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFolderCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Work with the projects directory",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "open",
			Short: "Open the projects directory in the system file manager",
			RunE: func(cmd *cobra.Command, args []string) error {
				ok, err := app.Host.OpenFolder(cmd.Context(), app.Config.ProjectsDir)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("projects directory %s does not exist", app.Config.ProjectsDir)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "pick",
			Short: "Choose a projects directory interactively",
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := app.Host.PickFolder(cmd.Context(), app.Config.ProjectsDir)
				if err != nil {
					return err
				}
				if !res.Success {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n\nUse it with --projects-dir %q or ESTIMATOR_PROJECTS_DIR.\n", res.Path, res.Path)
				return nil
			},
		},
	)

	return cmd
}
