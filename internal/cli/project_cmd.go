package cli

import (
	"fmt"

	"github.com/alexanderramin/estimator/internal/cli/formatter"
	"github.com/alexanderramin/estimator/internal/service"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage estimation projects",
	}

	cmd.AddCommand(
		newProjectNewCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectDeleteCmd(app),
		newProjectRecentCmd(app),
	)

	return cmd
}

func newProjectNewCmd(app *App) *cobra.Command {
	var name, code, description string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a project and save it to the projects directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.New(ctx, service.NewProjectInput{
				Name:        name,
				Code:        code,
				Description: description,
			})
			if err != nil {
				return err
			}
			res, err := app.Projects.Save(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s] in %s\n",
				p.Meta.Name, p.Meta.Code, res.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&code, "code", "", "Project code (e.g. CRM, ERP-2024)")
	cmd.Flags().StringVar(&description, "description", "", "Optional description")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List project files",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectFiles(files, app.now()))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project>",
		Short: "Show a project with its phases and features",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path, err := resolveProjectFile(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.Open(ctx, path, true)
			if err != nil {
				return err
			}
			st := app.Store.State()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatProjectCard(p, st.DirtyState()))
			fmt.Fprintln(out, formatter.Header("Phases"))
			fmt.Fprintln(out, formatter.FormatPhases(p))
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.Header("Features"))
			fmt.Fprintln(out, formatter.FormatFeatures(p.Features, -1))
			return nil
		},
	}
}

func newProjectDeleteCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete <project>",
		Aliases: []string{"rm"},
		Short:   "Delete a project file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("deleting a project cannot be undone (use --force to confirm)")
			}
			ctx := cmd.Context()
			path, err := resolveProjectFile(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Confirm deletion")
	return cmd
}

func newProjectRecentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently opened projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Projects.Recent(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecent(list, app.now()))
			return nil
		},
	}
}
