package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/estimator/internal/cli/formatter"
	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/spf13/cobra"
)

func newFeatureCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feature",
		Short: "Edit the features of a project",
	}

	cmd.AddCommand(
		newFeatureAddCmd(app),
		newFeatureListCmd(app),
		newFeatureRemoveCmd(app),
		newFeatureDuplicateCmd(app),
	)

	return cmd
}

// withProject opens the project named by input, runs fn and saves the
// result when fn changed it.
func withProject(ctx context.Context, app *App, input string, fn func() error) error {
	path, err := resolveProjectFile(ctx, app, input)
	if err != nil {
		return err
	}
	if _, err := app.Projects.Open(ctx, path, true); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	if !app.Store.State().IsDirty {
		return nil
	}
	_, err = app.Projects.Save(ctx)
	return err
}

func newFeatureAddCmd(app *App) *cobra.Command {
	var f domain.Feature

	cmd := &cobra.Command{
		Use:   "add <project>",
		Short: "Add a feature and save the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var added domain.Feature
			err := withProject(ctx, app, args[0], func() error {
				var err error
				added, err = app.Features.Add(ctx, f)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s)\n",
				added.ID, added.Description, formatter.ManDays(added.ManDays))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.ID, "id", "", "Feature id (default: next F### id)")
	cmd.Flags().StringVar(&f.Description, "description", "", "Feature description")
	cmd.Flags().StringVar(&f.Category, "category", "", "Category id")
	cmd.Flags().StringVar(&f.Supplier, "supplier", "", "Supplier id")
	cmd.Flags().Float64Var(&f.RealManDays, "days", 0, "Real man-days")
	cmd.Flags().IntVar(&f.Expertise, "expertise", domain.DefaultExpertise, "Supplier expertise percentage")
	cmd.Flags().Float64Var(&f.RiskMargin, "risk", 0, "Risk margin percentage")
	cmd.Flags().StringVar(&f.Notes, "notes", "", "Notes")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newFeatureListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list <project>",
		Aliases: []string{"ls"},
		Short:   "List the features of a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var features []domain.Feature
			err := withProject(ctx, app, args[0], func() error {
				var err error
				features, err = app.Features.List(ctx)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFeatures(features, -1))
			return nil
		},
	}
}

func newFeatureRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <project> <feature-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a feature and save the project",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			err := withProject(ctx, app, args[0], func() error {
				return app.Features.Remove(ctx, args[1])
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[1])
			return nil
		},
	}
}

func newFeatureDuplicateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <project> <feature-id>",
		Short: "Copy a feature under a new id and save the project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var dup domain.Feature
			err := withProject(ctx, app, args[0], func() error {
				var err error
				dup, err = app.Features.Duplicate(ctx, args[1])
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Duplicated %s as %s\n", args[1], dup.ID)
			return nil
		},
	}
}
