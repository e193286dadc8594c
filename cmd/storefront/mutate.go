package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/storefront/internal/builder"
	"github.com/alexisbeaulieu97/storefront/internal/workspace"
	"github.com/alexisbeaulieu97/storefront/pkg/diff"
)

type mutationOptions struct {
	page   string
	dryRun bool
}

func addMutationFlags(cmd *cobra.Command, opts *mutationOptions) {
	cmd.Flags().StringVarP(&opts.page, "page", "p", "", "Page to work on (defaults to the active page)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the workspace diff instead of saving")
}

// changeFunc applies commands to store and returns the summary printed after
// a successful save.
type changeFunc func(ctx context.Context, app *AppContext, store *builder.Store) (string, error)

// mutate loads the workspace, runs change against it and saves the result.
// With --dry-run the unified diff of the workspace document is printed and
// nothing is written.
func mutate(cmd *cobra.Command, rootFlags *rootFlags, opts *mutationOptions, operation string, change changeFunc) error {
	app, err := loadApp(cmd, rootFlags)
	if err != nil {
		return err
	}
	ctx, logger := app.CommandContext(cmd, "command."+strings.ReplaceAll(operation, " ", "_"))

	store, err := app.OpenStore(ctx, opts.page)
	if err != nil {
		logger.Error(ctx, "workspace load failed", "path", app.Workspace.Path(), "error", err)
		return newCommandError(operation, "loading workspace", err, workspaceSuggestion(err))
	}
	before, err := workspace.FromState(store.State())
	if err != nil {
		return newCommandError(operation, "reading workspace", err, workspaceSuggestion(err))
	}

	summary, err := change(ctx, app, store)
	if err != nil {
		logger.Warn(ctx, "change rejected", "error", err)
		return err
	}

	after, err := workspace.FromState(store.State())
	if err != nil {
		return newCommandError(operation, "reading workspace", err, workspaceSuggestion(err))
	}

	if opts.dryRun {
		out, err := diff.YAML(before, after, app.Workspace.Path(), app.Workspace.Path()+" (dry run)")
		if err != nil {
			return newCommandError(operation, "rendering diff", err, "Retry without --dry-run.")
		}
		if out == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}

	if _, err := app.Workspace.Save(after); err != nil {
		logger.Error(ctx, "workspace save failed", "path", app.Workspace.Path(), "error", err)
		return newCommandError(operation, "saving workspace", err, "Check disk space and file permissions, then retry.")
	}
	logger.Info(ctx, "workspace updated", "operation", operation)
	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}
