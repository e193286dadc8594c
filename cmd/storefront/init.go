package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/storefront/internal/builder"
	"github.com/alexisbeaulieu97/storefront/internal/sections/builtin"
)

type initOptions struct {
	theme string
	page  string
	force bool
}

func newInitCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a workspace from a catalog theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.theme, "theme", "t", "", "Theme id (defaults to the configured theme, then \"minimal\")")
	cmd.Flags().StringVarP(&opts.page, "page", "p", "", "Initial page (defaults to the first page)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing workspace")

	return cmd
}

func runInit(cmd *cobra.Command, rootFlags *rootFlags, opts *initOptions) error {
	app, err := loadApp(cmd, rootFlags)
	if err != nil {
		return err
	}
	ctx, logger := app.CommandContext(cmd, "command.init")

	themeID := opts.theme
	if themeID == "" {
		themeID = app.Config.Theme
	}
	if themeID == "" {
		themeID = builtin.ThemeID
	}
	pageName := opts.page
	if pageName == "" {
		pageName = app.Config.Page
	}

	if app.Workspace.Exists() && !opts.force {
		return newCommandError("init", fmt.Sprintf("creating %s", app.Workspace.Path()), errors.New("workspace already exists"), "Pass --force to replace it.")
	}

	source, err := app.FindTheme(ctx, themeID)
	if err != nil {
		logger.Error(ctx, "theme lookup failed", "theme_id", themeID, "error", err)
		return newCommandError("init", fmt.Sprintf("looking up theme %q", themeID), err, "Run 'storefront themes list' to see the available themes.")
	}

	state, err := builder.Reduce(builder.State{}, builder.SelectTheme{
		Theme:    source.Theme,
		Settings: themeSettings(source.ThemeBundle),
		Page:     pageName,
	})
	if err != nil {
		return newCommandError("init", fmt.Sprintf("selecting theme %q", themeID), err, "Check the page name against 'storefront pages list'.")
	}

	doc, err := app.Workspace.SaveState(state)
	if err != nil {
		logger.Error(ctx, "workspace save failed", "path", app.Workspace.Path(), "error", err)
		return newCommandError("init", "saving workspace", err, "Check disk space and file permissions, then retry.")
	}
	logger.Info(ctx, "workspace created", "theme_id", themeID, "page", doc.Page, "path", app.Workspace.Path())

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created workspace from theme '%s' (%s)\n", doc.Theme.ID, valueOrFallback(doc.Theme.Name, doc.Theme.ID))
	fmt.Fprintf(cmd.OutOrStdout(), "  Path: %s\n", app.Workspace.Path())
	fmt.Fprintf(cmd.OutOrStdout(), "  Page: %s\n", doc.Page)
	fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'storefront edit' to start composing.")
	return nil
}
