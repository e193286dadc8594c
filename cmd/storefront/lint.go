package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/storefront/internal/render"
)

func newLintCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check every section against its section type schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, rootFlags)
		},
	}

	return cmd
}

func runLint(cmd *cobra.Command, rootFlags *rootFlags) error {
	app, err := loadApp(cmd, rootFlags)
	if err != nil {
		return err
	}
	ctx, logger := app.CommandContext(cmd, "command.lint")

	doc, err := app.Workspace.Load()
	if err != nil {
		return newCommandError("lint", "loading workspace", err, workspaceSuggestion(err))
	}

	issues := render.NewLinter(app.Resolver).Lint(ctx, doc.Theme)
	logger.Info(ctx, "lint finished", "theme_id", doc.Theme.ID, "issues", len(issues))

	out := cmd.OutOrStdout()
	if len(issues) == 0 {
		fmt.Fprintf(out, "%s No issues found in theme '%s'\n", statusIcon(true, out), doc.Theme.ID)
		return nil
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "PAGE\tSECTION\tTYPE\tFIELD\tPROBLEM")
	for _, issue := range issues {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			valueOrFallback(issue.Page, "-"),
			valueOrFallback(issue.SectionID, "-"),
			valueOrFallback(issue.Type, "-"),
			valueOrFallback(issue.Field, "-"),
			issue.Message,
		)
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	return newCommandError("lint", fmt.Sprintf("checking theme %q", doc.Theme.ID), fmt.Errorf("%d issue(s) found", len(issues)), "Fix the fields listed above with 'storefront sections set' or 'storefront edit'.")
}
