package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/storefront/internal/builder"
)

func newPagesCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Inspect and switch workspace pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the pages of the workspace theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPagesList(cmd, rootFlags)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "select <name>",
		Short: "Make a page the active page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPagesSelect(cmd, rootFlags, args[0])
		},
	})

	return cmd
}

func runPagesList(cmd *cobra.Command, rootFlags *rootFlags) error {
	app, err := loadApp(cmd, rootFlags)
	if err != nil {
		return err
	}
	ctx, _ := app.CommandContext(cmd, "command.pages.list")

	store, err := app.openStore(ctx, "")
	if err != nil {
		return newCommandError("list pages", "loading workspace", err, workspaceSuggestion(err))
	}
	state := store.State()

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "\tPAGE\tSECTIONS\tALLOWED TYPES")
	for i, p := range state.Pages {
		marker := ""
		if i == state.PageIndex {
			marker = "*"
		}
		allowed := "(any)"
		if len(p.AllowedSectionTypes) > 0 {
			allowed = strings.Join(p.AllowedSectionTypes, ", ")
		}
		fmt.Fprintf(writer, "%s\t%s\t%d\t%s\n", marker, p.Name, len(p.Body), allowed)
	}
	return writer.Flush()
}

func runPagesSelect(cmd *cobra.Command, rootFlags *rootFlags, name string) error {
	app, err := loadApp(cmd, rootFlags)
	if err != nil {
		return err
	}
	ctx, logger := app.CommandContext(cmd, "command.pages.select")

	store, err := app.openStore(ctx, "")
	if err != nil {
		return newCommandError("select page", "loading workspace", err, workspaceSuggestion(err))
	}
	state, err := store.Dispatch(ctx, builder.SelectPage{Name: name})
	if err != nil {
		return newCommandError("select page", fmt.Sprintf("switching to %q", name), err, "Run 'storefront pages list' to see the page names.")
	}
	if _, err := app.Workspace.SaveState(state); err != nil {
		logger.Error(ctx, "workspace save failed", "error", err)
		return newCommandError("select page", "saving workspace", err, "Check disk space and file permissions, then retry.")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Active page is now '%s'\n", name)
	return nil
}
