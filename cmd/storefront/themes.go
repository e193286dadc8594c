package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/storefront/internal/infrastructure/themefs"
)

func newThemesCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "Manage catalog themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newThemesListCmd(rootFlags))
	cmd.AddCommand(newThemesImportCmd(rootFlags))

	return cmd
}

type themesListOptions struct {
	jsonOutput bool
}

func newThemesListCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &themesListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the bundled theme and the themes directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemesList(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

type themeJSON struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Prefix string   `json:"componentPathPrefix"`
	Pages  []string `json:"pages"`
	Source string   `json:"source"`
}

func runThemesList(cmd *cobra.Command, rootFlags *rootFlags, opts *themesListOptions) error {
	app, err := loadApp(cmd, rootFlags)
	if err != nil {
		return err
	}
	ctx, logger := app.CommandContext(cmd, "command.themes.list")

	themes, err := app.ListThemes(ctx)
	if err != nil {
		logger.Error(ctx, "theme listing failed", "error", err)
		return newCommandError("list themes", fmt.Sprintf("reading %s", app.Config.ThemesPath()), err, "Fix the theme manifest named above.")
	}

	if opts.jsonOutput {
		payload := make([]themeJSON, len(themes))
		for i, t := range themes {
			payload[i] = themeJSON{
				ID:     t.Theme.ID,
				Name:   t.Theme.Name,
				Prefix: t.Theme.ComponentPathPrefix,
				Pages:  pageNames(t.ThemeBundle),
				Source: t.Source,
			}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tNAME\tPAGES\tSOURCE")
	for _, t := range themes {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
			t.Theme.ID,
			valueOrFallback(t.Theme.Name, "(no name)"),
			strings.Join(pageNames(t.ThemeBundle), ", "),
			t.Source,
		)
	}
	return writer.Flush()
}

func pageNames(bundle themefs.ThemeBundle) []string {
	names := make([]string, len(bundle.Theme.Pages))
	for i, p := range bundle.Theme.Pages {
		names[i] = p.Name
	}
	return names
}

func newThemesImportCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &themefs.ImportOptions{}

	cmd := &cobra.Command{
		Use:   "import <git-url>",
		Short: "Clone a theme repository into the themes directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.URL = args[0]
			return runThemesImport(cmd, rootFlags, *opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Directory name (defaults to the repository name)")
	cmd.Flags().StringVarP(&opts.Branch, "branch", "b", "", "Branch to clone")
	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "History depth (0 for full history)")

	return cmd
}

func runThemesImport(cmd *cobra.Command, rootFlags *rootFlags, opts themefs.ImportOptions) error {
	app, err := loadApp(cmd, rootFlags)
	if err != nil {
		return err
	}
	ctx, logger := app.CommandContext(cmd, "command.themes.import")
	logger.Info(ctx, "importing theme", "url", opts.URL, "branch", opts.Branch)

	importer := themefs.NewImporter(app.Config.ThemesPath(), logger)
	bundle, err := importer.Import(ctx, opts)
	if err != nil {
		logger.Error(ctx, "theme import failed", "url", opts.URL, "error", err)
		return newCommandError("import theme", fmt.Sprintf("cloning %s", opts.URL), err, "Check the repository URL and that it contains a theme.yaml at its root.")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported theme '%s' (%s)\n", bundle.Theme.ID, valueOrFallback(bundle.Theme.Name, "(no name)"))
	fmt.Fprintf(cmd.OutOrStdout(), "  Path:  %s\n", bundle.Path)
	fmt.Fprintf(cmd.OutOrStdout(), "  Pages: %s\n", strings.Join(pageNames(bundle), ", "))
	fmt.Fprintf(cmd.OutOrStdout(), "\nRun 'storefront init --theme %s' to start a workspace from it.\n", bundle.Theme.ID)
	return nil
}
