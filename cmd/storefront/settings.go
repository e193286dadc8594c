package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/storefront/internal/builder"
	"github.com/alexisbeaulieu97/storefront/internal/style"
)

func newSettingsCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change theme-wide style settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every style setting with its theme and effective value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettingsList(cmd, rootFlags)
		},
	})
	cmd.AddCommand(newSettingsSetCmd(rootFlags))

	return cmd
}

func runSettingsList(cmd *cobra.Command, rootFlags *rootFlags) error {
	app, err := loadApp(cmd, rootFlags)
	if err != nil {
		return err
	}
	ctx, _ := app.CommandContext(cmd, "command.settings.list")

	store, err := app.openStore(ctx, "")
	if err != nil {
		return newCommandError("list settings", "loading workspace", err, workspaceSuggestion(err))
	}
	state := store.State()

	var theme style.Settings
	if state.Settings != nil {
		theme = *state.Settings
	}
	effective := style.Effective(state.Settings, nil)

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "SETTING\tTHEME\tEFFECTIVE")
	for _, path := range style.LeafPaths() {
		themeValue, _ := theme.Get(path)
		effectiveValue, _ := effective.Get(path)
		fmt.Fprintf(writer, "%s\t%s\t%s\n", path, valueOrFallback(themeValue, "-"), effectiveValue)
	}
	return writer.Flush()
}

func newSettingsSetCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &mutationOptions{}

	cmd := &cobra.Command{
		Use:   "set <setting=value>...",
		Short: "Change theme-wide style settings",
		Long: `Change theme-wide style settings.

Settings are addressed by their dotted path, for example colors.main=#1a2b3c
or fonts.headings=Georgia. An empty value clears the setting so it falls back
to the built-in default. Run 'storefront settings list' for every path.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, rootFlags, opts, "update settings", func(ctx context.Context, _ *AppContext, store *builder.Store) (string, error) {
				return updateSettings(ctx, store, args)
			})
		},
	}

	addMutationFlags(cmd, opts)

	return cmd
}

func updateSettings(ctx context.Context, store *builder.Store, args []string) (string, error) {
	var next style.Settings
	if current := store.State().Settings; current != nil {
		next = *current
	}

	changed := make([]string, 0, len(args))
	for _, arg := range args {
		path, value, ok := strings.Cut(arg, "=")
		if !ok {
			return "", newCommandError("update settings", "reading assignments", fmt.Errorf("%q is not a setting=value pair", arg), "Write each change as setting=value.")
		}
		updated, err := next.Set(strings.TrimSpace(path), strings.TrimSpace(value))
		if err != nil {
			return "", newCommandError("update settings", fmt.Sprintf("setting %s", path), err, "Run 'storefront settings list' for the setting paths; colours use #rrggbb.")
		}
		next = updated
		changed = append(changed, path)
	}

	if _, err := store.Dispatch(ctx, builder.UpdateThemeSettings{Partial: next}); err != nil {
		return "", newCommandError("update settings", "applying settings", err, "Check the values and retry.")
	}
	return fmt.Sprintf("✓ Updated %s", strings.Join(changed, ", ")), nil
}
