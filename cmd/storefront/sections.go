package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/storefront/internal/builder"
	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/editor"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

func newSectionsCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sections",
		Short:   "List and change the sections of a page",
		Aliases: []string{"sec"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newSectionsListCmd(rootFlags))
	cmd.AddCommand(newSectionsShowCmd(rootFlags))
	cmd.AddCommand(newSectionsAddCmd(rootFlags))
	cmd.AddCommand(newSectionsRemoveCmd(rootFlags))
	cmd.AddCommand(newSectionsMoveCmd(rootFlags))
	cmd.AddCommand(newSectionsSetCmd(rootFlags))

	return cmd
}

func newSectionsListCmd(rootFlags *rootFlags) *cobra.Command {
	var pageName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the sections of a page in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSectionsList(cmd, rootFlags, pageName)
		},
	}

	cmd.Flags().StringVarP(&pageName, "page", "p", "", "Page to list (defaults to the active page)")

	return cmd
}

func runSectionsList(cmd *cobra.Command, rootFlags *rootFlags, pageName string) error {
	app, err := loadApp(cmd, rootFlags)
	if err != nil {
		return err
	}
	ctx, _ := app.CommandContext(cmd, "command.sections.list")

	store, err := app.OpenStore(ctx, pageName)
	if err != nil {
		return newCommandError("list sections", "loading workspace", err, workspaceSuggestion(err))
	}
	state := store.State()
	p, _ := state.SelectedPage()
	if len(p.Body) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Page '%s' has no sections.\n", p.Name)
		fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'storefront sections add <type>' to add one.")
		return nil
	}

	out := cmd.OutOrStdout()
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "#\tID\tTYPE\tNAME\tSTATUS")
	for i, section := range p.Body {
		status := statusIcon(true, out) + " ready"
		if _, err, _ := state.Resolution(section.Type); err != nil {
			status = statusIcon(false, out) + " unavailable"
		}
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%s\n", i+1, section.ID, section.Type, section.Name, status)
	}
	return writer.Flush()
}

func newSectionsShowCmd(rootFlags *rootFlags) *cobra.Command {
	var pageName string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the editable fields of a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSectionsShow(cmd, rootFlags, pageName, args[0])
		},
	}

	cmd.Flags().StringVarP(&pageName, "page", "p", "", "Page holding the section (defaults to the active page)")

	return cmd
}

func runSectionsShow(cmd *cobra.Command, rootFlags *rootFlags, pageName, id string) error {
	app, err := loadApp(cmd, rootFlags)
	if err != nil {
		return err
	}
	ctx, _ := app.CommandContext(cmd, "command.sections.show")

	store, err := app.OpenStore(ctx, pageName)
	if err != nil {
		return newCommandError("show section", "loading workspace", err, workspaceSuggestion(err))
	}
	ed, err := openEditor(ctx, store, id)
	if err != nil {
		return newCommandError("show section", fmt.Sprintf("opening %q", id), err, "Run 'storefront sections list' to see the section ids.")
	}
	defer ed.Cancel(ctx) //nolint:errcheck

	section := ed.Section()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Section: %s\n", section.ID)
	fmt.Fprintf(out, "Type:    %s v%s\n", section.Type, ed.SectionType().Version)
	fmt.Fprintf(out, "Name:    %s\n\n", section.Name)

	for _, group := range ed.Groups() {
		if group.Name != "" {
			fmt.Fprintf(out, "%s:\n", group.Name)
		}
		for _, c := range group.Controls {
			fmt.Fprintf(out, "  %s (%s): %s\n", c.Path, c.Kind, formatControlValue(c.Value))
		}
	}
	return nil
}

func formatControlValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "(unset)"
	case string:
		return strconv.Quote(value)
	case []any, map[string]any:
		data, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return "\n" + indent(strings.TrimRight(string(data), "\n"), "    ")
	default:
		return fmt.Sprint(value)
	}
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

type sectionsAddOptions struct {
	mutationOptions
	name     string
	position int
}

func newSectionsAddCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &sectionsAddOptions{}

	cmd := &cobra.Command{
		Use:   "add <type>",
		Short: "Add a section of the given type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectionType := args[0]
			return mutate(cmd, rootFlags, &opts.mutationOptions, "add section", func(ctx context.Context, _ *AppContext, store *builder.Store) (string, error) {
				section := page.Section{Type: sectionType, Name: opts.name}
				index := opts.position - 1
				if opts.position <= 0 {
					index = -1
				}
				before, _ := store.State().SelectedPage()
				state, err := store.Dispatch(ctx, builder.AddSection{Section: section, Index: index})
				if err != nil {
					return "", newCommandError("add section", fmt.Sprintf("adding %s", sectionType), err, "Check the type against the page's allowed section types with 'storefront pages list'.")
				}
				p, _ := state.SelectedPage()
				return fmt.Sprintf("✓ Added %s section '%s' to page '%s'", sectionType, newSectionID(before, p), p.Name), nil
			})
		},
	}

	addMutationFlags(cmd, &opts.mutationOptions)
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Display name (defaults to the type)")
	cmd.Flags().IntVar(&opts.position, "position", 0, "1-based position (appends when omitted or out of range)")

	return cmd
}

// newSectionID returns the id present in after but not in before.
func newSectionID(before, after page.Page) string {
	for _, section := range after.Body {
		if !before.Has(section.ID) {
			return section.ID
		}
	}
	return ""
}

func newSectionsRemoveCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &mutationOptions{}

	cmd := &cobra.Command{
		Use:     "remove <id>",
		Short:   "Remove a section",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return mutate(cmd, rootFlags, opts, "remove section", func(ctx context.Context, _ *AppContext, store *builder.Store) (string, error) {
				p, _ := store.State().SelectedPage()
				section, ok := p.Section(id)
				if !ok {
					return "", newCommandError("remove section", fmt.Sprintf("looking up %q", id), fmt.Errorf("no section %q on page %q", id, p.Name), "Run 'storefront sections list' to see the section ids.")
				}
				if _, err := store.Dispatch(ctx, builder.DeleteSection{ID: id}); err != nil {
					return "", newCommandError("remove section", fmt.Sprintf("removing %q", id), err, "Run 'storefront sections list' to see the section ids.")
				}
				return fmt.Sprintf("✓ Removed %s section '%s'", section.Type, section.Name), nil
			})
		},
	}

	addMutationFlags(cmd, opts)

	return cmd
}

func newSectionsMoveCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &mutationOptions{}

	cmd := &cobra.Command{
		Use:   "move <id> <position>",
		Short: "Move a section to a 1-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			position, err := strconv.Atoi(args[1])
			if err != nil || position < 1 {
				return newCommandError("move section", "reading position", fmt.Errorf("invalid position %q", args[1]), "Positions start at 1, as shown by 'storefront sections list'.")
			}
			return mutate(cmd, rootFlags, opts, "move section", func(ctx context.Context, _ *AppContext, store *builder.Store) (string, error) {
				moved, err := builder.NewReorderController(store).MoveTo(ctx, id, position-1)
				if err != nil {
					return "", newCommandError("move section", fmt.Sprintf("moving %q", id), err, "Run 'storefront sections list' to see the section ids.")
				}
				if !moved {
					return fmt.Sprintf("Section '%s' is already at position %d", id, position), nil
				}
				p, _ := store.State().SelectedPage()
				return fmt.Sprintf("✓ Moved '%s' to position %d of %d", id, p.IndexOf(id)+1, len(p.Body)), nil
			})
		},
	}

	addMutationFlags(cmd, opts)

	return cmd
}

func newSectionsSetCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &mutationOptions{}

	cmd := &cobra.Command{
		Use:   "set <id> <field=value>...",
		Short: "Change section fields through the section editor",
		Long: `Change section fields through the section editor.

Fields are addressed by path: nested array items use an index, for example
columns[0].title=Shop or columns[1].links[0].href=/faq. Values are parsed the
way the field's kind expects them (numbers, true/false, #rrggbb colours).`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			assignments, err := parseAssignments(args[1:])
			if err != nil {
				return newCommandError("set fields", "reading assignments", err, "Write each change as field=value.")
			}
			return mutate(cmd, rootFlags, opts, "set fields", func(ctx context.Context, _ *AppContext, store *builder.Store) (string, error) {
				return setFields(ctx, store, id, assignments)
			})
		},
	}

	addMutationFlags(cmd, opts)

	return cmd
}

type assignment struct {
	path  editor.Path
	value string
}

func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%q is not a field=value pair", arg)
		}
		path, err := editor.ParsePath(key)
		if err != nil {
			return nil, err
		}
		out = append(out, assignment{path: path, value: value})
	}
	return out, nil
}

func setFields(ctx context.Context, store *builder.Store, id string, assignments []assignment) (string, error) {
	ed, err := openEditor(ctx, store, id)
	if err != nil {
		return "", newCommandError("set fields", fmt.Sprintf("opening %q", id), err, "Run 'storefront sections list' to see the section ids.")
	}

	var failed bool
	for _, a := range assignments {
		if err := ed.SetInput(a.path, a.value); err != nil {
			failed = true
		}
	}
	if failed {
		_, _ = ed.Cancel(ctx)
		return "", newCommandError("set fields", fmt.Sprintf("editing %q", id), messagesError(ed.Messages()), "Fix the values listed above; nothing was changed.")
	}

	if !ed.Dirty() {
		_, _ = ed.Cancel(ctx)
		return fmt.Sprintf("Section '%s' already has these values", id), nil
	}
	if _, err := ed.Save(ctx); err != nil {
		return "", newCommandError("set fields", fmt.Sprintf("saving %q", id), err, "Fix the values listed above; nothing was changed.")
	}
	return fmt.Sprintf("✓ Updated %d field(s) of '%s'", len(assignments), id), nil
}

func openEditor(ctx context.Context, store *builder.Store, id string) (*editor.Editor, error) {
	if _, err := store.Dispatch(ctx, builder.SetSelectedSection{ID: id}); err != nil {
		return nil, err
	}
	ed, err := editor.Open(store)
	if err != nil {
		_, _ = store.Dispatch(ctx, builder.SetSelectedSection{})
		return nil, err
	}
	return ed, nil
}

func messagesError(messages map[string]string) error {
	paths := make([]string, 0, len(messages))
	for path := range messages {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	errs := make([]error, 0, len(paths))
	for _, path := range paths {
		errs = append(errs, sferrors.NewValidationError(path, messages[path], nil))
	}
	return errors.Join(errs...)
}
