package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/storefront/internal/builder"
	"github.com/alexisbeaulieu97/storefront/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/storefront/internal/infrastructure/themefs"
	"github.com/alexisbeaulieu97/storefront/internal/ports"
	"github.com/alexisbeaulieu97/storefront/internal/tui/composer"
)

type editOptions struct {
	page  string
	watch bool
}

func newEditCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &editOptions{}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Launch the interactive page builder",
		Long: `Launch the interactive page builder.

The builder lists the sections of the active page next to a live preview.
Reorder with shift+up/down, edit a section with enter, add with a, delete
with d and save the workspace with s.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !isTerminal(cmd.OutOrStdout()) {
				return newCommandError("edit", "starting the builder", errors.New("stdin and stdout must be a terminal"), "Run 'storefront edit' from an interactive shell, or use the 'sections' commands in scripts.")
			}
			return runEdit(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.page, "page", "p", "", "Page to open (defaults to the active page)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Reload section definitions when files in the themes directory change")

	return cmd
}

func runEdit(cmd *cobra.Command, rootFlags *rootFlags, opts *editOptions) error {
	cfg, err := loadConfig(rootFlags)
	if err != nil {
		return err
	}
	stderrLogger, err := newLogger(cfg, rootFlags, cmd.ErrOrStderr())
	if err != nil {
		return newCommandError("configure logging", cfg.Logging.Level, err, "Use one of debug, info, warn or error for logging.level.")
	}

	// The builder owns the terminal; log entries are held until it exits.
	held := logging.NewDeferred(0)
	defer held.Replay(stderrLogger)
	app := newAppContext(cfg, held)

	ctx, logger := app.CommandContext(cmd, "command.edit")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store, err := app.openStore(ctx, opts.page)
	if err != nil {
		return newCommandError("edit", "loading workspace", err, workspaceSuggestion(err))
	}

	if opts.watch || cfg.Registry.Watch {
		watcher := themefs.NewWatcher(cfg.ThemesPath(), app.Resolver,
			themefs.WithWatchLogger(logger),
			themefs.WithOnInvalidate(reloadOnInvalidate(ctx, store, logger)),
		)
		if err := watcher.Start(ctx); err != nil {
			logger.Warn(ctx, "section definition watcher unavailable", "error", err)
		}
	}

	width, height := 100, 30
	if file, ok := cmd.OutOrStdout().(*os.File); ok {
		if w, h, err := term.GetSize(int(file.Fd())); err == nil {
			width, height = w, h
		}
	}

	model := composer.New(ctx, store,
		composer.WithSaver(app.Workspace),
		composer.WithSize(width, height),
	)
	defer model.Close()

	logger.Info(ctx, "launching builder", "workspace", app.Workspace.Path())
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout()))
	final, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error(ctx, "builder failed", "error", err)
		return newCommandError("edit", "running the builder", err, "Retry with --verbose for details.")
	}

	reportUnsaved(cmd.ErrOrStderr(), final)
	logger.Info(ctx, "builder closed")
	return nil
}

// reloadOnInvalidate resolves the active page again after section
// definitions changed. The store skips the reload while a section is being
// edited; that editor keeps its section type until it is closed.
func reloadOnInvalidate(ctx context.Context, store builder.Dispatcher, logger ports.Logger) func(prefix string, dropped int) {
	return func(prefix string, dropped int) {
		if dropped == 0 {
			return
		}
		state, err := store.Dispatch(ctx, builder.ReloadComponents{Prefix: prefix})
		if err != nil {
			logger.Warn(ctx, "reload after definition change failed", "prefix", prefix, "error", err)
			return
		}
		if state.Prefix() != prefix || state.Mode() != builder.Idle {
			logger.Debug(ctx, "reload skipped", "prefix", prefix)
			return
		}
		logger.Info(ctx, "section definitions reloaded", "prefix", prefix, "dropped", dropped)
	}
}

func reportUnsaved(w io.Writer, final tea.Model) {
	m, ok := final.(composer.Model)
	if !ok || !m.Unsaved() {
		return
	}
	fmt.Fprintln(w, "Unsaved changes were discarded. Press s in the builder to save before quitting.")
}
