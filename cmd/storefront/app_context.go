package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/storefront/internal/builder"
	"github.com/alexisbeaulieu97/storefront/internal/config"
	"github.com/alexisbeaulieu97/storefront/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/storefront/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/storefront/internal/infrastructure/themefs"
	"github.com/alexisbeaulieu97/storefront/internal/ports"
	"github.com/alexisbeaulieu97/storefront/internal/sections"
	"github.com/alexisbeaulieu97/storefront/internal/sections/builtin"
	"github.com/alexisbeaulieu97/storefront/internal/style"
	"github.com/alexisbeaulieu97/storefront/internal/workspace"
)

// AppContext bundles the services one command works with.
type AppContext struct {
	Config    *config.Config
	Logger    ports.Logger
	Events    ports.EventPublisher
	Builtin   *sections.Catalog
	Themes    *themefs.Catalog
	Resolver  *sections.Resolver
	Workspace *workspace.Workspace
}

// themeSource pairs a catalog theme with where it came from.
type themeSource struct {
	themefs.ThemeBundle
	Source string
}

func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, newCommandError("load configuration", flags.configPath, err, "Fix the configuration file or pass another one with --config.")
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, flags *rootFlags, w io.Writer) (ports.Logger, error) {
	level := cfg.Logging.Level
	if flags.verbose {
		level = "debug"
	}
	return logging.New(logging.Options{
		Writer:        w,
		Level:         level,
		HumanReadable: cfg.Logging.HumanReadable || flags.verbose,
		Layer:         "application",
		Component:     "cli",
	})
}

// loadApp reads the configuration and wires the services, logging to the
// command's stderr.
func loadApp(cmd *cobra.Command, flags *rootFlags) (*AppContext, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, flags, cmd.ErrOrStderr())
	if err != nil {
		return nil, newCommandError("configure logging", cfg.Logging.Level, err, "Use one of debug, info, warn or error for logging.level.")
	}
	return newAppContext(cfg, logger), nil
}

func newAppContext(cfg *config.Config, logger ports.Logger) *AppContext {
	publisher := events.NewLoggingPublisher(logger.With("component", "events"))
	bundled := builtin.NewCatalog()
	themesDir := cfg.ThemesPath()

	loader := sections.ChainLoader{
		bundled,
		themefs.NewLoader(themesDir, logger.With("component", "section_loader")),
	}
	resolver := sections.NewResolver(loader,
		sections.WithLogger(logger.With("component", "resolver")),
		sections.WithPublisher(publisher),
		sections.WithPolicy(sections.Policy(cfg.Registry.DependencyPolicy)),
	)

	return &AppContext{
		Config:    cfg,
		Logger:    logger,
		Events:    publisher,
		Builtin:   bundled,
		Themes:    themefs.NewCatalog(themesDir, logger.With("component", "theme_catalog")),
		Resolver:  resolver,
		Workspace: workspace.New(cfg.WorkspacePath()),
	}
}

// CommandContext returns a correlated context and logger for one command.
func (a *AppContext) CommandContext(cmd *cobra.Command, component string) (context.Context, ports.Logger) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.Correlate(ctx)
	return ctx, a.Logger.With("component", component)
}

// NewStore returns an empty builder store over the app's resolver.
func (a *AppContext) NewStore() *builder.Store {
	return builder.NewStore(a.Resolver,
		builder.WithStoreLogger(a.Logger.With("component", "store")),
		builder.WithStorePublisher(a.Events),
	)
}

// OpenStore loads the workspace into a new store, switching to pageName when
// set, and waits for every section type of the active page to resolve.
func (a *AppContext) OpenStore(ctx context.Context, pageName string) (*builder.Store, error) {
	store, err := a.openStore(ctx, pageName)
	if err != nil {
		return nil, err
	}
	store.Wait()
	return store, nil
}

func (a *AppContext) openStore(ctx context.Context, pageName string) (*builder.Store, error) {
	doc, err := a.Workspace.Load()
	if err != nil {
		return nil, err
	}
	selectTheme := doc.Command()
	if pageName != "" {
		selectTheme.Page = pageName
	}
	store := a.NewStore()
	if _, err := store.Dispatch(ctx, selectTheme); err != nil {
		return nil, err
	}
	return store, nil
}

// ListThemes returns the bundled theme followed by the themes directory.
func (a *AppContext) ListThemes(ctx context.Context) ([]themeSource, error) {
	settings := builtin.MinimalSettings()
	out := []themeSource{{
		ThemeBundle: themefs.ThemeBundle{Theme: builtin.MinimalTheme(), Settings: &settings},
		Source:      "bundled",
	}}

	bundles, err := a.Themes.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, bundle := range bundles {
		if bundle.Theme.ID == builtin.ThemeID {
			a.Logger.Warn(ctx, "catalog theme shadowed by bundled theme", "theme_id", bundle.Theme.ID, "path", bundle.Path)
			continue
		}
		out = append(out, themeSource{
			ThemeBundle: bundle,
			Source:      filepath.Join(a.Config.ThemesPath(), filepath.FromSlash(bundle.Path)),
		})
	}
	return out, nil
}

// FindTheme looks a theme up by id.
func (a *AppContext) FindTheme(ctx context.Context, id string) (themeSource, error) {
	themes, err := a.ListThemes(ctx)
	if err != nil {
		return themeSource{}, err
	}
	for _, t := range themes {
		if t.Theme.ID == id {
			return t, nil
		}
	}
	return themeSource{}, fmt.Errorf("%w: %s", themefs.ErrThemeNotFound, id)
}

// themeSettings returns the settings to start a workspace with.
func themeSettings(bundle themefs.ThemeBundle) *style.Settings {
	if bundle.Settings == nil {
		return nil
	}
	s := *bundle.Settings
	return &s
}

func workspaceSuggestion(err error) string {
	if errors.Is(err, workspace.ErrNoWorkspace) {
		return "Run 'storefront init --theme <id>' to create a workspace first."
	}
	return "Check the workspace file, or recreate it with 'storefront init --force'."
}
