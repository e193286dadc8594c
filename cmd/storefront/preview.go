package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/storefront/internal/render"
)

type previewOptions struct {
	page  string
	width int
}

func newPreviewCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a workspace page in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.page, "page", "p", "", "Page to render (defaults to the active page)")
	cmd.Flags().IntVarP(&opts.width, "width", "w", 0, "Render width (defaults to the terminal width, then preview.width)")

	return cmd
}

func runPreview(cmd *cobra.Command, rootFlags *rootFlags, opts *previewOptions) error {
	app, err := loadApp(cmd, rootFlags)
	if err != nil {
		return err
	}
	ctx, logger := app.CommandContext(cmd, "command.preview")

	store, err := app.OpenStore(ctx, opts.page)
	if err != nil {
		return newCommandError("preview", "loading workspace", err, workspaceSuggestion(err))
	}

	width := previewWidth(cmd, app, opts.width)
	frame := render.Render(store.State(), render.Options{Width: width})
	logger.Debug(ctx, "page rendered",
		"page", frame.Page,
		"width", width,
		"rendered", frame.Count(render.Rendered),
		"failed", frame.Count(render.Failed),
	)

	if len(frame.Blocks) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Page '%s' has no sections.\n", frame.Page)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), frame.String())

	if failed := frame.Count(render.Failed); failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n%d of %d section(s) could not be rendered; run 'storefront lint' for details.\n", failed, len(frame.Blocks))
	}
	return nil
}

func previewWidth(cmd *cobra.Command, app *AppContext, requested int) int {
	if requested > 0 {
		return requested
	}
	if width, ok := terminalWidth(cmd.OutOrStdout()); ok {
		return width
	}
	return app.Config.Preview.Width
}
