package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/storefront/internal/config"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront composes theme pages from typed, editable sections",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", config.FileName, "Path to storefront.yaml")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newInitCmd(flags))
	cmd.AddCommand(newThemesCmd(flags))
	cmd.AddCommand(newPagesCmd(flags))
	cmd.AddCommand(newSectionsCmd(flags))
	cmd.AddCommand(newSettingsCmd(flags))
	cmd.AddCommand(newPreviewCmd(flags))
	cmd.AddCommand(newLintCmd(flags))
	cmd.AddCommand(newEditCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
