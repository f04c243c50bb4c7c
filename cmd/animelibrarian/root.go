package main

import (
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:   "animelibrarian",
		Short: "Organize downloaded anime into series directories",
		Long: "animelibrarian scans a source directory for video and subtitle files, asks an AI\n" +
			"workflow which series directory each one belongs in, shows the plan and moves\n" +
			"the files once confirmed.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, ctx)
		},
	}

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	persistent.StringVar(&flags.source, "source", "", "Directory containing files to organize")
	persistent.StringVar(&flags.target, "target", "", "Library root whose subdirectories are series")
	persistent.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show the plan without moving any file")
	rootCmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Move files without asking for confirmation")
	rootCmd.Flags().StringVar(&flags.format, "format", string(formatTable), "Output format: table, plain, json or ndjson")

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the animelibrarian version",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write([]byte("animelibrarian " + version + "\n"))
			return err
		},
	}
}
