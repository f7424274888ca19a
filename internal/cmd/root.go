package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the CLI.
func Execute() error {
	provider := &AppProvider{
		Out: os.Stdout,
		Err: os.Stderr,
	}

	rootCmd := newRootCmd(provider)
	return rootCmd.Execute()
}

// newRootCmd creates the root command with all subcommands.
func newRootCmd(provider *AppProvider) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mm",
		Short: "A file-backed organizer for notes, tasks, and events",
		Long: `mm keeps each item as a markdown file with YAML frontmatter and derives
two plain-file indexes from them: a graph index of items grouped by logical
placement, and an alias index resolving human-readable names to item IDs.
Everything lives under a .mm directory, so the workspace stays diff-friendly
and mergeable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags - these populate the provider config
	rootCmd.PersistentFlags().BoolVar(&provider.JSONOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&provider.WorkspacePath, "path", "", "Path to the .mm directory (default: search from cwd)")

	rootCmd.AddCommand(newInitCmd(provider))
	rootCmd.AddCommand(newNewCmd(provider))
	rootCmd.AddCommand(newLsCmd(provider))
	rootCmd.AddCommand(newRebuildCmd(provider))
	rootCmd.AddCommand(newDoctorCmd(provider))

	return rootCmd
}
