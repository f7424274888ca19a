package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kecbigmt/mm-sub003/internal/index"
)

// RebuildOutput represents the JSON output of the rebuild command.
type RebuildOutput struct {
	Result     *index.RebuildResult `json:"result"`
	ScanErrors []string             `json:"scan_errors,omitempty"`
}

func newRebuildCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the graph and alias indexes from the item files",
		Long: `Rebuild derives both indexes from scratch: every item contributes one
edge file grouped by its placement, and every declared alias contributes one
hash-sharded lookup file. The new trees are staged out of band and swapped
into place atomically, so a failed rebuild leaves the published index
untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := provider.Get()
			if err != nil {
				return err
			}

			items, scanErrs, err := app.Items.Load(ctx)
			if err != nil {
				return err
			}

			result, err := app.Rebuilder().Rebuild(ctx, sortedRecords(items))
			if err != nil {
				return fmt.Errorf("rebuild failed: %w", err)
			}

			if app.JSON {
				out := RebuildOutput{Result: result}
				for _, se := range scanErrs {
					out.ScanErrors = append(out.ScanErrors, fmt.Sprintf("%s: %v", se.Path, se.Err))
				}
				return writeJSON(app.Out, out)
			}

			for _, se := range scanErrs {
				fmt.Fprintf(app.Err, "%s %s: %v\n", app.WarnColor("skipped"), se.Path, se.Err)
			}
			fmt.Fprintf(app.Out, "Rebuilt index: %d items, %d edges, %d aliases\n",
				result.ItemsProcessed, result.EdgesCreated, result.AliasesCreated)
			return nil
		},
	}
}
