package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kecbigmt/mm-sub003/internal/item"
)

// NewResult represents the JSON output of the new command.
type NewResult struct {
	ID        string `json:"id"`
	Directory string `json:"directory"`
	Rank      string `json:"rank"`
	Alias     string `json:"alias,omitempty"`
}

func newNewCmd(provider *AppProvider) *cobra.Command {
	var dirFlag, rankFlag, aliasFlag string

	cmd := &cobra.Command{
		Use:   "new [body...]",
		Short: "Create a new item",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := provider.Get()
			if err != nil {
				return err
			}

			rawDir := dirFlag
			if rawDir == "" {
				rawDir = app.Config.Defaults.Directory
			}
			placement, err := item.ParsePlacement(rawDir)
			if err != nil {
				return err
			}

			rawRank := rankFlag
			if rawRank == "" {
				rawRank = app.Config.Defaults.Rank
			}
			rank, err := item.ParseRank(rawRank)
			if err != nil {
				return err
			}

			rec := &item.Record{
				Directory: placement,
				Rank:      rank,
				Alias:     aliasFlag,
			}
			id, err := app.Items.Create(ctx, rec, strings.Join(args, " "))
			if err != nil {
				return err
			}

			// Bring the derived indexes up to date with the new item.
			items, _, err := app.Items.Load(ctx)
			if err != nil {
				return err
			}
			if _, err := app.Rebuilder().Rebuild(ctx, sortedRecords(items)); err != nil {
				return err
			}

			if app.JSON {
				return writeJSON(app.Out, NewResult{
					ID:        id,
					Directory: placement.String(),
					Rank:      string(rank),
					Alias:     aliasFlag,
				})
			}
			fmt.Fprintf(app.Out, "Created %s in %s\n", id, placement.DirPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&dirFlag, "dir", "", "Placement of the item (default from config)")
	cmd.Flags().StringVar(&rankFlag, "rank", "", "Rank key ordering the item among siblings")
	cmd.Flags().StringVar(&aliasFlag, "alias", "", "Human-readable alias for the item")

	return cmd
}
