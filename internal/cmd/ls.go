package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kecbigmt/mm-sub003/internal/index"
	"github.com/kecbigmt/mm-sub003/internal/item"
)

// LsEntry represents one row of the ls command's JSON output.
type LsEntry struct {
	ID   string `json:"id"`
	Rank string `json:"rank"`
	From string `json:"from,omitempty"`
}

func newLsCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [placement]",
		Short: "List items under a placement, in sibling order",
		Long: `List reads the published graph index directly: items print in rank order
(ties broken by creation time) without scanning the item files. Run
'mm rebuild' first if items changed outside of mm.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := provider.Get()
			if err != nil {
				return err
			}

			raw := app.Config.Defaults.Directory
			if len(args) == 1 {
				raw = args[0]
			}
			placement, err := item.ParsePlacement(raw)
			if err != nil {
				return err
			}

			edges, err := index.ReadDirectory(ctx, app.Blobs, placement.DirPath())
			if err != nil {
				return err
			}

			if app.JSON {
				entries := make([]LsEntry, len(edges))
				for i, e := range edges {
					entries[i] = LsEntry{ID: e.To, Rank: e.Rank, From: e.From}
				}
				return writeJSON(app.Out, entries)
			}

			for _, e := range edges {
				fmt.Fprintf(app.Out, "%-10s %s\n", e.Rank, e.To)
			}
			return nil
		},
	}
}
