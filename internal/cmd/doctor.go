package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kecbigmt/mm-sub003/internal/doctor"
	"github.com/kecbigmt/mm-sub003/internal/index"
)

// DoctorResult represents the JSON output of the doctor command.
type DoctorResult struct {
	Issues     []doctor.Issue `json:"issues"`
	ScanErrors []string       `json:"scan_errors,omitempty"`
}

func newDoctorCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the indexes for drift against the item files",
		Long: `Doctor compares the authoritative item files against the published graph
and alias indexes and reports every inconsistency it finds:

- edges pointing at items that no longer exist
- duplicate edges for the same item within one directory
- cycles among item-headed placements
- aliases that normalize to the same canonical key
- missing, relocated, or stale edge files
- orphaned or missing alias index entries

Doctor never modifies anything; run 'mm rebuild' to regenerate the indexes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := provider.Get()
			if err != nil {
				return err
			}

			items, itemErrs, err := app.Items.Load(ctx)
			if err != nil {
				return err
			}
			edges, err := index.ScanEdges(ctx, app.Blobs)
			if err != nil {
				return err
			}
			aliases, err := index.ScanAliases(ctx, app.Blobs)
			if err != nil {
				return err
			}

			var scanErrs []string
			for _, se := range itemErrs {
				scanErrs = append(scanErrs, fmt.Sprintf("%s: %v", se.Path, se.Err))
			}
			for _, e := range edges {
				if e.Err != nil {
					scanErrs = append(scanErrs, fmt.Sprintf("%s: %v", e.Path, e.Err))
				}
			}
			for _, a := range aliases {
				if a.Err != nil {
					scanErrs = append(scanErrs, fmt.Sprintf("%s: %v", a.Path, a.Err))
				}
			}

			issues := doctor.Check(items, edges, aliases)

			if app.JSON {
				return writeJSON(app.Out, DoctorResult{Issues: issues, ScanErrors: scanErrs})
			}

			for _, se := range scanErrs {
				fmt.Fprintf(app.Err, "%s %s\n", app.WarnColor("unreadable"), se)
			}
			if len(issues) == 0 {
				fmt.Fprintln(app.Out, app.SuccessColor("No problems found."))
				return nil
			}
			fmt.Fprintf(app.Out, "Found %d problems:\n", len(issues))
			for _, issue := range issues {
				fmt.Fprintf(app.Out, "  - %s\n", issue)
			}
			fmt.Fprintln(app.Out, "\nRun 'mm rebuild' to regenerate the indexes.")
			return nil
		},
	}
}
