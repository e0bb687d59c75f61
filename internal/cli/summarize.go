package cli

import (
	"time"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/tubetrend/pkg/io"
	"github.com/matzehuels/tubetrend/pkg/videos"
)

// summarizeCommand creates the summarize command, which reports statistics
// for a JSON export written by trending or search.
func (c *CLI) summarizeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "summarize <export.json>",
		Short:   "Summarize a saved JSON export",
		Example: `  tubetrend trending -f json -o today.json && tubetrend summarize today.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := pkgio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			t := tableFromRecords(recs)
			if asJSON {
				return pkgio.WriteSummary(t, time.Now(), c.Out)
			}
			renderSummary(c.Out, t)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary report as JSON")
	return cmd
}

// tableFromRecords rebuilds table metadata from exported records. The kind
// is unknown after export and defaults to trending.
func tableFromRecords(recs []videos.Record) *videos.Table {
	t := &videos.Table{Kind: videos.KindTrending, Records: recs}
	if len(recs) > 0 {
		t.Region = recs[0].RegionCode
		t.FetchTime = recs[0].FetchTime
		t.Limit = len(recs)
	}
	return t
}
