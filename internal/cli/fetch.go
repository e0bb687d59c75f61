package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tubetrend/internal/config"
	errs "github.com/matzehuels/tubetrend/pkg/errors"
	"github.com/matzehuels/tubetrend/pkg/pipeline"
	"github.com/matzehuels/tubetrend/pkg/stats"
)

// fetchFlags holds the flags shared by trending and search.
type fetchFlags struct {
	region    string
	limit     int
	format    string
	output    string
	sort      string
	ascending bool
	refresh   bool
	skipCheck bool
}

func (f *fetchFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.region, "region", "r", "", "region code, e.g. US, GB, JP (default from config)")
	fl.IntVarP(&f.limit, "limit", "n", 0, "number of videos, 1-50")
	fl.StringVarP(&f.format, "format", "f", formatTable, "output format: table, csv, json, summary")
	fl.StringVarP(&f.output, "output", "o", "", "write output to a file instead of stdout")
	fl.StringVar(&f.sort, "sort", "", "sort by views, likes, comments, engagement, or published")
	fl.BoolVar(&f.ascending, "asc", false, "sort ascending instead of descending")
	fl.BoolVar(&f.refresh, "refresh", false, "bypass cached results")
	fl.BoolVar(&f.skipCheck, "skip-check", false, "skip the API key check before fetching")

	_ = cmd.RegisterFlagCompletionFunc("region", completeRegions)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("sort", completeSortFields)
}

// trendingCommand creates the trending command.
func (c *CLI) trendingCommand() *cobra.Command {
	var flags fetchFlags
	var category string

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Fetch the most popular videos of a region",
		Long: `Fetch the most popular videos of a region, optionally narrowed to one
video category (see "tubetrend categories" for ids).`,
		Example: `  tubetrend trending --region GB --limit 25
  tubetrend trending --category 10 --format csv -o music.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd.Context(), flags, func(r *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
				opts.Category = category
				return r.Trending(cmd.Context(), opts)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&category, "category", "c", "", "numeric video category id")
	return cmd
}

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	var flags fetchFlags

	cmd := &cobra.Command{
		Use:     "search <query>",
		Short:   "Search videos by keyword",
		Example: `  tubetrend search "golang tutorial" --limit 10 --sort engagement`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd.Context(), flags, func(r *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
				opts.Query = args[0]
				return r.Search(cmd.Context(), opts)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

type fetchFn func(*pipeline.Runner, pipeline.Options) (*pipeline.Result, error)

func (c *CLI) runFetch(ctx context.Context, flags fetchFlags, fetch fetchFn) error {
	format, err := parseFormat(flags.format)
	if err != nil {
		return err
	}
	sortField, err := stats.ParseSortField(flags.sort)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := fetchOptions(cfg, flags)

	if !flags.skipCheck {
		if err := c.checkConnection(ctx, cfg); err != nil {
			printNextStep("Verify the key with", appName+" ping")
			return err
		}
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, statusOut, "Fetching videos...")
	spinner.Start()
	res, err := fetch(runner, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("fetched", "kind", res.Table.Kind, "records", res.Stats.Records, "cached", res.CacheInfo.Hit)

	printStats(res.Stats.Records, res.Stats.Duration, res.CacheInfo.Hit)
	if res.Table.Empty() {
		printWarning("%s", errs.UserMessage(errs.EmptyResult(string(res.Table.Kind), res.Table.Region)))
	}

	t := *res.Table
	t.Records = stats.SortBy(t.Records, sortField, !flags.ascending)
	if format == formatTable && flags.output == "" && t.Empty() {
		return nil
	}
	return writeOutput(c.Out, &t, format, flags.output, time.Now())
}

// fetchOptions merges config defaults with command flags.
func fetchOptions(cfg config.Config, flags fetchFlags) pipeline.Options {
	opts := pipeline.Options{
		APIKey:  cfg.APIKey,
		Region:  cfg.Region,
		Limit:   cfg.Limit,
		Refresh: flags.refresh,
	}
	if flags.limit != 0 {
		opts.Limit = flags.limit
	}
	if flags.region != "" {
		opts.Region = flags.region
	}
	return opts
}
