package cli

import (
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tubetrend/pkg/pipeline"
	"github.com/matzehuels/tubetrend/pkg/videos"
)

// regionsCommand creates the regions command.
func (c *CLI) regionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the supported regions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs := make([][2]string, len(videos.Regions))
			for i, r := range videos.Regions {
				pairs[i] = [2]string{r.Code, r.Name}
			}
			renderKeyValues(c.Out, []string{"Code", "Region"}, pairs)
			return nil
		},
	}
}

// categoriesCommand creates the categories command.
func (c *CLI) categoriesCommand() *cobra.Command {
	var region string
	var refresh bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the assignable video categories of a region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if region == "" {
				region = cfg.Region
			}

			runner, err := c.newRunner(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			categories, hit, err := runner.CategoriesWithCacheInfo(cmd.Context(), pipeline.Options{
				APIKey:  cfg.APIKey,
				Region:  region,
				Refresh: refresh,
			})
			if err != nil {
				return err
			}
			source := "fetched"
			if hit {
				source = "cached"
			}
			printDetail("%d categories in %s (%s)", len(categories), videos.RegionName(region), source)

			ids := slices.SortedFunc(maps.Keys(categories), func(a, b string) int {
				x, _ := strconv.Atoi(a)
				y, _ := strconv.Atoi(b)
				return x - y
			})
			pairs := make([][2]string, len(ids))
			for i, id := range ids {
				pairs[i] = [2]string{id, categories[id]}
			}
			renderKeyValues(c.Out, []string{"ID", "Category"}, pairs)
			return nil
		},
	}
	cmd.Flags().StringVarP(&region, "region", "r", "", "region code (default from config)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached categories")
	_ = cmd.RegisterFlagCompletionFunc("region", completeRegions)
	return cmd
}
