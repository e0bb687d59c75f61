package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tubetrend/internal/config"
	errs "github.com/matzehuels/tubetrend/pkg/errors"
	"github.com/matzehuels/tubetrend/pkg/integrations"
	"github.com/matzehuels/tubetrend/pkg/integrations/youtube"
)

// pingCommand creates the ping command.
func (c *CLI) pingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the API key works",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.checkConnection(cmd.Context(), cfg)
		},
	}
}

// checkConnection verifies cfg.APIKey against the API and prints the
// outcome. A failed check is returned as an Unauthorized error.
func (c *CLI) checkConnection(ctx context.Context, cfg config.Config) error {
	spinner := newSpinner(ctx, statusOut, "Checking API key...")
	spinner.Start()
	status := c.ping(ctx, cfg)
	spinner.Stop()

	if !status.OK {
		printError("%s", status.Message)
		return errs.New(errs.ErrCodeUnauthorized, "%s", status.Message)
	}
	printSuccess("%s", status.Message)
	return nil
}

// ping counts against the same request budget as the fetch that follows it.
func (c *CLI) ping(ctx context.Context, cfg config.Config) youtube.Status {
	return c.youtubeClient(cfg.APIKey, integrations.WithLimiter(c.sharedLimiter(cfg))).TestConnection(ctx)
}
