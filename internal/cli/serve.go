package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tubetrend/internal/server"
	errs "github.com/matzehuels/tubetrend/pkg/errors"
	"github.com/matzehuels/tubetrend/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var rpm int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve fetch results as a read-only JSON API",
		Long: `Serve trending, search, category, and summary results over HTTP.

Routes:
  GET  /healthz
  GET  /api/regions
  GET  /api/categories?region=
  GET  /api/trending?region=&category=&limit=
  GET  /api/search?q=&region=&limit=
  GET  /api/summary?source=trending|search&...
  POST /api/cache/clear
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := errs.ValidateAPIKey(cfg.APIKey); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Serve.Addr = addr
			}
			if cmd.Flags().Changed("rpm") {
				cfg.Serve.RequestsPerMinute = rpm
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := observability.NewPrometheus(reg)
			observability.SetPipelineHooks(metrics)
			observability.SetCacheHooks(metrics)
			observability.SetHTTPHooks(metrics)
			defer observability.Reset()

			runner, err := c.newRunner(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, server.Config{
				Addr:              cfg.Serve.Addr,
				APIKey:            cfg.APIKey,
				RequestsPerMinute: cfg.Serve.RequestsPerMinute,
				Gatherer:          reg,
			}, c.Logger)

			printInfo("Serving on %s", cfg.Serve.Addr)
			printDetail("cache: %s · rate limit: %d req/min per IP", cfg.Cache.Backend, cfg.Serve.RequestsPerMinute)
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default from config)")
	cmd.Flags().IntVar(&rpm, "rpm", 60, "requests per minute per client IP, 0 disables limiting")
	return cmd
}
