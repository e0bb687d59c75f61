// Package cli implements the tubetrend command-line interface.
//
// Commands fetch trending charts or search results through the cached
// pipeline and print them as a terminal table, CSV, JSON, or a summary
// report. The CLI is built using cobra and logs via charmbracelet/log.
//
// # Commands
//
//   - ping: verify the API key
//   - regions, categories: list supported regions and a region's categories
//   - trending, search: fetch, normalize, and print videos
//   - summarize: summarize a previously exported JSON file
//   - cache: clear or locate the response cache
//   - serve: run the read-only HTTP facade
//
// # Configuration
//
// Settings come from $XDG_CONFIG_HOME/tubetrend/config.toml (or --config),
// then the environment (YOUTUBE_API_KEY, TUBETREND_REGION, TUBETREND_CACHE,
// TUBETREND_REDIS_ADDR), then flags.
package cli

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/matzehuels/tubetrend/internal/config"
	"github.com/matzehuels/tubetrend/pkg/buildinfo"
	"github.com/matzehuels/tubetrend/pkg/integrations"
	"github.com/matzehuels/tubetrend/pkg/integrations/youtube"
	"github.com/matzehuels/tubetrend/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "tubetrend"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command data (tables, CSV, JSON). Status lines go to
	// stderr so data can be piped.
	Out io.Writer

	// BaseURL overrides the YouTube API root.
	BaseURL string

	configPath string
	apiKey     string
	cacheFlag  string

	// One request budget for every YouTube client the process builds.
	limiterMu   sync.Mutex
	limiter     *rate.Limiter
	limiterRate float64
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "tubetrend fetches trending and searched YouTube videos",
		Long:         `tubetrend fetches trending charts and search results from the YouTube Data API, derives engagement metrics, and caches responses to stay within API quota.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tubetrend/config.toml)")
	pf.StringVar(&c.apiKey, "api-key", "", "YouTube Data API key (overrides "+config.EnvAPIKey+")")
	pf.StringVar(&c.cacheFlag, "cache", "", "cache backend: memory, file, redis, or none")
	_ = root.RegisterFlagCompletionFunc("cache", completeBackends)

	// Register all subcommands
	root.AddCommand(c.pingCommand())
	root.AddCommand(c.regionsCommand())
	root.AddCommand(c.categoriesCommand())
	root.AddCommand(c.trendingCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.summarizeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig reads the config file and environment, then applies the
// persistent flags.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.apiKey != "" {
		cfg.APIKey = c.apiKey
	}
	if c.cacheFlag != "" {
		cfg.Cache.Backend = c.cacheFlag
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, error) {
	cache, err := cfg.OpenCache(ctx, c.Logger)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cache, nil, c.Logger)
	limiter := c.sharedLimiter(cfg)
	runner.NewClient = func(apiKey string) pipeline.API {
		return c.youtubeClient(apiKey, integrations.WithLimiter(limiter))
	}
	return runner, nil
}

// sharedLimiter returns the limiter for cfg.RateLimit, reusing the one
// already handed out while the rate is unchanged. Nil means unpaced.
func (c *CLI) sharedLimiter(cfg config.Config) *rate.Limiter {
	c.limiterMu.Lock()
	defer c.limiterMu.Unlock()
	if c.limiter == nil || c.limiterRate != cfg.RateLimit {
		c.limiter = integrations.NewLimiter(cfg.RateLimit)
		c.limiterRate = cfg.RateLimit
	}
	return c.limiter
}

func (c *CLI) youtubeClient(apiKey string, opts ...integrations.Option) *youtube.Client {
	client := youtube.NewClient(apiKey, opts...)
	if c.BaseURL != "" {
		client.WithBaseURL(c.BaseURL)
	}
	return client
}
