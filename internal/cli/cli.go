// Package cli implements the bottlenose command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bottlenose/internal/config"
	"github.com/matzehuels/bottlenose/pkg/buildinfo"
	"github.com/matzehuels/bottlenose/pkg/cache"
	"github.com/matzehuels/bottlenose/pkg/integrations"
	"github.com/matzehuels/bottlenose/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "bottlenose"

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

	flags  globalFlags
	config *config.Config
}

type globalFlags struct {
	configPath string
	noCache    bool
	maxQPS     float64
	maxRetries int
	timeout    time.Duration
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Bottlenose calls rate-limited product and book APIs",
		Long:         `Bottlenose fetches responses from the Amazon Product Advertising API, the Goodreads API and arbitrary web pages, with request signing, throttling, retries and a response cache.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/bottlenose/config.toml)")
	pf.BoolVar(&c.flags.noCache, "no-cache", false, "bypass the response cache")
	pf.Float64Var(&c.flags.maxQPS, "max-qps", 0, "maximum requests per second per provider (0 = unlimited)")
	pf.IntVar(&c.flags.maxRetries, "max-retries", integrations.DefaultMaxRetries, "maximum retries per request")
	pf.DurationVar(&c.flags.timeout, "timeout", integrations.DefaultTimeout, "per-attempt request timeout")

	// Register all subcommands
	root.AddCommand(c.amazonCommand())
	root.AddCommand(c.goodreadsCommand())
	root.AddCommand(c.scrapeCommand())
	root.AddCommand(c.signCommand())
	root.AddCommand(c.regionsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and lets explicitly set flags win.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.flags.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("max-qps") {
		cfg.Client.MaxQPS = c.flags.maxQPS
	}
	if flags.Changed("max-retries") {
		cfg.Client.MaxRetries = c.flags.maxRetries
	}
	if flags.Changed("timeout") {
		cfg.Client.Timeout = c.flags.timeout
	}
	if c.flags.noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.config = cfg
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	c.Logger.Debug("config loaded", "backend", cfg.Cache.Backend, "max_qps", cfg.Client.MaxQPS, "max_retries", cfg.Client.MaxRetries)
	return nil
}

// cfg returns the loaded configuration, or the defaults when a command runs
// without the root pre-run (tests).
func (c *CLI) cfg() *config.Config {
	if c.config == nil {
		c.config = config.Default()
	}
	return c.config
}

// =============================================================================
// Client Factory
// =============================================================================

// clientOptions translates the configuration into dispatcher options.
// Transient failures are retried with exponential backoff.
func (c *CLI) clientOptions(store cache.Cache) []integrations.Option {
	cfg := c.cfg()
	opts := []integrations.Option{
		integrations.WithTimeout(cfg.Client.Timeout),
		integrations.WithMaxQPS(cfg.Client.MaxQPS),
		integrations.WithMaxRetries(cfg.Client.MaxRetries),
		integrations.WithErrorHandler(integrations.RetryTransient(
			integrations.RetryWithBackoff(integrations.DefaultBackOff),
		)),
		integrations.WithLogger(c.Logger),
	}
	if store != nil {
		opts = append(opts, integrations.WithCache(store, cfg.Cache.TTL))
	}
	return opts
}

// openCache opens the configured backend.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	store, err := c.cfg().Cache.OpenCache(ctx)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("cache opened", "backend", c.cfg().Cache.Backend)
	return store, nil
}

// invoke runs one call against a fresh raw client.
func (c *CLI) invoke(ctx context.Context, p integrations.Provider, operation string, args []string) ([]byte, error) {
	params, err := parseParams(args)
	if err != nil {
		return nil, err
	}

	store, err := c.openCache(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	client, err := integrations.NewRawClient(p, c.clientOptions(store)...)
	if err != nil {
		return nil, err
	}

	prog := newProgress(c.Logger)
	stop := c.showStatus("Fetching " + p.Name() + " " + operation)
	body, err := client.ForOperation(operation).Invoke(ctx, params)
	stop()
	if err != nil {
		return nil, err
	}
	prog.done("Fetched "+p.Name()+" "+operation, "bytes", len(body))
	return body, nil
}

// showStatus draws a live status line on interactive terminals unless
// debug logging would interleave with it. The line receives call hooks
// until the returned func restores the previous ones.
func (c *CLI) showStatus(label string) func() {
	if !isatty.IsTerminal(os.Stderr.Fd()) || c.Logger.GetLevel() <= log.DebugLevel {
		return func() {}
	}

	line := newStatusLine(statusOut, label)
	prev := observability.Call()
	observability.SetCallHooks(line)
	line.start(80 * time.Millisecond)
	return func() {
		line.stop()
		observability.SetCallHooks(prev)
	}
}
