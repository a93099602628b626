package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bottlenose/internal/server"
	"github.com/matzehuels/bottlenose/pkg/integrations"
	"github.com/matzehuels/bottlenose/pkg/integrations/scraper"
	bnprom "github.com/matzehuels/bottlenose/pkg/observability/prometheus"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Long: `Run an HTTP gateway that forwards requests to the providers:

  GET /amazon/{operation}?Key=Value
  GET /goodreads/{operation}?key=value
  GET /scrape?url=...&format=markdown
  GET /healthz
  GET /metrics   (with --metrics)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg()
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("metrics") {
				cfg.Server.Metrics = metrics
			}

			store, err := c.openCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			opts := server.Options{Addr: cfg.Server.Addr, Logger: loggerFromContext(ctx)}
			if cfg.Server.Metrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				bnprom.New(reg).Install()
				opts.Metrics = reg
			}

			amz, err := c.amazonProvider("")
			if err != nil {
				return err
			}
			if opts.Amazon, err = integrations.NewRawClient(amz, c.clientOptions(store)...); err != nil {
				return err
			}
			gr, err := cfg.GoodreadsProvider()
			if err != nil {
				return err
			}
			if opts.Goodreads, err = integrations.NewRawClient(gr, c.clientOptions(store)...); err != nil {
				return err
			}
			if opts.Scraper, err = integrations.NewRawClient(scraper.New(), c.clientOptions(store)...); err != nil {
				return err
			}

			printInfo("Serving on %s", StyleLink.Render(cfg.Server.Addr))
			return server.New(opts).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "expose Prometheus metrics at /metrics")
	return cmd
}
