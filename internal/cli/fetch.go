package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bottlenose/pkg/integrations/amazon"
	"github.com/matzehuels/bottlenose/pkg/integrations/scraper"
)

// outputFlags controls where a response body goes.
type outputFlags struct {
	output string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write the response to a file instead of stdout")
}

func (o *outputFlags) write(cmd *cobra.Command, body []byte) error {
	if o.output == "" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(o.output, body, 0o644); err != nil {
		return err
	}
	printSuccess("Wrote %d bytes", len(body))
	printFile(o.output)
	return nil
}

// amazonCommand creates the "amazon" command.
func (c *CLI) amazonCommand() *cobra.Command {
	var (
		region string
		out    outputFlags
	)

	cmd := &cobra.Command{
		Use:   "amazon <Operation> [Key=Value...]",
		Short: "Invoke an Amazon Product Advertising API operation",
		Example: `  bottlenose amazon ItemLookup ItemId=0679722769 ResponseGroup=Images
  bottlenose amazon ItemSearch SearchIndex=Books Keywords=dune --region UK`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.amazonProvider(region)
			if err != nil {
				return err
			}
			body, err := c.invoke(cmd.Context(), p, args[0], args[1:])
			if err != nil {
				return err
			}
			return out.write(cmd, body)
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "Amazon region (default from config, US)")
	out.register(cmd)
	return cmd
}

func (c *CLI) amazonProvider(region string) (*amazon.Provider, error) {
	cfg := *c.cfg()
	if region != "" {
		cfg.Amazon.Region = region
	}
	return cfg.AmazonProvider()
}

// goodreadsCommand creates the "goodreads" command.
func (c *CLI) goodreadsCommand() *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:     "goodreads <operation> [key=value...]",
		Short:   "Invoke a Goodreads API operation",
		Example: `  bottlenose goodreads book/isbn isbn=0441172717`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.cfg().GoodreadsProvider()
			if err != nil {
				return err
			}
			body, err := c.invoke(cmd.Context(), p, args[0], args[1:])
			if err != nil {
				return err
			}
			return out.write(cmd, body)
		},
	}

	out.register(cmd)
	return cmd
}

// scrapeCommand creates the "scrape" command.
func (c *CLI) scrapeCommand() *cobra.Command {
	var (
		markdown bool
		out      outputFlags
	)

	cmd := &cobra.Command{
		Use:     "scrape <url>",
		Short:   "Fetch a web page through the cache",
		Example: `  bottlenose scrape https://example.com --markdown`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := c.invoke(cmd.Context(), scraper.New(), scraper.Operation, []string{scraper.URLParam + "=" + args[0]})
			if err != nil {
				return err
			}
			if markdown {
				md, err := scraper.Markdown(body)
				if err != nil {
					return err
				}
				body = []byte(md)
			}
			return out.write(cmd, body)
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "convert the HTML response to Markdown")
	out.register(cmd)
	return cmd
}
