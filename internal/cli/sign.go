package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/bottlenose/pkg/cache"
	"github.com/matzehuels/bottlenose/pkg/errors"
	"github.com/matzehuels/bottlenose/pkg/integrations"
	"github.com/matzehuels/bottlenose/pkg/integrations/amazon"
)

// signCommand creates the "sign" command, which builds the request URL and
// cache key of a call without touching the cache or the network.
func (c *CLI) signCommand() *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:   "sign <amazon|goodreads> <operation> [Key=Value...]",
		Short: "Print the signed request URL and cache key",
		Example: `  bottlenose sign amazon ItemLookup ItemId=0679722769
  bottlenose sign goodreads book/isbn isbn=0441172717`,
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: []string{"amazon", "goodreads"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				p   integrations.Provider
				err error
			)
			switch args[0] {
			case "amazon":
				p, err = c.amazonProvider(region)
			case "goodreads":
				p, err = c.cfg().GoodreadsProvider()
			default:
				return errors.New(errors.ErrCodeInvalidInput, "cannot sign requests for %q", args[0])
			}
			if err != nil {
				return err
			}

			params, err := parseParams(args[2:])
			if err != nil {
				return err
			}
			client, err := integrations.NewRawClient(p)
			if err != nil {
				return err
			}
			call := client.ForOperation(args[1])

			key, err := call.CacheKey(params)
			if err != nil {
				return err
			}
			url, err := call.QueryURL(params)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printKeyValue(w, "url", url)
			printKeyValue(w, "cache key", key)
			printKeyValue(w, "cache entry", cache.ResponseKey(p.Name(), key))
			return nil
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "Amazon region (default from config, US)")
	return cmd
}

// regionsCommand creates the "regions" command.
func (c *CLI) regionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List Amazon regions and their API hosts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			regions := amazon.Regions()
			rows := make([][]string, 0, len(regions))
			for _, r := range regions {
				host, _ := amazon.Host(r)
				rows = append(rows, []string{r, host})
			}
			printTable(cmd.OutOrStdout(), []string{"Region", "Host"}, rows)
			return nil
		},
	}
}
