// Package cli implements the bottlenose command-line interface.
//
// The commands call the Amazon Product Advertising API, the Goodreads API
// and arbitrary web pages through the shared dispatcher, which signs
// requests, throttles them, retries transient failures and caches
// responses. The CLI is built using cobra and logs with
// charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - amazon: Invoke a Product Advertising API operation
//   - goodreads: Invoke a Goodreads API operation
//   - scrape: Fetch a web page, optionally as Markdown
//   - sign: Print the signed request URL and cache key without fetching
//   - regions: List Amazon regions and their hosts
//   - cache: Manage the response cache
//   - serve: Run the HTTP gateway
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/bottlenose/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli
