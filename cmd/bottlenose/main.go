package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bottlenose/internal/cli"
	bnerrors "github.com/matzehuels/bottlenose/pkg/errors"
	"github.com/matzehuels/bottlenose/pkg/httputil"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Set the log level before the config pre-run so config loading is logged.
	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		c.Logger.Error(describe(err))
	}
	return err
}

func describe(err error) string {
	if te, ok := httputil.AsTransportError(err); ok {
		return fmt.Sprintf("%s: %v", te.Code(), te)
	}
	if code := bnerrors.GetCode(err); code != "" {
		return fmt.Sprintf("%s: %s", code, bnerrors.UserMessage(err))
	}
	return err.Error()
}

// exitCode follows shell conventions: 130 for SIGINT, 2 for bad input.
func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return 130
	case bnerrors.IsValidation(err), bnerrors.IsProviderConfig(err):
		return 2
	}
	return 1
}
