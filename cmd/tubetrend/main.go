package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tubetrend/internal/cli"
	"github.com/matzehuels/tubetrend/internal/config"
	errs "github.com/matzehuels/tubetrend/pkg/errors"
)

// exitInterrupted follows the shell convention for SIGINT.
const exitInterrupted = 130

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx)
	report(os.Stderr, err)
	os.Exit(exitCode(err))
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log cache and request details")

	// Apply the log level once flags are parsed
	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := cli.LogInfo
		if verbose {
			level = cli.LogDebug
		}
		c.SetLogLevel(level)

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		return 1
	}
}

// report prints err for the user, with a hint for failures the user can
// fix locally. Interrupts print nothing.
func report(w io.Writer, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	fmt.Fprintln(w, errs.UserMessage(err))
	switch {
	case errs.Is(err, errs.ErrCodeUnauthorized):
		fmt.Fprintf(w, "Set %s or pass --api-key.\n", config.EnvAPIKey)
	case errs.Is(err, errs.ErrCodeForbidden), errs.Is(err, errs.ErrCodeRateLimited):
		fmt.Fprintln(w, "The key may be out of daily quota. Cached results stay available until it resets.")
	}
}
