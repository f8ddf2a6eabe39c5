package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fractals/internal/cli"
	"github.com/matzehuels/fractals/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	verbose, err := run(ctx)
	if err == nil {
		return
	}
	if stderrors.Is(err, context.Canceled) {
		os.Exit(130) // SIGINT
	}
	fmt.Fprintf(os.Stderr, "fractals: %s\n", describe(err, verbose))
	os.Exit(1)
}

func run(ctx context.Context) (verbose bool, err error) {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// The level must be set before the root's own pre-run logs anything.
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

	err = root.ExecuteContext(ctx)
	return verbose, err
}

// describe formats err for the terminal. Error codes are shown in verbose
// mode only.
func describe(err error, verbose bool) string {
	var e *errors.Error
	if verbose || !stderrors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}
