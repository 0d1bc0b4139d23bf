// Command wastechart renders waste statistics as charts and tables and
// exports them to xlsx, pdf, png or a printer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/c112110130-dot/waste-system-django-sub002/internal/cli"
	errs "github.com/c112110130-dot/waste-system-django-sub002/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, errs.UserMessage(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	cli.InstallLogHooks(c.Logger)
	return c.RootCommand().ExecuteContext(ctx)
}
