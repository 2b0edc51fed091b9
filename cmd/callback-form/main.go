package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/goliatone/go-callbackform/internal/cli"
)

const (
	cmdName = "callback-form"

	shortDesc = "Request a callback from the terminal."
	longDesc  = `Fill in the "Need Help" callback request form in the terminal.

Every answer is validated when you leave the field. Fields the form declares
without an input (jobType) can only be provided with --set or the prefill
section of the config file. On success the submitted values are printed to
stdout.
`
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewRootCmd(cmdName, shortDesc, longDesc)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		stop()
		os.Exit(1)
	}
}
