// Command promptguide browses a catalog of prompt-engineering techniques.
//
// Usage:
//
//	promptguide browse
//	promptguide search chain-of-thought
//	promptguide quiz --rounds 10
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/promptguide/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
