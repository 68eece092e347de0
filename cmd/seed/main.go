// Command seed validates the seed CSV set and imports it into the document
// store.
//
//	seed [--data-dir DIR] [--week YYYY-MM-DD] [--assign-ratio R] [--dry-run]
//	seed orders [--week YYYY-MM-DD]
//	seed validate
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string) int {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		return exitCode(err)
	}
	return exitOK
}
