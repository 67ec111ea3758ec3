// Package appshell is the process boundary of the commands: signal
// handling and exit status.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// ExitCancelled is the status of a run stopped by SIGINT or SIGTERM.
const ExitCancelled = 130

// RunFunc is the signature of app.RunContext.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Main runs run with the process arguments and exits with its status.
func Main(run RunFunc) {
	os.Exit(Exec(run, os.Args[1:], os.Stdout, os.Stderr))
}

// Exec calls run with a context cancelled on SIGINT or SIGTERM. A cancelled
// run that reports success is normalized to ExitCancelled.
func Exec(run RunFunc, argv []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, argv, stdout, stderr)
	if ctx.Err() != nil && code == 0 {
		code = ExitCancelled
	}
	return code
}
