// internal/appshell/shell.go

// Package appshell is the process boundary shared by commands: signal
// handling, default arguments and the exit code.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// RunFunc is a command body that reports its outcome as an exit code.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Exit runs fn with a context cancelled by SIGINT or SIGTERM and returns the
// code to exit with. Without arguments fn receives "-h". A run cut short by a
// signal never reports success.
func Exit(ctx context.Context, fn RunFunc, argv []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Restore default handling once cancelled so a second signal kills the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	code := fn(ctx, argv, stdout, stderr)
	if ctx.Err() != nil && code == 0 {
		code = 130
	}
	return code
}

// Main runs fn on the process arguments and exits.
func Main(fn RunFunc) {
	os.Exit(Exit(context.Background(), fn, os.Args[1:], os.Stdout, os.Stderr))
}
