package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hperssn/reflex/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, NewRootCommand(), os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// execute runs cmd and reports a failure through the process logger, or on
// stderr when the command failed before logging was set up.
func execute(ctx context.Context, cmd *cobra.Command, stderr io.Writer) error {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	if observability.Initialized() {
		observability.GetLogger().Error("command execution failed", zap.Error(err))
		observability.Sync()
	} else {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return err
}
