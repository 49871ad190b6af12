// Command ordertrack is the single-user order tool for the shop counter. It keeps
// orders in a local SQLite file and notifies customers when their laundry is ready.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"laundryops/internal/common"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, formatError(err))
		}
		os.Exit(1)
	}
}

// formatError expands multi-field validation failures onto separate lines.
func formatError(err error) string {
	var appErr *common.AppError
	if !errors.As(err, &appErr) || len(appErr.Details) == 0 {
		return "error: " + err.Error()
	}
	out := "error: " + appErr.Message
	for _, f := range common.DetailFields(appErr) {
		out += fmt.Sprintf("\n  %s: %s", f, appErr.Details[f])
	}
	return out
}
