// Command homesim runs day-by-day housing and household cash-flow projections.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rpgo/housing-projection/internal/config"
)

func main() {
	env, err := config.LoadEnvironment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(env)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
