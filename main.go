package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AyeshaZahid477412/leadgen-admin/cmd"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/conf"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/gateway"
	"github.com/AyeshaZahid477412/leadgen-admin/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	logging.Init()

	settings := conf.Setting()
	if settings == nil {
		fmt.Fprintln(os.Stderr, "Error loading configuration")
		return 1
	}

	// The gateway's file logger is shared by every client in the process
	defer gateway.CloseLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
