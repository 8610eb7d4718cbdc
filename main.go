package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/JuniMay/junimay.github.io/cmd"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx, version)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
