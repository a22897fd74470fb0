package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/brightpath/platform/components/allocation/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootstrap.Init().Run(ctx)
}
