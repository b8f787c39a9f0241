package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	datadisplay "github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer"
)

func main() {
	flow, err := datadisplay.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := flow.In(datadisplay.InSession(datadisplay.LatestSession)).Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("dashboard exited: %v", err)
	}
}
