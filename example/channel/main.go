package main

import (
	"context"
	"fmt"
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

	display, frames, closeFrames := datadisplay.NewChannelDisplay("averages", 4)
	defer closeFrames()

	go averagesWorker(frames)

	err = flow.In(datadisplay.InSession(datadisplay.LatestSession)).Run(ctx, datadisplay.OutDisplay(display))
	if err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}

func averagesWorker(frames <-chan datadisplay.Frame) {
	for f := range frames {
		if f.Data == nil {
			continue
		}
		for _, avg := range f.Data.Averages {
			fmt.Printf("[%s] avg %s = %.4f\n", f.At.Format("15:04:05"), avg.Column, avg.Mean)
		}
	}
}
