package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/pkg/datadisplay"
)

func main() {
	flow, err := datadisplay.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var lastTotal int
	callback := func(f datadisplay.Frame) error {
		if f.Data == nil || f.Data.Total == lastTotal {
			return nil
		}
		lastTotal = f.Data.Total
		fmt.Printf("%s session=%s rows=%d state=%s\n",
			f.At.Format("15:04:05"), f.Data.SessionID, f.Data.Total, f.Device.State)
		for _, r := range f.Data.Rows {
			fmt.Printf("  #%d %s accel=(%.3f, %.3f, %.3f)\n", r.SequenceIndex, r.Timestamp, r.AccelX, r.AccelY, r.AccelZ)
		}
		return nil
	}

	err = flow.In(datadisplay.InSession(datadisplay.LatestSession)).
		Run(ctx, datadisplay.OutCallback("stdout", callback))
	if err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
