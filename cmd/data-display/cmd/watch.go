package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/view"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/pkg/datadisplay"
)

var (
	watchSession   string
	watchFrames    int
	watchSelect    string
	watchDisplay   string
	watchTheme     string
	watchAscending bool
	watchPage      int
	watchNoMetrics bool
	watchClear     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a session live",
	Long: `Log in, select a session and redraw the dashboard once per frame interval.
Received datapoints are recorded in journal.dir when it is set.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addWatchFlags(watchCmd)
}

// addWatchFlags binds the dashboard flags shared by watch and replay.
func addWatchFlags(c *cobra.Command) {
	c.Flags().StringVarP(&watchSession, "session", "s", datadisplay.LatestSession, "session id, or \"latest\"")
	c.Flags().IntVarP(&watchFrames, "frames", "n", 0, "stop after this many frames (0 runs until interrupted)")
	c.Flags().StringVar(&watchSelect, "select", "accel", "sensor selection: all, loc, accel")
	c.Flags().StringVar(&watchDisplay, "display", "table", "display type: all, table, graph, map")
	c.Flags().StringVar(&watchTheme, "theme", "dark", "color theme: dark, light")
	c.Flags().BoolVar(&watchAscending, "ascending", false, "show the oldest rows first")
	c.Flags().IntVar(&watchPage, "page", 0, "page to show with --frames (0 is the first)")
	c.Flags().BoolVar(&watchNoMetrics, "no-metrics", false, "do not start the metrics server")
	c.Flags().BoolVar(&watchClear, "clear", false, "clear the screen before each frame")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return watch(cmd, cfg)
}

// watch runs the dashboard with cfg. Replay shares it with a journal-backed gateway.
func watch(cmd *cobra.Command, cfg *datadisplay.Config, extra ...datadisplay.RuntimeOption) error {
	sel, err := view.ParseSelection(watchSelect)
	if err != nil {
		return err
	}
	disp, err := view.ParseDisplayType(watchDisplay)
	if err != nil {
		return err
	}
	theme, err := parseTheme(watchTheme)
	if err != nil {
		return err
	}

	opts := []datadisplay.RuntimeOption{
		datadisplay.WithObservability(obs()),
		datadisplay.WithDisplay(newTermDisplay(cmd.OutOrStdout(), watchClear)),
		datadisplay.WithSession(watchSession),
		datadisplay.WithSelection(sel),
		datadisplay.WithDisplayType(disp),
		datadisplay.WithTheme(theme),
		datadisplay.WithAscending(watchAscending),
	}
	if watchNoMetrics {
		opts = append(opts, datadisplay.WithoutMetricsServer())
	}
	opts = append(opts, extra...)

	rt, err := datadisplay.NewRuntime(cfg, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchFrames <= 0 {
		return rt.Run(ctx)
	}
	return runFrames(ctx, rt, watchFrames, cfg.Policy.WithDefaults().FrameInterval)
}

// runFrames draws n frames. In-flight fetches are applied before the last one.
func runFrames(ctx context.Context, rt *datadisplay.Runtime, n int, interval time.Duration) error {
	if err := rt.Start(ctx); err != nil {
		_ = rt.Shutdown(context.Background())
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rt.Shutdown(shutdownCtx)
	}()

	data := rt.Dashboard().Data()
	for i := 0; i < n; i++ {
		if i == n-1 {
			// fold in the fetched rows so the page index clamps against them
			rt.Dashboard().Wait()
			rt.Dashboard().Update(ctx, time.Now())
		}
		data.GoToPage(watchPage)
		rt.Frame(ctx, time.Now())
		if i == n-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
	return nil
}

func parseTheme(s string) (view.Theme, error) {
	switch s {
	case "dark", "":
		return view.DarkMode, nil
	case "light":
		return view.LightMode, nil
	}
	return 0, fmt.Errorf("unknown theme %q", s)
}
