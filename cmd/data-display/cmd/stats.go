package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var (
	statsURL      string
	statsInterval time.Duration
	statsCount    int
)

var statsTargets = []string{
	"datadisplay_fetch_total",
	"datadisplay_fetch_failed_total",
	"datadisplay_display_rows",
	"datadisplay_consecutive_failures",
	"datadisplay_journal_size_bytes",
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Poll the metrics endpoint of a running dashboard",
	Long: `Print fetch, row and journal counters from the Prometheus endpoint of watch.

Example:
  data-display stats --url http://localhost:9100/metrics --interval 1s`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsURL, "url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	statsCmd.Flags().DurationVar(&statsInterval, "interval", 2*time.Second, "refresh interval")
	statsCmd.Flags().IntVar(&statsCount, "count", 0, "stop after this many snapshots (0 runs until interrupted)")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	client := &http.Client{Timeout: 5 * time.Second}
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	if statsCount == 0 {
		fmt.Fprintf(out, "Streaming metrics from %s (Ctrl+C to stop)\n", statsURL)
	}
	for n := 0; statsCount == 0 || n < statsCount; n++ {
		if n > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
		if err := printMetricsSnapshot(ctx, client, out); err != nil {
			if statsCount > 0 {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "stats error: %v\n", err)
		}
	}
	return nil
}

func printMetricsSnapshot(ctx context.Context, client *http.Client, out io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statsURL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	values := make(map[string]float64, len(statsTargets))
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for _, key := range statsTargets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %g", &value); err == nil {
					values[key] = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Fprintf(out, "[%s] fetches=%g failed=%g rows=%g failures=%g journal_bytes=%g\n",
		time.Now().Format(time.RFC3339),
		values["datadisplay_fetch_total"],
		values["datadisplay_fetch_failed_total"],
		values["datadisplay_display_rows"],
		values["datadisplay_consecutive_failures"],
		values["datadisplay_journal_size_bytes"],
	)
	return nil
}
