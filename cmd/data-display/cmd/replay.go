package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/pkg/datadisplay"
)

var replayJournal string

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Show recorded sessions from a journal without a backend",
	Long: `Drive the dashboard from a journal directory written by watch. Any
credentials are accepted and the watch flags apply.

Example:
  data-display replay --journal ./data/journal --session 3 --frames 2`,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVar(&replayJournal, "journal", "", "journal directory to replay")
	addWatchFlags(replayCmd)
	_ = replayCmd.MarkFlagRequired("journal")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.API.Username == "" {
		cfg.API.Username = "replay"
	}
	if cfg.API.Password == "" {
		cfg.API.Password = "replay"
	}
	// the replayed journal is not recorded again
	cfg.Journal.Dir = ""

	j, err := datadisplay.OpenJournal(replayJournal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	return watch(cmd, cfg, datadisplay.WithGateway(datadisplay.NewReplayGateway(j)))
}
