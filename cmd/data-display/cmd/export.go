package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/adapters/gateway"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/pkg/datadisplay"
)

var (
	exportSession string
	exportFormat  string
	exportOut     string
	exportJournal string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download a session as CSV or into Postgres",
	Long: `Fetch every datapoint of a session, format it and write the rows oldest first.

Examples:
  data-display export --session 3 --out session3.csv
  data-display export --session 3 --format postgres -c ./data/config.yaml
  data-display export --session 3 --journal ./data/journal`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportSession, "session", "s", "", "session id to export")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format: csv, postgres")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "CSV output file (- for stdout)")
	exportCmd.Flags().StringVar(&exportJournal, "journal", "", "read the session from a journal directory instead of the backend")
	_ = exportCmd.MarkFlagRequired("session")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var gw datadisplay.Gateway
	if exportJournal != "" {
		j, err := datadisplay.OpenJournal(exportJournal)
		if err != nil {
			return err
		}
		defer j.Close()
		gw = datadisplay.NewReplayGateway(j)
	} else {
		hg := gateway.NewHTTPGateway(cfg.API.BaseURL, cfg.API.Timeout)
		if _, err := loginWith(cmd.Context(), hg, cfg); err != nil {
			return err
		}
		gw = hg
	}

	sink, closeSink, err := openSink(cmd.OutOrStdout(), cfg)
	if err != nil {
		return err
	}
	n, err := datadisplay.ExportSession(cmd.Context(), gw, exportSession, sink, obs())
	if cerr := closeSink(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if exportOut != "-" || exportFormat != "csv" {
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows of session %s to %s\n", n, exportSession, sink.Name())
	}
	return nil
}

func openSink(stdout io.Writer, cfg *datadisplay.Config) (datadisplay.RowSink, func() error, error) {
	switch exportFormat {
	case "csv":
		if exportOut == "-" {
			return datadisplay.NewCSVSink(stdout), func() error { return nil }, nil
		}
		f, err := os.Create(exportOut)
		if err != nil {
			return nil, nil, err
		}
		return datadisplay.NewCSVSink(f), f.Close, nil
	case "postgres":
		return datadisplay.OpenPostgresSink(cfg.Export)
	}
	return nil, nil, fmt.Errorf("unknown export format %q", exportFormat)
}
