package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/pkg/datadisplay"
)

var (
	mockAddr     string
	mockInterval time.Duration
	mockSamples  int
	mockSeed     int64
)

var mockBackendCmd = &cobra.Command{
	Use:   "mock-backend",
	Short: "Serve an in-memory backend that records random samples",
	Long: `Start a development backend. The account given with --user and --password
is created along with one session, and a random sample is recorded into that
session every --interval.

Example:
  data-display mock-backend --addr :8080 --user demo --password demo --interval 1s`,
	RunE: runMockBackend,
}

func init() {
	rootCmd.AddCommand(mockBackendCmd)
	mockBackendCmd.Flags().StringVar(&mockAddr, "addr", ":8080", "listen address")
	mockBackendCmd.Flags().DurationVar(&mockInterval, "interval", 5*time.Second, "time between generated samples")
	mockBackendCmd.Flags().IntVar(&mockSamples, "samples", 0, "stop generating after this many samples (0 is unlimited)")
	mockBackendCmd.Flags().Int64Var(&mockSeed, "seed", 1, "random seed for generated samples")
}

func runMockBackend(cmd *cobra.Command, args []string) error {
	user, pass := username, password
	if user == "" || pass == "" {
		return fmt.Errorf("--user and --password are required")
	}

	backend := datadisplay.NewMockBackend()
	if err := backend.Register(user, pass); err != nil {
		return err
	}
	session, err := backend.CreateSession(user)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := datadisplay.NewMockGenerator(backend, mockInterval, mockSeed)
	go func() {
		if err := gen.Run(ctx, session.ID, mockSamples); err != nil {
			obs().LogError("generator_stopped", err, ports.Field{Key: "session", Value: session.ID})
		}
	}()

	srv := &http.Server{
		Addr:              mockAddr,
		Handler:           datadisplay.MockHandler(backend),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "mock backend on %s, user %s, recording session %d\n", mockAddr, user, session.ID)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
