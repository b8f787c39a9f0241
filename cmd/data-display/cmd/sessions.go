package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/adapters/gateway"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/account"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/sessions"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/state"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/pkg/datadisplay"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List or start recording sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the sessions of the user",
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, err := loggedInPanel(cmd.Context())
		if err != nil {
			return err
		}
		if err := panel.Refresh(cmd.Context()); err != nil {
			return err
		}
		list := panel.Sessions()
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
			return nil
		}
		for _, s := range list {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", s.ID, s.Username)
		}
		return nil
	},
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new session for the user",
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, err := loggedInPanel(cmd.Context())
		if err != nil {
			return err
		}
		if err := panel.Create(cmd.Context()); err != nil {
			return err
		}
		latest, ok := panel.Latest()
		if !ok {
			return fmt.Errorf("session created but not listed")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created session %d\n", latest.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsNewCmd)
}

// loggedInPanel logs in with the configured credentials and returns the sessions panel.
func loggedInPanel(ctx context.Context) (*sessions.Panel, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	gw := gateway.NewHTTPGateway(cfg.API.BaseURL, cfg.API.Timeout)
	return loginWith(ctx, gw, cfg)
}

func loginWith(ctx context.Context, gw datadisplay.Gateway, cfg *datadisplay.Config) (*sessions.Panel, error) {
	store := state.NewStore()
	login := account.NewLoginPanel(gw, store, obs())
	if err := login.Login(ctx, cfg.API.Username, cfg.API.Password); err != nil {
		return nil, err
	}
	return sessions.NewPanel(gw, store, obs()), nil
}
