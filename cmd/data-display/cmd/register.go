package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/adapters/gateway"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/account"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/app/state"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on the backend",
	Long: `Create an account with --user and --password and log in with it.

Example:
  data-display register --user alice --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gw := gateway.NewHTTPGateway(cfg.API.BaseURL, cfg.API.Timeout)
		login := account.NewLoginPanel(gw, state.NewStore(), obs())
		if err := login.Register(cmd.Context(), cfg.API.Username, cfg.API.Password); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", login.Info().Username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
