package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the configuration without connecting",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		src := configPath
		if src == "" {
			src = "(defaults)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config %s looks good\n", src)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
