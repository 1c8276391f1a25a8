package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/learnova/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize learnova configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose a provider, models and server settings, and writes a .learnova.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		if env := config.APIKeyEnvVar(cfg.Provider); env != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s before running `learnova server`.\n", env)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
