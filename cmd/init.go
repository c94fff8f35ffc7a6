package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ziadkadry99/ragui/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ragui configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the backend variant and API location, and writes a .ragui.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
