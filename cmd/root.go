package cmd

import (
	"io"
	"log"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ragui",
	Short: "Front-end for the System2/System3 RAG solution catalog",
	Long: `ragui serves a browser front-end for a RAG backend that searches a catalog
of solutions and generates proof-of-concept plans. The same operations are
available from the command line and to AI agents via MCP.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// The server logs requests; everything else stays quiet unless asked.
		if !verbose && cmd.Name() != "server" {
			log.SetOutput(io.Discard)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".ragui.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
