package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/ragui/internal/mcp"
	"github.com/ziadkadry99/ragui/internal/render"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing solution search, POC generation, history and status tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackend()
		if err != nil {
			return err
		}
		defer b.Close()

		renderer, err := render.New()
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "ragui MCP server started on stdio (variant=%s, api=%s)\n", b.cfg.Variant, b.rag.Base())

		srv := mcpserver.NewServer(b.rag, b.sessions, renderer)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
