package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/learnova/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the explain, render_markdown, list_catalog and export_pdf tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		svc, err := newAssistant(context.Background(), cfg)
		if err != nil {
			return err
		}

		mcpserver.Version = Version

		// Stdout carries the protocol.
		fmt.Fprintf(os.Stderr, "learnova MCP server started on stdio (provider=%s, model=%s)\n", cfg.Provider, cfg.Model)

		return mcpserver.NewServer(svc).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
