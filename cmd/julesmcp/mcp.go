// Copyright 2026 The Julesmcp Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/julesmcp/julesmcp/internal/mcpserver"
)

// mcpCmd is the parent command for MCP-related subcommands.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server commands",
	Long:  "Commands for running julesmcp as an MCP server, exposing Jules session and source management tools to AI agents.",
}

// mcpServeCmd runs the MCP server over stdio.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start an MCP server on stdin/stdout, exposing the Jules tools:
  - list_sources, get_source:   repositories Jules can work with
  - list_sessions, get_session: coding sessions and their state
  - create_session:             start a new coding task
  - send_message, approve_plan: steer a running session
  - list_activities:            a session's work history
  - create_pull_request:        a session that ends in a PR

The server communicates using the Model Context Protocol (MCP) over stdio
transport. JULES_API_KEY must be set; a missing key fails startup rather
than the first tool call.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		return mcpserver.Run(cmd.Context(), Version, client, &mcp.StdioTransport{})
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}
