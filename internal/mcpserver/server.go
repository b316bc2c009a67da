// Copyright 2026 The Julesmcp Authors
// SPDX-License-Identifier: MIT

// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes the Jules API as tools over stdio transport. Every tool is a thin
// adaptation: validate parameters, make one upstream call, return the JSON.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/julesmcp/julesmcp/internal/jules"
)

// New creates an MCP server with the Jules tools registered against the
// given client.
func New(version string, client *jules.Client) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "jules",
		Title:   "Jules — Coding Sessions",
		Version: version,
	}, nil)

	registerTools(server, client)
	return server
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, version string, client *jules.Client, transport mcp.Transport) error {
	server := New(version, client)
	return server.Run(ctx, transport)
}
