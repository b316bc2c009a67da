// Copyright 2026 The Julesmcp Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/julesmcp/julesmcp/internal/gitremote"
	"github.com/julesmcp/julesmcp/internal/jules"
)

// Sources-specific flag values.
var (
	sourcesPageSize  int
	sourcesPageToken string
	sourcesFilter    string
)

// bindPaginationFlags registers the shared pagination flags on a list
// command's flag set.
func bindPaginationFlags(fs *pflag.FlagSet, size *int, token *string, def int) {
	fs.IntVar(size, "page-size", def, "number of results per page (1-100)")
	fs.StringVar(token, "page-token", "", "opaque pagination token from a previous page")
}

// sourcesCmd is the parent command for source operations.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Inspect repositories Jules can work with",
}

// sourcesListCmd lists available sources.
var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available source repositories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.ListSources(cmd.Context(), jules.ListOptions{
			PageSize:  sourcesPageSize,
			PageToken: sourcesPageToken,
			Filter:    sourcesFilter,
		})
		if err != nil {
			return apiExitError(err)
		}
		for _, s := range resp.Sources {
			fmt.Println(s.Name)
		}
		printNextPageHint(resp.NextPageToken)
		return nil
	},
}

// sourcesGetCmd fetches a single source and prints it as JSON.
var sourcesGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Show details for a source (e.g. sources/github/owner/repo)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		source, err := client.GetSource(cmd.Context(), args[0])
		if err != nil {
			return apiExitError(err)
		}
		return printJSON(source)
	},
}

// sourcesResolveCmd maps a local checkout to its Jules source name.
var sourcesResolveCmd = &cobra.Command{
	Use:   "resolve [path]",
	Short: "Derive the source name from a local checkout's origin remote",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}
		name, err := gitremote.SourceName(path)
		if err != nil {
			return exitError(ExitInvalidArgs, "cannot resolve source from %s: %v", path, err)
		}
		fmt.Println(name)
		return nil
	},
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	bindPaginationFlags(sourcesListCmd.Flags(), &sourcesPageSize, &sourcesPageToken, jules.DefaultSourcePageSize)
	sourcesListCmd.Flags().StringVar(&sourcesFilter, "filter", "", "upstream filter expression")

	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesGetCmd)
	sourcesCmd.AddCommand(sourcesResolveCmd)
}
