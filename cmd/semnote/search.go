// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search notes on a running server",
		Long:  "Return the stored notes most semantically similar to the query text, best match first.",
		Args:  cobra.ExactArgs(1),
		RunE:  runSearch,
	}

	addClientFlags(cmd)
	cmd.Flags().IntP("top", "k", 0, "maximum number of results (server default: 3)")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	client := clientFromFlags(cmd)
	out := cmd.OutOrStdout()

	k, _ := cmd.Flags().GetInt("top")
	path := "/api/v1/notes/search?q=" + url.QueryEscape(args[0])
	if k > 0 {
		path = fmt.Sprintf("%s&k=%d", path, k)
	}

	var reply struct {
		Results []struct {
			ID    string  `json:"id"`
			Label string  `json:"label"`
			Text  string  `json:"text"`
			Score float32 `json:"score"`
		} `json:"results"`
	}
	if err := client.getJSON(cmd.Context(), path, &reply); err != nil {
		return err
	}

	if len(reply.Results) == 0 {
		_, _ = fmt.Fprintln(out, "No matches.")
		return nil
	}

	for i, res := range reply.Results {
		_, _ = fmt.Fprintf(out, "%d. [%s] %.4f  %s\n", i+1, res.Label, res.Score, res.Text)
	}
	return nil
}
