// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package main

import (
	"fmt"

	semerr "github.com/semnote-dev/semnote/pkg/errors"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show server status",
		Long:  "Check the running server's health endpoint and display status information.",
		RunE:  runStatus,
	}

	addClientFlags(cmd)

	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	client := clientFromFlags(cmd)
	out := cmd.OutOrStdout()

	var body struct {
		Status   string `json:"status"`
		Stored   int    `json:"stored"`
		Provider string `json:"provider"`
	}
	if err := client.getJSON(cmd.Context(), "/health", &body); err != nil {
		if semerr.HasCode(err, semerr.CodeCLIServerNotRunning) {
			_, _ = fmt.Fprintln(out, "Server is not running (connection refused)")
			return nil
		}
		return err
	}

	_, _ = fmt.Fprintf(out, "Status: %s\nProvider: %s\nStored notes: %d\n", body.Status, body.Provider, body.Stored)
	return nil
}
