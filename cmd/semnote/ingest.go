// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	semerr "github.com/semnote-dev/semnote/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// batchConcurrency bounds in-flight requests during --file ingestion.
const batchConcurrency = 4

type noteRequest struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

type noteReply struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [label] [text]",
		Short: "Store a note on a running server",
		Long: "Embed and store a single note, or a batch of notes from a JSON Lines file " +
			`(one {"label": ..., "text": ...} object per line) with --file.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runIngest,
	}

	addClientFlags(cmd)
	cmd.Flags().String("file", "", "JSON Lines file to ingest instead of a single note")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	client := clientFromFlags(cmd)

	if file, _ := cmd.Flags().GetString("file"); file != "" {
		if len(args) > 0 {
			return semerr.New(semerr.CodeCLIInputInvalid, "ingest: --file and positional arguments are mutually exclusive")
		}
		return runIngestFile(cmd, client, file)
	}

	if len(args) != 2 {
		return semerr.New(semerr.CodeCLIInputInvalid, "ingest: expected <label> <text> arguments (or --file)")
	}

	var reply noteReply
	err := client.postJSON(cmd.Context(), "/api/v1/notes", noteRequest{Label: args[0], Text: args[1]}, &reply)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored note %s (%s)\n", reply.ID, reply.Label)
	return nil
}

// runIngestFile streams a JSON Lines file and posts each note, with a bounded
// number of requests in flight. Any failed line aborts the batch; notes
// already stored stay stored (the server is append-only).
func runIngestFile(cmd *cobra.Command, client *apiClient, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return semerr.Wrapf(err, semerr.CodeCLIInputInvalid, "opening %s", path)
	}
	defer func() { _ = f.Close() }()

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(batchConcurrency)

	var stored atomic.Int64

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req noteRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			return semerr.Wrapf(err, semerr.CodeCLIInputInvalid, "%s:%d: invalid note", path, lineNo)
		}

		n := lineNo
		g.Go(func() error {
			if err := client.postJSON(ctx, "/api/v1/notes", req, nil); err != nil {
				return semerr.Wrapf(err, semerr.CodeCLIRequestFailure, "%s:%d: storing note", path, n)
			}
			stored.Add(1)
			return nil
		})
	}
	if err := scanner.Err(); err != nil {
		return semerr.Wrapf(err, semerr.CodeCLIInputInvalid, "reading %s", path)
	}

	if err := g.Wait(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored %d notes from %s\n", stored.Load(), path)
	return nil
}
