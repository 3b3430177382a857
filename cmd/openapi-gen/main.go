// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

// Command openapi-gen writes the generated OpenAPI spec to a file so it can
// be committed and diffed alongside API changes.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/semnote-dev/semnote/internal/embed"
	"github.com/semnote-dev/semnote/internal/notes"
	"github.com/semnote-dev/semnote/internal/server"
	"github.com/semnote-dev/semnote/internal/store"
	semerr "github.com/semnote-dev/semnote/pkg/errors"
)

func main() {
	spec, err := generateSpec()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	outPath := "api/openapi/spec.json"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output dir: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, spec, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing spec: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OpenAPI spec written to %s\n", outPath)
}

// generateSpec creates a server with all routes registered and extracts the
// OpenAPI spec that huma generates from the Go type annotations. The
// in-memory service exists only for route registration; handlers are never
// invoked.
func generateSpec() ([]byte, error) {
	embedder := embed.NewFallback(embed.DefaultDimensions)
	svc := notes.NewService(embedder, store.NewMemoryStore(embedder.Dimensions()))

	srv, err := server.New(server.Config{ListenAddr: "127.0.0.1:0"}, svc)
	if err != nil {
		return nil, semerr.Wrapf(err, semerr.CodeCLISetupFailure, "creating server")
	}
	defer func() { _ = srv.Close() }()

	return json.MarshalIndent(srv.API().OpenAPI(), "", "  ")
}
