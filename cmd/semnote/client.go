// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	semerr "github.com/semnote-dev/semnote/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// defaultHTTPClient is the package-level HTTP client used by commands that
// talk to a running server. Overridden in tests via httptest.
var defaultHTTPClient = &http.Client{
	Timeout: 10 * time.Second,
}

// apiClient provides HTTP access to a running semnote server.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// newAPIClient creates a client targeting the given host:port address.
// An empty token sends no Authorization header.
func newAPIClient(addr, token string) *apiClient {
	return &apiClient{
		baseURL: "http://" + addr,
		token:   token,
		http:    defaultHTTPClient,
	}
}

// getJSON performs a GET request and decodes the JSON response into dest.
func (c *apiClient) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return semerr.Wrapf(err, semerr.CodeCLIRequestFailure, "building request")
	}
	return c.do(req, dest)
}

// postJSON sends body as JSON and decodes the response into dest.
func (c *apiClient) postJSON(ctx context.Context, path string, body, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return semerr.Wrapf(err, semerr.CodeCLIRequestFailure, "encoding request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return semerr.Wrapf(err, semerr.CodeCLIRequestFailure, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, dest)
}

func (c *apiClient) do(req *http.Request, dest any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isDialError(err) {
			return semerr.Errorf(semerr.CodeCLIServerNotRunning, "server is not running (connection refused)")
		}
		return semerr.Wrapf(err, semerr.CodeCLIRequestFailure, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return semerr.Errorf(semerr.CodeCLIRequestFailure, "server returned status %d: %s", resp.StatusCode, string(body))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return semerr.Wrapf(err, semerr.CodeCLIResponseInvalid, "invalid response")
	}
	return nil
}

// addClientFlags registers the flags shared by commands that talk to a
// running server.
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().String("address", "", "server address (host:port); defaults to the configured listen address")
	cmd.Flags().String("token", "", "bearer token; defaults to the configured auth token")
}

// clientFromFlags builds an apiClient from flags, falling back to the
// resolved configuration for anything not set explicitly.
func clientFromFlags(cmd *cobra.Command) *apiClient {
	addr, _ := cmd.Flags().GetString("address")
	if addr == "" {
		addr = viper.GetString("networking.listen")
	}

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = viper.GetString("auth.token")
	}

	return newAPIClient(addr, token)
}

// isDialError returns true if err is a net dial error (connection refused, etc.).
func isDialError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial"
	}
	return false
}
