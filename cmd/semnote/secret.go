// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/semnote-dev/semnote/internal/secrets"
	semerr "github.com/semnote-dev/semnote/pkg/errors"
	"github.com/spf13/cobra"
)

func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage the embedding API key in the OS keyring",
		Long:  "Store or remove the embedding provider API key in the operating system keyring, keeping it out of config files and environment variables.",
	}

	cmd.AddCommand(
		newSecretSetKeyCmd(),
		newSecretClearKeyCmd(),
	)

	return cmd
}

func newSecretSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key",
		Short: "Store the embedding API key (read from stdin)",
		Args:  cobra.NoArgs,
		RunE:  runSecretSetKey,
	}
}

func newSecretClearKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-key",
		Short: "Remove the embedding API key from the keyring",
		Args:  cobra.NoArgs,
		RunE:  runSecretClearKey,
	}
}

// runSecretSetKey reads the key from stdin rather than an argument so it
// never lands in shell history or process listings.
func runSecretSetKey(cmd *cobra.Command, _ []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return semerr.Wrapf(err, semerr.CodeCLIInputInvalid, "reading api key from stdin")
	}

	key := strings.TrimSpace(line)
	if key == "" {
		return semerr.New(semerr.CodeCLIInputInvalid, "api key must not be empty")
	}

	store := secretStoreFactory()
	if err := store.Store(secrets.Service, secrets.APIKeyName, key); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Stored embedding API key in the OS keyring.")
	return nil
}

func runSecretClearKey(cmd *cobra.Command, _ []string) error {
	store := secretStoreFactory()

	if err := store.Delete(secrets.Service, secrets.APIKeyName); err != nil {
		if semerr.HasCode(err, semerr.CodeSecretNotFound) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No embedding API key stored.")
			return nil
		}
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Removed embedding API key from the OS keyring.")
	return nil
}
