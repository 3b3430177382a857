// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/semnote-dev/semnote/internal/config"
	semerr "github.com/semnote-dev/semnote/pkg/errors"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long:  "Write the commented default configuration to ~/.config/semnote/semnote.yaml (or a custom path) as a starting point.",
		RunE:  runInit,
	}

	cmd.Flags().String("path", "", "target path (default: ~/.config/semnote/semnote.yaml)")
	cmd.Flags().Bool("force", false, "overwrite an existing config file")

	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("path")
	force, _ := cmd.Flags().GetBool("force")

	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !force {
		return semerr.Errorf(semerr.CodeCLIInputInvalid, "config file %s already exists (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return semerr.Wrapf(err, semerr.CodeCLISetupFailure, "creating config directory")
	}

	if err := os.WriteFile(path, config.DefaultConfigYAML, 0o600); err != nil {
		return semerr.Wrapf(err, semerr.CodeCLISetupFailure, "writing config file")
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", path)
	return nil
}
