// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Semnote Contributors

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/semnote-dev/semnote/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the semnote server",
		Long:  "Load configuration, resolve the embedding provider, open the note store, and serve the HTTP API until interrupted.",
		RunE:  runStart,
	}

	cmd.Flags().String("listen", "", "override listen address (host:port)")
	cmd.Flags().String("store", "", "override note store path")
	_ = viper.BindPFlag("networking.listen", cmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag("storage.path", cmd.Flags().Lookup("store"))

	return cmd
}

func runStart(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}

	if viper.GetBool("verbose") {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	app, err := WireApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Starting semnote on %s (provider: %s, stored: %d)\n",
		cfg.Networking.Listen, app.Notes.EmbedderName(), app.Notes.Count())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Server.Start(ctx)
}
