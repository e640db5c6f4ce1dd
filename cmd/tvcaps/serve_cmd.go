// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/ManuGH/tvcaps/internal/config"
	"github.com/ManuGH/tvcaps/internal/daemon"
	tvlog "github.com/ManuGH/tvcaps/internal/log"
)

func runServe(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("tvcaps serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file (YAML)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.NewLoader(*configPath, version).Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	tvlog.Configure(tvlog.Config{
		Level:   cfg.LogLevel,
		Service: "tvcaps",
		Version: version,
	})
	logger := tvlog.WithComponent("cli")
	source := "env+defaults"
	if *configPath != "" {
		source = "file"
	}
	logger.Info().
		Str(tvlog.FieldEvent, "config.loaded").
		Str("source", source).
		Str("path", *configPath).
		Msg("loaded configuration")

	ctx, stop := daemon.WaitForShutdown()
	defer stop()

	if err := daemon.New(cfg).Run(ctx); err != nil {
		logger.Error().Err(err).Str(tvlog.FieldEvent, "daemon.failed").Msg("daemon exited with error")
		return 1
	}
	return 0
}
