// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/ManuGH/tvcaps/internal/config"
	tvlog "github.com/ManuGH/tvcaps/internal/log"
	"github.com/ManuGH/tvcaps/internal/platform"
	"github.com/ManuGH/tvcaps/internal/probe"
	"github.com/ManuGH/tvcaps/internal/profile"
)

func runBuild(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tvcaps build", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		reportPath = fs.String("report", "", "path to a device report (YAML or JSON)")
		outPath    = fs.String("out", "", "write the profile here instead of stdout")
		configPath = fs.String("config", "", "path to config file (YAML)")
		compact    = fs.Bool("compact", false, "emit compact JSON regardless of output.indent")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if strings.TrimSpace(*reportPath) == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -report is required")
		return 2
	}

	cfg, err := config.NewLoader(*configPath, version).Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}
	tvlog.Configure(tvlog.Config{
		Level:   cfg.LogLevel,
		Output:  stderr,
		Service: "tvcaps",
		Version: version,
	})
	logger := tvlog.WithComponent("cli")

	rep, err := platform.LoadReport(*reportPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Report error in %s:\n  %v\n", *reportPath, err)
		return 1
	}

	doc := profile.NewBuilder(probe.New(platform.FromReport(rep))).Build(context.Background(), nil)
	if err := profile.Validate(*doc); err != nil {
		_, _ = fmt.Fprintf(stderr, "Assembled profile is inconsistent: %v\n", err)
		return 1
	}

	body, err := profile.Render(*doc, cfg.Output.Indent && !*compact)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Render error: %v\n", err)
		return 1
	}

	if *outPath == "" {
		if _, err := stdout.Write(body); err != nil {
			return 1
		}
	} else if err := writeAtomic(*outPath, body); err != nil {
		_, _ = fmt.Fprintf(stderr, "Write error: %v\n", err)
		return 1
	}

	logger.Info().
		Str(tvlog.FieldEvent, "profile.written").
		Str(tvlog.FieldPath, *reportPath).
		Str(tvlog.FieldFingerprint, doc.Fingerprint()).
		Msg("profile built")
	return 0
}

// writeAtomic replaces path with data using a synced temp file and rename.
func writeAtomic(path string, data []byte) error {
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending profile file: %w", err)
	}
	defer func() { _ = pendingFile.Cleanup() }()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write profile data: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace profile file: %w", err)
	}
	return nil
}
