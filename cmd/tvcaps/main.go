// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// SPDX-License-Identifier: MIT

// tvcaps builds playback negotiation profiles from captured device reports.
//
// Usage:
//
//	tvcaps build -report tv.yaml [-out profile.json] [-config config.yaml]
//	tvcaps serve [-config config.yaml]
//	tvcaps config validate -f config.yaml
//	tvcaps version
package main

import (
	"fmt"
	"io"
	"os"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stderr)
		return 2
	}

	switch args[0] {
	case "build":
		return runBuild(args[1:], stdout, stderr)
	case "serve":
		return runServe(args[1:], stderr)
	case "config":
		return runConfigCLI(args[1:], stdout, stderr)
	case "version", "-version", "--version":
		_, _ = fmt.Fprintf(stdout, "%s (commit: %s, built: %s)\n", version, commit, buildDate)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  tvcaps build -report tv.yaml [-out profile.json] [-config config.yaml]")
	_, _ = fmt.Fprintln(w, "  tvcaps serve [-config config.yaml]")
	_, _ = fmt.Fprintln(w, "  tvcaps config validate -f config.yaml")
	_, _ = fmt.Fprintln(w, "  tvcaps version")
}
