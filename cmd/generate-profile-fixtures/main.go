// generate-profile-fixtures renders a profile for every report in a directory
// and records a sha256 manifest, so rule changes show up as fixture drift.
//
// Fixtures are not checked in. Run the generator once to write the baseline
// (`go generate ./cmd/generate-profile-fixtures`), then use -check in CI to
// catch drift against it.
package main

//go:generate go run . -reports ../../testdata/reports -fixtures ../../testdata/profiles -manifest ../../testdata/profiles/MANIFEST.json

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ManuGH/tvcaps/internal/platform"
	"github.com/ManuGH/tvcaps/internal/probe"
	"github.com/ManuGH/tvcaps/internal/profile"
)

const manifestVersion = "tvcaps-profile-baseline-v1"

var errNoBaseline = errors.New("no fixture baseline")

type Manifest struct {
	Version      string            `json:"version"`
	Hashes       map[string]string `json:"hashes"`       // fixture file -> sha256 hex of its bytes
	Fingerprints map[string]string `json:"fingerprints"` // fixture file -> document fingerprint
}

func main() {
	var (
		reportsDir   = flag.String("reports", "testdata/reports", "directory containing device reports")
		fixturesDir  = flag.String("fixtures", "testdata/profiles", "directory receiving rendered profiles")
		manifestPath = flag.String("manifest", "testdata/profiles/MANIFEST.json", "output manifest path")
		check        = flag.Bool("check", false, "check mode: do not modify, fail on drift against a previously generated baseline")
	)
	flag.Parse()

	n, err := generate(*reportsDir, *fixturesDir, *manifestPath, *check)
	if err != nil {
		fail(err.Error())
	}
	fmt.Printf("OK: %d fixtures processed. mode=%s\n", n, ternary(*check, "check", "write"))
}

func generate(reportsDir, fixturesDir, manifestPath string, check bool) (int, error) {
	reports, err := filepath.Glob(filepath.Join(reportsDir, "*.yaml"))
	if err != nil {
		return 0, err
	}
	if len(reports) == 0 {
		return 0, fmt.Errorf("no reports found in %s", reportsDir)
	}
	sort.Strings(reports)

	if check {
		if _, err := os.Stat(manifestPath); err != nil {
			return 0, fmt.Errorf("%w: %s (run generator without -check first)", errNoBaseline, manifestPath)
		}
	}

	if !check {
		if err := os.MkdirAll(fixturesDir, 0o755); err != nil {
			return 0, err
		}
		if err := os.MkdirAll(filepath.Dir(manifestPath), 0o755); err != nil {
			return 0, err
		}
	}

	manifest := Manifest{
		Version:      manifestVersion,
		Hashes:       make(map[string]string, len(reports)),
		Fingerprints: make(map[string]string, len(reports)),
	}
	ctx := context.Background()

	for _, path := range reports {
		rep, err := platform.LoadReport(path)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		doc := profile.NewBuilder(probe.New(platform.FromReport(rep))).Build(ctx, nil)
		if err := profile.Validate(*doc); err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		body, err := profile.Render(*doc, true)
		if err != nil {
			return 0, err
		}

		fileName := strings.TrimSuffix(filepath.Base(path), ".yaml") + ".json"
		if err := writeOrCompare(filepath.Join(fixturesDir, fileName), body, check); err != nil {
			return 0, err
		}

		sum := sha256.Sum256(body)
		manifest.Hashes[fileName] = hex.EncodeToString(sum[:])
		manifest.Fingerprints[fileName] = doc.Fingerprint()
	}

	manifestJSON, err := marshalCanonical(manifest)
	if err != nil {
		return 0, err
	}
	if err := writeOrCompare(manifestPath, manifestJSON, check); err != nil {
		return 0, err
	}
	return len(reports), nil
}

func writeOrCompare(path string, data []byte, check bool) error {
	if !check {
		return os.WriteFile(path, data, 0o644)
	}
	existing, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("fixture missing: %s (run generator without -check)", path)
	}
	if !bytes.Equal(bytes.TrimSpace(existing), bytes.TrimSpace(data)) {
		return fmt.Errorf("fixture drift: %s (run generator without -check and commit)", path)
	}
	return nil
}

func marshalCanonical(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

func fail(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, "FAIL:", msg)
	os.Exit(1)
}
