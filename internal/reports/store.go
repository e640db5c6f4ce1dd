// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package reports serves rendered profiles for devices whose capability
// reports are stored on disk as <device>.yaml.
package reports

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	tvlog "github.com/ManuGH/tvcaps/internal/log"
	"github.com/ManuGH/tvcaps/internal/metrics"
	"github.com/ManuGH/tvcaps/internal/platform"
)

const reportExt = ".yaml"

// ErrInvalidDevice rejects device names that could escape the reports directory.
var ErrInvalidDevice = errors.New("invalid device name")

var deviceNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidDeviceName reports whether name is usable as a report file stem.
func ValidDeviceName(name string) bool {
	return name != "." && name != ".." && deviceNamePattern.MatchString(name)
}

// Rendered is a serialized profile ready to serve.
type Rendered struct {
	Body        []byte
	Fingerprint string
}

// BuildFunc turns a report into a rendered profile.
type BuildFunc func(ctx context.Context, rep platform.Report) (Rendered, error)

// Store loads device reports on demand. While watching, rendered profiles are
// cached until the report file changes.
type Store struct {
	dir    string
	build  BuildFunc
	logger zerolog.Logger

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]Rendered
	gens    map[string]uint64
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewStore creates a store over dir. Nothing is cached until Watch succeeds.
func NewStore(dir string, build BuildFunc) *Store {
	return &Store{
		dir:     dir,
		build:   build,
		logger:  tvlog.WithComponent("reports"),
		entries: make(map[string]Rendered),
		gens:    make(map[string]uint64),
	}
}

// Path returns the report file backing device.
func (s *Store) Path(device string) string {
	return filepath.Join(s.dir, device+reportExt)
}

type flight struct {
	rendered Rendered
	gen      uint64
}

// Get returns the rendered profile for device. A missing report yields an
// error matching fs.ErrNotExist; a malformed one matches platform.ErrInvalidReport.
func (s *Store) Get(ctx context.Context, device string) (Rendered, error) {
	if !ValidDeviceName(device) {
		return Rendered{}, fmt.Errorf("%w: %q", ErrInvalidDevice, device)
	}

	s.mu.Lock()
	caching := s.watcher != nil
	if r, ok := s.entries[device]; ok && caching {
		s.mu.Unlock()
		metrics.RecordReportCacheLookup(true)
		return r, nil
	}
	s.mu.Unlock()
	if caching {
		metrics.RecordReportCacheLookup(false)
	}

	v, err, _ := s.group.Do(device, func() (any, error) {
		s.mu.Lock()
		gen := s.gens[device]
		s.mu.Unlock()

		rep, err := platform.LoadReport(s.Path(device))
		if err != nil {
			return nil, err
		}
		r, err := s.build(ctx, rep)
		if err != nil {
			return nil, err
		}
		return flight{rendered: r, gen: gen}, nil
	})
	if err != nil {
		return Rendered{}, err
	}

	f := v.(flight)
	s.mu.Lock()
	// A change seen while building makes the result stale for later callers.
	if s.watcher != nil && s.gens[device] == f.gen {
		s.entries[device] = f.rendered
	}
	s.mu.Unlock()
	return f.rendered, nil
}

// Invalidate drops the cached profile of device.
func (s *Store) Invalidate(device string) {
	s.mu.Lock()
	_, cached := s.entries[device]
	delete(s.entries, device)
	s.gens[device]++
	s.mu.Unlock()

	if cached {
		metrics.RecordReportInvalidation()
		s.logger.Debug().
			Str(tvlog.FieldEvent, "reports.invalidated").
			Str(tvlog.FieldDevice, device).
			Msg("report changed, cached profile dropped")
	}
}

// Watch starts caching and watches the reports directory until ctx is done or
// Close is called.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch reports dir %s: %w", s.dir, err)
	}

	s.mu.Lock()
	if s.watcher != nil {
		s.mu.Unlock()
		_ = watcher.Close()
		return errors.New("reports store is already watching")
	}
	s.watcher = watcher
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	s.logger.Info().
		Str(tvlog.FieldEvent, "reports.watcher_started").
		Str(tvlog.FieldPath, s.dir).
		Msg("watching reports directory")

	go s.watchLoop(ctx, watcher, done)
	return nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	defer s.stopCaching(watcher)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Str(tvlog.FieldEvent, "reports.watcher_stopped").Msg("reports watcher stopped")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, reportExt) {
				continue
			}
			s.Invalidate(strings.TrimSuffix(name, reportExt))

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error().
				Err(err).
				Str(tvlog.FieldEvent, "reports.watcher_error").
				Msg("reports watcher error")
		}
	}
}

// stopCaching closes watcher and empties the cache if watcher is still current.
func (s *Store) stopCaching(watcher *fsnotify.Watcher) {
	_ = watcher.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher == watcher {
		s.watcher = nil
		s.entries = make(map[string]Rendered)
	}
}

// Close stops watching and waits for the watcher goroutine to exit.
func (s *Store) Close() error {
	s.mu.Lock()
	watcher, done := s.watcher, s.done
	s.mu.Unlock()
	if watcher == nil {
		return nil
	}
	err := watcher.Close()
	<-done
	return err
}

// Watching reports whether profiles are currently cached.
func (s *Store) Watching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watcher != nil
}
