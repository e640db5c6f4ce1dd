// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package probe queries a playback runtime for codec, container and display
// capabilities and reduces the answers to a Facts snapshot.
//
// Every query is guarded: a missing API, an error or a panic in the adapter
// degrades to "capability absent" and is logged and counted, never returned.
package probe

import (
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	tvlog "github.com/ManuGH/tvcaps/internal/log"
	"github.com/ManuGH/tvcaps/internal/metrics"
	"github.com/ManuGH/tvcaps/internal/platform"
)

const hlsCacheKey = "hls"

// Context owns the probe state for one runtime: the lazily created query element
// and the HLS support memo. Independent contexts share nothing.
//
// A Context is safe for concurrent use.
type Context struct {
	adapter platform.Adapter
	logger  zerolog.Logger

	mu          sync.Mutex
	element     platform.MediaElement
	elementDone bool
	hls         *bool

	sf singleflight.Group
}

// Option configures a Context.
type Option func(*Context)

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// New creates an isolated probe context for adapter.
func New(adapter platform.Adapter, opts ...Option) *Context {
	c := &Context{
		adapter: adapter,
		logger:  tvlog.WithComponent("probe"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reset drops the cached media element and the HLS memo.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.element = nil
	c.elementDone = false
	c.hls = nil
	c.sf.Forget(hlsCacheKey)
}

// SupportsHLS reports whether the runtime can build an HLS playback pipeline,
// natively or through the segment-source API. The first answer is kept for the
// lifetime of the Context.
func (c *Context) SupportsHLS() bool {
	return c.supportsHLS(c.identify())
}

func (c *Context) supportsHLS(id identity) bool {
	c.mu.Lock()
	if c.hls != nil {
		v := *c.hls
		c.mu.Unlock()
		metrics.RecordCacheLookup(true)
		return v
	}
	c.mu.Unlock()
	metrics.RecordCacheLookup(false)

	v, _, _ := c.sf.Do(hlsCacheKey, func() (any, error) {
		supported := c.nativeHLS(id) || c.mediaSource()

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.hls != nil {
			return *c.hls, nil
		}
		c.hls = &supported
		return supported, nil
	})
	return v.(bool)
}

// mediaElement returns the query element, creating it on first use. A failed
// creation is remembered until Reset; every codec query then reports absent.
func (c *Context) mediaElement() platform.MediaElement {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.elementDone {
		return c.element
	}
	c.elementDone = true
	c.element = attempt[platform.MediaElement](c, "media_element", "", nil, c.adapter.NewMediaElement)
	return c.element
}

// canPlay asks the native capability query. Any answer other than "" or "no"
// counts as playable.
func (c *Context) canPlay(contentType string) bool {
	el := c.mediaElement()
	if el == nil {
		return false
	}
	answer := attempt(c, "can_play_type", contentType, "", func() (string, error) {
		return el.CanPlayType(contentType)
	})
	answer = strings.TrimSpace(strings.Replace(answer, "no", "", 1))
	return answer != ""
}

func (c *Context) canPlayAny(contentTypes ...string) bool {
	for _, ct := range contentTypes {
		if c.canPlay(ct) {
			return true
		}
	}
	return false
}

func (c *Context) mediaSource() bool {
	return attempt(c, "media_source", "", false, func() (bool, error) {
		return c.adapter.HasMediaSource(), nil
	})
}

// attempt runs one adapter query and degrades every failure to fallback.
func attempt[T any](c *Context, probe, query string, fallback T, fn func() (T, error)) (out T) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn().
				Str(tvlog.FieldEvent, "probe.panic").
				Str(tvlog.FieldProbe, probe).
				Str(tvlog.FieldQuery, query).
				Interface("panic", r).
				Msg("capability probe panicked, treating as absent")
			metrics.RecordProbeFailure(probe, metrics.FailurePanic)
			out = fallback
		}
	}()

	v, err := fn()
	if err == nil {
		return v
	}
	if errors.Is(err, platform.ErrUnavailable) {
		c.logger.Debug().
			Str(tvlog.FieldEvent, "probe.unavailable").
			Str(tvlog.FieldProbe, probe).
			Msg("platform api unavailable")
		metrics.RecordProbeFailure(probe, metrics.FailureUnavailable)
		return fallback
	}
	c.logger.Warn().
		Err(err).
		Str(tvlog.FieldEvent, "probe.error").
		Str(tvlog.FieldProbe, probe).
		Str(tvlog.FieldQuery, query).
		Msg("capability probe failed, treating as absent")
	metrics.RecordProbeFailure(probe, metrics.FailureError)
	return fallback
}
