// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	tvlog "github.com/ManuGH/tvcaps/internal/log"
	"github.com/ManuGH/tvcaps/internal/metrics"
	"github.com/ManuGH/tvcaps/internal/probe"
	"github.com/ManuGH/tvcaps/internal/telemetry"
)

const tracerName = "tvcaps.profile"

// Builder produces negotiation documents for one probe context.
type Builder struct {
	probe  *probe.Context
	logger zerolog.Logger
}

// NewBuilder returns a builder reading capabilities from pc.
func NewBuilder(pc *probe.Context) *Builder {
	return &Builder{
		probe:  pc,
		logger: tvlog.WithComponent("profile"),
	}
}

// Build samples the runtime once and assembles a fresh document. It never
// fails: probe failures only make the document more conservative.
func (b *Builder) Build(ctx context.Context, _ *Options) *Document {
	_, span := telemetry.Tracer(tracerName).Start(ctx, "profile.build")
	defer span.End()

	facts := b.probe.Collect()
	doc := Assemble(facts)

	span.SetAttributes(telemetry.PlatformAttributes(string(facts.Platform), facts.Version)...)
	span.SetAttributes(telemetry.RuleCountAttributes(len(doc.DirectPlayProfiles), len(doc.TranscodingProfiles), len(doc.CodecProfiles))...)
	if facts.MaxVideoBitrate != nil {
		span.SetAttributes(attribute.Int(telemetry.BitrateCeilingKey, *facts.MaxVideoBitrate))
	}

	metrics.RecordProfileBuild(string(facts.Platform))

	logger := tvlog.WithContext(ctx, b.logger)
	logger.Debug().
		Str(tvlog.FieldEvent, "profile.built").
		Str(tvlog.FieldPlatform, string(facts.Platform)).
		Float64(tvlog.FieldVersion, facts.Version).
		Int("direct_play_rules", len(doc.DirectPlayProfiles)).
		Int("transcoding_rules", len(doc.TranscodingProfiles)).
		Int("codec_rules", len(doc.CodecProfiles)).
		Msg("negotiation profile built")

	return &doc
}
