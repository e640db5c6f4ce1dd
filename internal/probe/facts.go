// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package probe

import (
	tvlog "github.com/ManuGH/tvcaps/internal/log"
)

// Facts is a point-in-time snapshot of runtime capabilities. It is a plain value:
// copying it copies every fact, and nothing in it changes after Collect returns.
type Facts struct {
	Platform Platform
	Version  float64

	// Video decode
	H264       bool
	HEVC       bool
	HEVCMain10 bool
	AV1        bool
	VP8        bool
	VP9        bool

	// Containers and delivery
	MKV         bool
	TS          bool
	NativeHLS   bool
	MediaSource bool
	HLS         bool
	HLSInFMP4   bool

	// Audio decode
	AAC    bool
	MP3    bool
	AC3    bool
	EAC3   bool
	DTS    bool
	FLAC   bool
	Opus   bool
	Vorbis bool
	ALAC   bool
	WAV    bool
	WebMA  bool
	PCM    bool

	// Dynamic range
	HDR10     bool
	HDR10Plus bool
	HLG       bool
	// DolbyVision is true Dolby Vision decode. No supported platform has it.
	DolbyVision bool
	// DolbyVisionFallback accepts DV streams for their base layer.
	DolbyVisionFallback bool

	// Ceilings
	H264Level     int
	HEVCLevel     int
	AudioChannels int
	// MaxVideoBitrate in bits/s; nil means unlimited.
	MaxVideoBitrate *int
}

// IsTizen reports whether the facts were collected on the TV platform.
func (f Facts) IsTizen() bool { return f.Platform == PlatformTizen }

// Collect samples every capability once. The platform identity is read first
// and shared by all probes so the snapshot is internally consistent.
func (c *Context) Collect() Facts {
	id := c.identify()

	f := Facts{
		Platform: id.platform,
		Version:  id.version,

		H264: c.h264(),
		HEVC: c.hevc(id),
		AV1:  c.av1(id),
		VP8:  c.vp8(),
		VP9:  c.vp9(),

		MKV:         c.mkv(id),
		TS:          id.tizen(),
		NativeHLS:   c.nativeHLS(id),
		MediaSource: c.mediaSource(),
		HLS:         c.supportsHLS(id),
		HLSInFMP4:   c.hlsInFMP4(id),

		AAC:    c.aac(),
		MP3:    c.mp3(),
		AC3:    c.ac3(id),
		EAC3:   c.eac3(id),
		DTS:    c.dts(id),
		FLAC:   c.flac(id),
		Opus:   c.opus(),
		Vorbis: c.vorbis(),
		ALAC:   c.alac(),
		WAV:    c.wav(),
		WebMA:  c.webma(),
		PCM:    c.pcm(id),

		HDR10:               c.hdr10(id),
		HDR10Plus:           c.hdr10Plus(id),
		HLG:                 c.hlg(id),
		DolbyVision:         false,
		DolbyVisionFallback: c.dolbyVisionFallback(id),

		H264Level:       c.h264Level(id),
		AudioChannels:   c.audioChannels(id),
		MaxVideoBitrate: c.maxVideoBitrate(id),
	}
	f.HEVCMain10 = c.hevcMain10(id)
	f.HEVCLevel = c.hevcLevel(id, f.HEVCMain10)

	c.logger.Debug().
		Str(tvlog.FieldEvent, "probe.collected").
		Str(tvlog.FieldPlatform, string(f.Platform)).
		Float64(tvlog.FieldVersion, f.Version).
		Bool("h264", f.H264).
		Bool("hevc", f.HEVC).
		Bool("av1", f.AV1).
		Bool("hls", f.HLS).
		Msg("capabilities collected")

	return f
}
