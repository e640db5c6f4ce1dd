// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

import (
	"strconv"
	"strings"

	"github.com/ManuGH/tvcaps/internal/probe"
)

// capability pairs a codec or format name with the fact that enables it.
type capability struct {
	name string
	has  func(probe.Facts) bool
}

func always(probe.Facts) bool { return true }

// pick returns the names of every capability the facts enable, in table order.
func pick(f probe.Facts, table []capability) []string {
	out := make([]string, 0, len(table))
	for _, c := range table {
		if c.has(f) {
			out = append(out, c.name)
		}
	}
	return out
}

func join(names []string) string { return strings.Join(names, ",") }

// videoAudioCodecs is the audio allow-list for video containers. FLAC is kept out
// of video containers on Tizen: muxed FLAC drifts out of sync there, while FLAC
// files play fine as audio-only direct play.
var videoAudioCodecs = []capability{
	{name: "aac", has: always},
	{name: "mp3", has: always},
	{name: "ac3", has: func(f probe.Facts) bool { return f.AC3 }},
	{name: "eac3", has: func(f probe.Facts) bool { return f.EAC3 }},
	{name: "dca,dts", has: func(f probe.Facts) bool { return f.DTS }},
	{name: "opus", has: func(f probe.Facts) bool { return f.Opus }},
	{name: "flac", has: func(f probe.Facts) bool { return f.FLAC && !f.IsTizen() }},
	{name: "pcm_s16le,pcm_s24le", has: func(f probe.Facts) bool { return f.PCM }},
}

var (
	capH264 = capability{name: "h264", has: func(f probe.Facts) bool { return f.H264 }}
	capHEVC = capability{name: "hevc", has: func(f probe.Facts) bool { return f.HEVC }}
	capAV1  = capability{name: "av1", has: func(f probe.Facts) bool { return f.AV1 }}
	capVP8  = capability{name: "vp8", has: func(f probe.Facts) bool { return f.VP8 }}
	capVP9  = capability{name: "vp9", has: func(f probe.Facts) bool { return f.VP9 }}
)

// videoContainer is one direct-play video container. A nil audio table uses
// videoAudioCodecs.
type videoContainer struct {
	container string
	offered   func(probe.Facts) bool
	video     []capability
	audio     []capability
}

var videoContainers = []videoContainer{
	{
		container: "mp4,m4v",
		offered:   always,
		video:     []capability{capH264, capHEVC, capAV1, capVP9},
	},
	{
		container: "mkv",
		offered:   func(f probe.Facts) bool { return f.MKV },
		video:     []capability{capH264, capHEVC, capAV1, capVP8, capVP9},
	},
	{
		container: "ts,mpegts",
		offered:   func(f probe.Facts) bool { return f.TS },
		video:     []capability{capH264, capHEVC},
	},
	{
		container: "webm",
		offered:   always,
		video:     []capability{capVP8, capVP9, capAV1},
		audio: []capability{
			{name: "vorbis", has: func(f probe.Facts) bool { return f.Vorbis }},
			{name: "opus", has: func(f probe.Facts) bool { return f.Opus }},
		},
	},
}

// audioFormat is one standalone audio file format.
type audioFormat struct {
	container string
	codec     string
	has       func(probe.Facts) bool
}

var audioFormats = []audioFormat{
	{container: "ogg", codec: "opus", has: func(f probe.Facts) bool { return f.Opus }},
	{container: "mp3", has: func(f probe.Facts) bool { return f.MP3 }},
	{container: "aac,m4a,m4b", codec: "aac", has: func(f probe.Facts) bool { return f.AAC }},
	{container: "flac", has: func(f probe.Facts) bool { return f.FLAC }},
	{container: "m4a", codec: "alac", has: func(f probe.Facts) bool { return f.ALAC }},
	{container: "webma,webm", has: func(f probe.Facts) bool { return f.WebMA }},
	{container: "wav", has: func(f probe.Facts) bool { return f.WAV }},
	{container: "ogg,oga", codec: "vorbis", has: func(f probe.Facts) bool { return f.Vorbis }},
}

// streamingAudio lists http audio transcode targets; container defaults to the codec.
var streamingAudio = []audioFormat{
	{codec: "aac", has: func(f probe.Facts) bool { return f.AAC }},
	{codec: "mp3", has: func(f probe.Facts) bool { return f.MP3 }},
	{container: "ogg", codec: "opus", has: func(f probe.Facts) bool { return f.Opus }},
	{codec: "wav", has: func(f probe.Facts) bool { return f.WAV }},
}

var hlsAudioCodecs = []capability{
	{name: "aac", has: func(f probe.Facts) bool { return f.AAC }},
	{name: "mp3", has: func(f probe.Facts) bool { return f.MP3 }},
	{name: "ac3", has: func(f probe.Facts) bool { return f.AC3 }},
	{name: "eac3", has: func(f probe.Facts) bool { return f.EAC3 }},
}

// HEVC segments need the fMP4 transport.
var hlsVideoCodecs = []capability{
	capH264,
	{name: "hevc", has: func(f probe.Facts) bool { return f.HEVC && f.HLSInFMP4 }},
}

// Range types. SDR is always present; the HDR family follows the panel facts.
const rangeSDR = "SDR"

var hdrRangeTypes = []capability{
	{name: "HDR10", has: func(f probe.Facts) bool { return f.HDR10 }},
	{name: "HDR10Plus", has: func(f probe.Facts) bool { return f.HDR10Plus }},
	{name: "HLG", has: func(f probe.Facts) bool { return f.HLG }},
}

// DolbyVisionFallbackRangeTypes are accepted for their base layer only.
var DolbyVisionFallbackRangeTypes = []string{
	"DOVIWithHDR10",
	"DOVIWithHDR10Plus",
	"DOVIWithSDR",
	"DOVIWithHLG",
	"DOVIWithEL",
	"DOVIWithELHDR10Plus",
	"DOVIInvalid",
}

// rangeTypes folds SDR, the HDR table and the Dolby Vision fallback policy.
func rangeTypes(f probe.Facts) []string {
	out := append([]string{rangeSDR}, pick(f, hdrRangeTypes)...)
	if f.DolbyVisionFallback {
		out = append(out, DolbyVisionFallbackRangeTypes...)
	}
	return out
}

// codecSpec describes the conditions of one per-codec rule.
type codecSpec struct {
	codec      string
	enabled    func(probe.Facts) bool
	profiles   func(probe.Facts) []string
	rangeTypes func(probe.Facts) []string
	level      func(probe.Facts) int
}

var codecSpecs = []codecSpec{
	{
		codec:      "h264",
		enabled:    capH264.has,
		profiles:   fixed("high", "main", "baseline", "constrained baseline"),
		rangeTypes: fixed(rangeSDR),
		level:      func(f probe.Facts) int { return f.H264Level },
	},
	{
		codec:   "hevc",
		enabled: capHEVC.has,
		profiles: func(f probe.Facts) []string {
			if f.HEVCMain10 || f.IsTizen() {
				return []string{"main", "main 10"}
			}
			return []string{"main"}
		},
		rangeTypes: rangeTypes,
		level:      func(f probe.Facts) int { return f.HEVCLevel },
	},
	{
		codec:      "av1",
		enabled:    capAV1.has,
		profiles:   fixed("main"),
		rangeTypes: rangeTypes,
		level:      func(probe.Facts) int { return AV1Level },
	},
}

func fixed(values ...string) func(probe.Facts) []string {
	return func(probe.Facts) []string { return values }
}

// codecRule builds one codec rule. The bitrate ceiling is required here because
// exceeding it on a decoded codec fails playback outright.
func codecRule(spec codecSpec, f probe.Facts) CodecProfile {
	conds := []Condition{
		equalsAny(PropVideoProfile, spec.profiles(f)),
		equalsAny(PropVideoRangeType, spec.rangeTypes(f)),
		lessThanEqual(PropVideoLevel, spec.level(f), false),
	}
	if f.MaxVideoBitrate != nil {
		conds = append(conds, lessThanEqual(PropVideoBitrate, *f.MaxVideoBitrate, true))
	}
	return CodecProfile{Type: TypeVideo, Codec: spec.codec, Conditions: conds}
}

func equalsAny(prop Property, values []string) Condition {
	return Condition{Condition: EqualsAny, Property: prop, Value: strings.Join(values, "|")}
}

func lessThanEqual(prop Property, v int, required bool) Condition {
	return Condition{Condition: LessThanEqual, Property: prop, Value: strconv.Itoa(v), IsRequired: required}
}

var textSubtitles = []string{"vtt", "srt", "ass", "ssa"}

// Bitmap formats are burned in; the runtime cannot render them.
var bitmapSubtitles = []string{"pgs", "pgssub", "dvdsub", "vobsub", "dvbsub", "sub"}
