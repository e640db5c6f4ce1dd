// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

import (
	"strconv"

	"github.com/ManuGH/tvcaps/internal/probe"
)

// containerCapVersion is the first Tizen release whose demuxer handles more than
// MaxStreams streams.
const containerCapVersion = 6.5

// Assemble derives the negotiation document from a capability snapshot. It is
// pure: identical facts always yield identical documents.
func Assemble(f probe.Facts) Document {
	doc := newDocument()
	channels := strconv.Itoa(f.AudioChannels)

	videoAudio := join(pick(f, videoAudioCodecs))
	for _, c := range videoContainers {
		if !c.offered(f) {
			continue
		}
		video := pick(f, c.video)
		if len(video) == 0 {
			continue
		}
		audio := videoAudio
		if c.audio != nil {
			names := pick(f, c.audio)
			if len(names) == 0 {
				continue
			}
			audio = join(names)
		}
		doc.DirectPlayProfiles = append(doc.DirectPlayProfiles, DirectPlayProfile{
			Container:  c.container,
			Type:       TypeVideo,
			VideoCodec: join(video),
			AudioCodec: audio,
		})
	}

	for _, a := range audioFormats {
		if !a.has(f) {
			continue
		}
		doc.DirectPlayProfiles = append(doc.DirectPlayProfiles, DirectPlayProfile{
			Container:  a.container,
			Type:       TypeAudio,
			AudioCodec: a.codec,
		})
	}

	appendDelivery(&doc, f, channels)

	if f.IsTizen() && f.Version < containerCapVersion {
		doc.ContainerProfiles = append(doc.ContainerProfiles, ContainerProfile{
			Type:       TypeVideo,
			Conditions: []Condition{lessThanEqual(PropNumStreams, MaxStreams, false)},
		})
	}

	for _, spec := range codecSpecs {
		if spec.enabled(f) {
			doc.CodecProfiles = append(doc.CodecProfiles, codecRule(spec, f))
		}
	}
	if f.MaxVideoBitrate != nil {
		doc.CodecProfiles = append(doc.CodecProfiles, CodecProfile{
			Type:       TypeVideo,
			Conditions: []Condition{lessThanEqual(PropVideoBitrate, *f.MaxVideoBitrate, false)},
		})
	}
	doc.CodecProfiles = append(doc.CodecProfiles, CodecProfile{
		Type:       TypeVideoAudio,
		Conditions: []Condition{lessThanEqual(PropAudioChannels, f.AudioChannels, false)},
	})

	for _, s := range textSubtitles {
		doc.SubtitleProfiles = append(doc.SubtitleProfiles, SubtitleProfile{Format: s, Method: SubtitleExternal})
	}
	for _, s := range bitmapSubtitles {
		doc.SubtitleProfiles = append(doc.SubtitleProfiles, SubtitleProfile{Format: s, Method: SubtitleEncode})
	}

	doc.ResponseProfiles = append(doc.ResponseProfiles, ResponseProfile{
		Type:      TypeVideo,
		Container: "m4v",
		MimeType:  "video/mp4",
	})

	return doc
}

// appendDelivery adds the segmented-streaming rules, or the progressive fallback
// when HLS cannot be played, followed by the http audio transcode targets.
func appendDelivery(doc *Document, f probe.Facts, channels string) {
	if f.HLS {
		segment := "ts"
		if f.HLSInFMP4 {
			segment = "mp4"
		}
		video := join(pick(f, hlsVideoCodecs))
		audio := join(pick(f, hlsAudioCodecs))

		if video != "" && audio != "" {
			doc.DirectPlayProfiles = append(doc.DirectPlayProfiles, DirectPlayProfile{
				Container:  "hls",
				Type:       TypeVideo,
				VideoCodec: video,
				AudioCodec: audio,
			})
		}
		if audio != "" {
			doc.TranscodingProfiles = append(doc.TranscodingProfiles, TranscodingProfile{
				Container:           segment,
				Type:                TypeAudio,
				AudioCodec:          audio,
				Context:             ContextStreaming,
				Protocol:            ProtocolHLS,
				MaxAudioChannels:    channels,
				MinSegments:         1,
				BreakOnNonKeyFrames: true,
			})
		}
		if video != "" && audio != "" {
			doc.TranscodingProfiles = append(doc.TranscodingProfiles, TranscodingProfile{
				Container:           segment,
				Type:                TypeVideo,
				VideoCodec:          video,
				AudioCodec:          audio,
				Context:             ContextStreaming,
				Protocol:            ProtocolHLS,
				MaxAudioChannels:    channels,
				MinSegments:         1,
				BreakOnNonKeyFrames: true,
			})
		}
	} else if f.H264 {
		doc.TranscodingProfiles = append(doc.TranscodingProfiles, TranscodingProfile{
			Container:        "mp4",
			Type:             TypeVideo,
			VideoCodec:       "h264",
			AudioCodec:       "aac",
			Context:          ContextStreaming,
			Protocol:         ProtocolHTTP,
			MaxAudioChannels: channels,
		})
	}

	for _, a := range streamingAudio {
		if !a.has(f) {
			continue
		}
		container := a.container
		if container == "" {
			container = a.codec
		}
		for _, ctx := range []EncodingContext{ContextStreaming, ContextStatic} {
			doc.TranscodingProfiles = append(doc.TranscodingProfiles, TranscodingProfile{
				Container:        container,
				Type:             TypeAudio,
				AudioCodec:       a.codec,
				Context:          ctx,
				Protocol:         ProtocolHTTP,
				MaxAudioChannels: channels,
			})
		}
	}
}
