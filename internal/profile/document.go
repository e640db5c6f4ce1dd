// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package profile assembles the device profile a media server uses to choose
// between direct play, remux and transcode.
package profile

// Fixed bitrate envelope advertised with every document, in bits/s.
const (
	MaxStreamingBitrate              = 120_000_000
	MaxStaticBitrate                 = 100_000_000
	MusicStreamingTranscodingBitrate = 384_000
)

// MaxStreams is the demuxer stream-count cap advertised for older TV releases.
const MaxStreams = 32

// AV1Level is the fixed AV1 level ceiling.
const AV1Level = 15

// MediaType scopes a rule to video files, audio files, or the audio track of a video.
type MediaType string

const (
	TypeVideo      MediaType = "Video"
	TypeAudio      MediaType = "Audio"
	TypeVideoAudio MediaType = "VideoAudio"
)

// Operator is a condition comparison understood by the server.
type Operator string

const (
	LessThanEqual Operator = "LessThanEqual"
	EqualsAny     Operator = "EqualsAny"
)

// Property names a media attribute a condition tests.
type Property string

const (
	PropVideoProfile   Property = "VideoProfile"
	PropVideoRangeType Property = "VideoRangeType"
	PropVideoLevel     Property = "VideoLevel"
	PropVideoBitrate   Property = "VideoBitrate"
	PropAudioChannels  Property = "AudioChannels"
	PropNumStreams     Property = "NumStreams"
)

// Protocol is a transcoding delivery protocol.
type Protocol string

const (
	ProtocolHTTP Protocol = "http"
	ProtocolHLS  Protocol = "hls"
)

// EncodingContext tells the server whether a transcode target is streamed or saved.
type EncodingContext string

const (
	ContextStreaming EncodingContext = "Streaming"
	ContextStatic    EncodingContext = "Static"
)

// SubtitleMethod is how a subtitle format reaches the screen.
type SubtitleMethod string

const (
	SubtitleExternal SubtitleMethod = "External"
	SubtitleEncode   SubtitleMethod = "Encode"
)

// Condition is one constraint on a media attribute. Required conditions force
// a transcode when the media fails them; advisory ones only rank variants.
type Condition struct {
	Condition  Operator `json:"Condition"`
	Property   Property `json:"Property"`
	Value      string   `json:"Value"`
	IsRequired bool     `json:"IsRequired"`
}

// DirectPlayProfile declares a container and codec combination the device
// plays without server involvement.
type DirectPlayProfile struct {
	Container  string    `json:"Container"`
	Type       MediaType `json:"Type"`
	VideoCodec string    `json:"VideoCodec,omitempty"`
	AudioCodec string    `json:"AudioCodec,omitempty"`
}

// TranscodingProfile declares a target format the device plays if the server
// converts to it.
type TranscodingProfile struct {
	Container           string          `json:"Container"`
	Type                MediaType       `json:"Type"`
	VideoCodec          string          `json:"VideoCodec,omitempty"`
	AudioCodec          string          `json:"AudioCodec,omitempty"`
	Context             EncodingContext `json:"Context"`
	Protocol            Protocol        `json:"Protocol"`
	MaxAudioChannels    string          `json:"MaxAudioChannels"`
	MinSegments         int             `json:"MinSegments,omitempty"`
	BreakOnNonKeyFrames bool            `json:"BreakOnNonKeyFrames,omitempty"`
}

// ContainerProfile constrains a media type independently of codec.
type ContainerProfile struct {
	Type       MediaType   `json:"Type"`
	Container  string      `json:"Container,omitempty"`
	Conditions []Condition `json:"Conditions"`
}

// CodecProfile constrains one codec, or every codec of Type when Codec is empty.
type CodecProfile struct {
	Type       MediaType   `json:"Type"`
	Codec      string      `json:"Codec,omitempty"`
	Conditions []Condition `json:"Conditions"`
}

// SubtitleProfile maps a subtitle format to its delivery method.
type SubtitleProfile struct {
	Format string         `json:"Format"`
	Method SubtitleMethod `json:"Method"`
}

// ResponseProfile labels responses for extensions the runtime mis-detects.
type ResponseProfile struct {
	Type      MediaType `json:"Type"`
	Container string    `json:"Container"`
	MimeType  string    `json:"MimeType"`
}

// Document is the negotiation document sent to the media server. The JSON
// field names are a wire contract.
//
// Documents are built fresh per call. Callers must treat them as read-only.
type Document struct {
	MaxStreamingBitrate              int `json:"MaxStreamingBitrate"`
	MaxStaticBitrate                 int `json:"MaxStaticBitrate"`
	MusicStreamingTranscodingBitrate int `json:"MusicStreamingTranscodingBitrate"`

	DirectPlayProfiles  []DirectPlayProfile  `json:"DirectPlayProfiles"`
	TranscodingProfiles []TranscodingProfile `json:"TranscodingProfiles"`
	ContainerProfiles   []ContainerProfile   `json:"ContainerProfiles"`
	CodecProfiles       []CodecProfile       `json:"CodecProfiles"`
	SubtitleProfiles    []SubtitleProfile    `json:"SubtitleProfiles"`
	ResponseProfiles    []ResponseProfile    `json:"ResponseProfiles"`
}

// newDocument returns a document with the fixed envelope and non-nil lists so
// every list serializes as [] rather than null.
func newDocument() Document {
	return Document{
		MaxStreamingBitrate:              MaxStreamingBitrate,
		MaxStaticBitrate:                 MaxStaticBitrate,
		MusicStreamingTranscodingBitrate: MusicStreamingTranscodingBitrate,
		DirectPlayProfiles:               []DirectPlayProfile{},
		TranscodingProfiles:              []TranscodingProfile{},
		ContainerProfiles:                []ContainerProfile{},
		CodecProfiles:                    []CodecProfile{},
		SubtitleProfiles:                 []SubtitleProfile{},
		ResponseProfiles:                 []ResponseProfile{},
	}
}

// CodecProfile returns the first codec rule for typ and codec.
func (d Document) CodecProfile(typ MediaType, codec string) (CodecProfile, bool) {
	for _, p := range d.CodecProfiles {
		if p.Type == typ && p.Codec == codec {
			return p, true
		}
	}
	return CodecProfile{}, false
}

// DirectPlayProfile returns the first direct-play rule for typ and container.
func (d Document) DirectPlayProfile(typ MediaType, container string) (DirectPlayProfile, bool) {
	for _, p := range d.DirectPlayProfiles {
		if p.Type == typ && p.Container == container {
			return p, true
		}
	}
	return DirectPlayProfile{}, false
}

// Condition returns the first condition on prop.
func (p CodecProfile) Condition(prop Property) (Condition, bool) {
	for _, c := range p.Conditions {
		if c.Property == prop {
			return c, true
		}
	}
	return Condition{}, false
}
