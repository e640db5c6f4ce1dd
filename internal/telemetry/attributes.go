package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by spans.
const (
	PlatformKey        = "tvcaps.platform"
	PlatformVersionKey = "tvcaps.platform_version"
	DirectPlayRulesKey = "tvcaps.rules.direct_play"
	TranscodeRulesKey  = "tvcaps.rules.transcoding"
	CodecRulesKey      = "tvcaps.rules.codec"
	BitrateCeilingKey  = "tvcaps.max_video_bitrate"
	DeviceKey          = "tvcaps.device"
)

// PlatformAttributes describes the runtime a profile was built for.
func PlatformAttributes(platform string, version float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(PlatformKey, platform),
		attribute.Float64(PlatformVersionKey, version),
	}
}

// RuleCountAttributes records the size of a built document.
func RuleCountAttributes(directPlay, transcoding, codec int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(DirectPlayRulesKey, directPlay),
		attribute.Int(TranscodeRulesKey, transcoding),
		attribute.Int(CodecRulesKey, codec),
	}
}
