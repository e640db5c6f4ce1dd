// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package probe

// Content types used for video capability queries.
const (
	typeH264Baseline = `video/mp4; codecs="avc1.42E01E, mp4a.40.2"`
	typeH264Level51  = `video/mp4; codecs="avc1.640833"`
	typeH264Level52  = `video/mp4; codecs="avc1.640834"`

	typeHEVCMainHvc1    = `video/mp4; codecs="hvc1.1.L120"`
	typeHEVCMainHev1    = `video/mp4; codecs="hev1.1.L120"`
	typeHEVCLevel41Hvc1 = `video/mp4; codecs="hvc1.1.4.L123"`
	typeHEVCLevel41Hev1 = `video/mp4; codecs="hev1.1.4.L123"`
	typeHEVCMain10Hvc1  = `video/mp4; codecs="hvc1.2.4.L153"`
	typeHEVCMain10Hev1  = `video/mp4; codecs="hev1.2.4.L153"`

	typeAV1Main8  = `video/mp4; codecs="av01.0.15M.08"`
	typeAV1Main10 = `video/mp4; codecs="av01.0.15M.10"`

	typeVP8 = `video/webm; codecs="vp8"`
	typeVP9 = `video/webm; codecs="vp9"`

	typeMKV    = "video/x-matroska"
	typeMKVAlt = "video/mkv"

	typeHLS      = "application/x-mpegURL"
	typeHLSApple = "application/vnd.apple.mpegURL"
)

// Codec level ceilings, in the server's VideoLevel units.
const (
	H264LevelDefault = 42
	H264Level51      = 51
	H264Level52      = 52

	HEVCLevelDefault = 120
	HEVCLevel41      = 123
	HEVCLevel51      = 153
)

// av1HardwareVersion is the first Tizen release with hardware AV1 decode.
const av1HardwareVersion = 5.5

// fmp4HLSVersion is the first Tizen release whose native HLS player accepts fMP4 segments.
const fmp4HLSVersion = 3.0

func (c *Context) h264() bool {
	return c.canPlay(typeH264Baseline)
}

func (c *Context) h264Level(id identity) int {
	level := H264LevelDefault
	if id.tizen() || c.canPlay(typeH264Level51) {
		level = H264Level51
	}
	if id.tizen() || c.canPlay(typeH264Level52) {
		level = H264Level52
	}
	return level
}

// hevc short-circuits on Tizen: its demuxer plays HEVC even where the query under-reports.
func (c *Context) hevc(id identity) bool {
	if id.tizen() {
		return true
	}
	return c.canPlayAny(typeHEVCMainHvc1, typeHEVCMainHev1)
}

func (c *Context) hevcMain10(id identity) bool {
	if id.tizen() {
		return true
	}
	return c.canPlayAny(typeHEVCMain10Hvc1, typeHEVCMain10Hev1)
}

func (c *Context) hevcLevel(id identity, main10 bool) int {
	if id.tizen() {
		return HEVCLevel51
	}
	level := HEVCLevelDefault
	if c.canPlayAny(typeHEVCLevel41Hvc1, typeHEVCLevel41Hev1) {
		level = HEVCLevel41
	}
	if main10 {
		level = HEVCLevel51
	}
	return level
}

// av1 requires both the 8-bit and 10-bit main profile answers unless the
// platform version is known to ship hardware decode.
func (c *Context) av1(id identity) bool {
	if id.tizen() && id.atLeast(av1HardwareVersion) {
		return true
	}
	return c.canPlay(typeAV1Main8) && c.canPlay(typeAV1Main10)
}

func (c *Context) vp8() bool { return c.canPlay(typeVP8) }

func (c *Context) vp9() bool { return c.canPlay(typeVP9) }

func (c *Context) mkv(id identity) bool {
	if id.tizen() {
		return true
	}
	return c.canPlayAny(typeMKV, typeMKVAlt)
}

func (c *Context) nativeHLS(id identity) bool {
	if id.tizen() {
		return true
	}
	return c.canPlayAny(typeHLS, typeHLSApple)
}

func (c *Context) hlsInFMP4(id identity) bool {
	return id.tizen() && id.atLeast(fmp4HLSVersion)
}
