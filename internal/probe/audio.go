// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package probe

const (
	typeAAC      = `audio/mp4; codecs="mp4a.40.2"`
	typeMP3      = "audio/mpeg"
	typeAC3      = `audio/mp4; codecs="ac-3"`
	typeEAC3     = `audio/mp4; codecs="ec-3"`
	typeDTSMinus = `video/mp4; codecs="dts-"`
	typeDTSPlus  = `video/mp4; codecs="dts+"`
	typeFLAC     = "audio/flac"
	typeOpusOgg  = `audio/ogg; codecs="opus"`
	typeOpusWebM = `audio/webm; codecs="opus"`
	typeVorbis   = `audio/ogg; codecs="vorbis"`
	typeALAC     = `audio/mp4; codecs="alac"`
	typeWAV      = "audio/wav"
	typeWebMA    = "audio/webm"
)

// dtsDroppedVersion is the Tizen release that removed DTS passthrough.
const dtsDroppedVersion = 4.0

func (c *Context) aac() bool { return c.canPlay(typeAAC) }

func (c *Context) mp3() bool { return c.canPlay(typeMP3) }

func (c *Context) ac3(id identity) bool {
	if id.tizen() {
		return true
	}
	return c.canPlay(typeAC3)
}

func (c *Context) eac3(id identity) bool {
	if id.tizen() {
		return true
	}
	return c.canPlay(typeEAC3)
}

func (c *Context) dts(id identity) bool {
	if id.tizen() && id.atLeast(dtsDroppedVersion) {
		return false
	}
	return c.canPlayAny(typeDTSMinus, typeDTSPlus)
}

func (c *Context) flac(id identity) bool {
	if id.tizen() {
		return true
	}
	return c.canPlay(typeFLAC)
}

func (c *Context) opus() bool { return c.canPlayAny(typeOpusOgg, typeOpusWebM) }

func (c *Context) vorbis() bool { return c.canPlay(typeVorbis) }

func (c *Context) alac() bool { return c.canPlay(typeALAC) }

func (c *Context) wav() bool { return c.canPlay(typeWAV) }

func (c *Context) webma() bool { return c.canPlay(typeWebMA) }

// pcm covers the platform's proprietary PCM passthrough codecs.
func (c *Context) pcm(id identity) bool { return id.tizen() }

func (c *Context) audioChannels(id identity) int {
	if id.tizen() {
		return 6
	}
	return 2
}
