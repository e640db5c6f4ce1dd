// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package probe

import (
	"github.com/ManuGH/tvcaps/internal/platform"

	tvlog "github.com/ManuGH/tvcaps/internal/log"
)

// SubUHDMaxVideoBitrate caps video bitrate on panels confirmed to be below 4K.
const SubUHDMaxVideoBitrate = 20_000_000

// dolbyVisionFallbackVersion is the first platform version where the base layer
// of a Dolby Vision stream is advertised as decodable.
const dolbyVisionFallbackVersion = 3.0

// HDR10, HDR10+ and HLG follow the panel class of the TV platform; there is no
// generic browser HDR path.
func (c *Context) hdr10(id identity) bool     { return id.tizen() }
func (c *Context) hdr10Plus(id identity) bool { return id.tizen() }
func (c *Context) hlg(id identity) bool       { return id.tizen() }

// dolbyVisionFallback is policy, not a hardware fact.
func (c *Context) dolbyVisionFallback(id identity) bool {
	return id.atLeast(dolbyVisionFallbackVersion)
}

// maxVideoBitrate returns a ceiling only for panels confirmed sub-4K. Any
// failure to ask leaves playback unlimited.
func (c *Context) maxVideoBitrate(id identity) *int {
	if !id.tizen() {
		return nil
	}
	info := attempt[platform.ProductInfo](c, "product_info", "", nil, c.adapter.ProductInfo)
	if info == nil {
		return nil
	}
	ud := attempt(c, "panel", "isUdPanelSupported", true, info.IsUdPanelSupported)
	if ud {
		return nil
	}
	c.logger.Debug().
		Str(tvlog.FieldEvent, "probe.bitrate_ceiling").
		Int("max_video_bitrate", SubUHDMaxVideoBitrate).
		Msg("sub-4K panel, capping video bitrate")
	ceiling := SubUHDMaxVideoBitrate
	return &ceiling
}
