// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package probe

import (
	"regexp"
	"strconv"
	"strings"

	tvlog "github.com/ManuGH/tvcaps/internal/log"
)

// Platform identifies the runtime family.
type Platform string

const (
	PlatformBrowser Platform = "browser"
	PlatformTizen   Platform = "tizen"
)

// DefaultTizenVersion is assumed when a Tizen runtime is detected but its
// version cannot be parsed from the identification string.
const DefaultTizenVersion = 4.0

var tizenVersionPattern = regexp.MustCompile(`Tizen (\d+)\.(\d+)`)

// identity is sampled once per Collect so every fact sees the same platform.
type identity struct {
	platform Platform
	version  float64
}

func (id identity) tizen() bool { return id.platform == PlatformTizen }

// atLeast reports whether the platform version is at least v.
func (id identity) atLeast(v float64) bool { return id.version >= v }

// Platform returns the detected runtime family.
func (c *Context) Platform() Platform {
	return c.identify().platform
}

// Version returns the platform version as major.minor; 0 for generic browsers.
func (c *Context) Version() float64 {
	return c.identify().version
}

func (c *Context) identify() identity {
	ua := attempt(c, "user_agent", "", "", func() (string, error) {
		return c.adapter.UserAgent(), nil
	})
	hasGlobal := attempt(c, "global", "tizen", false, func() (bool, error) {
		return c.adapter.HasGlobal("tizen"), nil
	})

	if !hasGlobal && !strings.Contains(ua, "Tizen") {
		return identity{platform: PlatformBrowser}
	}

	version, ok := ParseTizenVersion(ua)
	if !ok {
		c.logger.Warn().
			Str(tvlog.FieldEvent, "probe.version_fallback").
			Float64(tvlog.FieldVersion, DefaultTizenVersion).
			Msg("tizen version not found in user agent, using default")
		version = DefaultTizenVersion
	}
	return identity{platform: PlatformTizen, version: version}
}

// ParseTizenVersion extracts "Tizen <major>.<minor>" from an identification string.
func ParseTizenVersion(ua string) (float64, bool) {
	m := tizenVersionPattern.FindStringSubmatch(ua)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1]+"."+m[2], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
