// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ManuGH/tvcaps/internal/platform/platformtest"
	"github.com/ManuGH/tvcaps/internal/probe"
)

const typeH264Baseline = `video/mp4; codecs="avc1.42E01E, mp4a.40.2"`

func tizenUA(version string) string {
	return fmt.Sprintf("Mozilla/5.0 (SMART-TV; LINUX; Tizen %s) AppleWebKit/537.36 (KHTML, like Gecko) TV Safari/537.36", version)
}

func collect(a *platformtest.Scripted) probe.Facts {
	return probe.New(a, probe.WithLogger(zerolog.Nop())).Collect()
}

// browserH264Only is a generic browser that answers only the baseline H.264 query.
func browserH264Only() probe.Facts {
	return collect(&platformtest.Scripted{
		UA:      "Mozilla/5.0 (X11; Linux x86_64) Chrome/120.0.0.0 Safari/537.36",
		Answers: platformtest.Probably(typeH264Baseline),
	})
}

// tizen is a TV runtime of the given version; subUHD selects the panel class.
func tizen(version string, subUHD bool) probe.Facts {
	return collect(&platformtest.Scripted{
		UA:      tizenUA(version),
		Globals: []string{"tizen"},
		Answers: platformtest.Probably(
			typeH264Baseline,
			`audio/mp4; codecs="mp4a.40.2"`,
			"audio/mpeg",
			`video/mp4; codecs="dts-"`,
		),
		Panel: func() (bool, error) { return !subUHD, nil },
	})
}

func codecSet(list string) map[string]bool {
	set := map[string]bool{}
	for _, c := range strings.Split(list, ",") {
		if c != "" {
			set[c] = true
		}
	}
	return set
}

func subset(small, big string) bool {
	b := codecSet(big)
	for c := range codecSet(small) {
		if !b[c] {
			return false
		}
	}
	return true
}

func videoCodecRule(doc Document, codec string) (CodecProfile, bool) {
	return doc.CodecProfile(TypeVideo, codec)
}
