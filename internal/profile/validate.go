// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

import (
	"fmt"
	"strings"
)

// ErrInvariantViolation reports a structural breach of the document contract.
type ErrInvariantViolation struct {
	Invariant string
	Detail    string
}

func (e ErrInvariantViolation) Error() string {
	return fmt.Sprintf("invariant %s violation: %s", e.Invariant, e.Detail)
}

// Invariant names reported by Validate.
const (
	InvariantEnvelope      = "envelope"
	InvariantDirectPlay    = "direct_play"
	InvariantTranscoding   = "transcoding"
	InvariantCondition     = "condition"
	InvariantBitrateCeil   = "bitrate_ceiling"
	InvariantSubtitle      = "subtitle"
	InvariantLowerCaseList = "lower_case"
)

// Validate checks the structural invariants a server relies on. It returns the
// first violation found.
func Validate(d Document) error {
	if d.MaxStreamingBitrate != MaxStreamingBitrate ||
		d.MaxStaticBitrate != MaxStaticBitrate ||
		d.MusicStreamingTranscodingBitrate != MusicStreamingTranscodingBitrate {
		return ErrInvariantViolation{Invariant: InvariantEnvelope, Detail: "bitrate envelope differs from the fixed values"}
	}

	for i, p := range d.DirectPlayProfiles {
		if err := checkType(InvariantDirectPlay, i, p.Type); err != nil {
			return err
		}
		if p.Container == "" {
			return ErrInvariantViolation{Invariant: InvariantDirectPlay, Detail: fmt.Sprintf("rule %d has no container", i)}
		}
		if p.Type == TypeVideo && p.VideoCodec == "" {
			return ErrInvariantViolation{Invariant: InvariantDirectPlay, Detail: fmt.Sprintf("video rule %d (%s) has an empty codec list", i, p.Container)}
		}
		for _, list := range []string{p.Container, p.VideoCodec, p.AudioCodec} {
			if err := checkList(list); err != nil {
				return err
			}
		}
	}

	for i, p := range d.TranscodingProfiles {
		if err := checkType(InvariantTranscoding, i, p.Type); err != nil {
			return err
		}
		if p.Protocol != ProtocolHTTP && p.Protocol != ProtocolHLS {
			return ErrInvariantViolation{Invariant: InvariantTranscoding, Detail: fmt.Sprintf("rule %d has unknown protocol %q", i, p.Protocol)}
		}
		if p.Context != ContextStreaming && p.Context != ContextStatic {
			return ErrInvariantViolation{Invariant: InvariantTranscoding, Detail: fmt.Sprintf("rule %d has unknown context %q", i, p.Context)}
		}
		if p.Protocol == ProtocolHLS && p.MinSegments < 1 {
			return ErrInvariantViolation{Invariant: InvariantTranscoding, Detail: fmt.Sprintf("hls rule %d needs MinSegments >= 1", i)}
		}
	}

	for i, p := range d.ContainerProfiles {
		if err := checkConditions(p.Conditions); err != nil {
			return err
		}
		if err := checkType(InvariantCondition, i, p.Type); err != nil {
			return err
		}
	}

	for i, p := range d.CodecProfiles {
		if err := checkType(InvariantCondition, i, p.Type); err != nil {
			return err
		}
		if err := checkConditions(p.Conditions); err != nil {
			return err
		}
	}
	if err := checkBitrateCeiling(d.CodecProfiles); err != nil {
		return err
	}

	for _, s := range d.SubtitleProfiles {
		if s.Format == "" || (s.Method != SubtitleExternal && s.Method != SubtitleEncode) {
			return ErrInvariantViolation{Invariant: InvariantSubtitle, Detail: fmt.Sprintf("subtitle %q has method %q", s.Format, s.Method)}
		}
	}
	return nil
}

func checkType(invariant string, i int, t MediaType) error {
	switch t {
	case TypeVideo, TypeAudio, TypeVideoAudio:
		return nil
	}
	return ErrInvariantViolation{Invariant: invariant, Detail: fmt.Sprintf("rule %d has unknown type %q", i, t)}
}

func checkConditions(conds []Condition) error {
	if len(conds) == 0 {
		return ErrInvariantViolation{Invariant: InvariantCondition, Detail: "rule has no conditions"}
	}
	for _, c := range conds {
		if c.Condition != LessThanEqual && c.Condition != EqualsAny {
			return ErrInvariantViolation{Invariant: InvariantCondition, Detail: fmt.Sprintf("unknown operator %q on %s", c.Condition, c.Property)}
		}
		if c.Value == "" {
			return ErrInvariantViolation{Invariant: InvariantCondition, Detail: fmt.Sprintf("empty value on %s", c.Property)}
		}
	}
	return nil
}

func checkList(list string) error {
	if list != strings.ToLower(list) {
		return ErrInvariantViolation{Invariant: InvariantLowerCaseList, Detail: fmt.Sprintf("list %q is not lower-case", list)}
	}
	return nil
}

// checkBitrateCeiling holds the codec rules to one ceiling: the codec-less video
// rule carries it as advisory, and every per-codec video rule carries it as
// required. Without a codec-less rule no per-codec rule may carry one.
func checkBitrateCeiling(rules []CodecProfile) error {
	var ceiling *Condition
	for _, p := range rules {
		if p.Type != TypeVideo || p.Codec != "" {
			continue
		}
		if c, ok := p.Condition(PropVideoBitrate); ok {
			if c.IsRequired {
				return ErrInvariantViolation{Invariant: InvariantBitrateCeil, Detail: "codec-less bitrate rule must be advisory"}
			}
			ceiling = &c
		}
	}

	for _, p := range rules {
		if p.Type != TypeVideo || p.Codec == "" {
			continue
		}
		c, ok := p.Condition(PropVideoBitrate)
		switch {
		case ceiling == nil && ok:
			return ErrInvariantViolation{Invariant: InvariantBitrateCeil, Detail: fmt.Sprintf("%s carries a bitrate ceiling the document does not declare", p.Codec)}
		case ceiling != nil && !ok:
			return ErrInvariantViolation{Invariant: InvariantBitrateCeil, Detail: fmt.Sprintf("%s lacks the bitrate ceiling", p.Codec)}
		case ceiling != nil && (!c.IsRequired || c.Value != ceiling.Value):
			return ErrInvariantViolation{Invariant: InvariantBitrateCeil, Detail: fmt.Sprintf("%s bitrate ceiling must be required and equal to %s", p.Codec, ceiling.Value)}
		}
	}
	return nil
}
