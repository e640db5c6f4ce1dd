// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint returns a stable SHA-256 of the canonical document. Equal
// documents always share a fingerprint, so it doubles as a cache key and a
// drift check for fixtures.
func (d Document) Fingerprint() string {
	// Document holds only strings, ints, bools and slices of those; Marshal cannot fail.
	b, _ := d.CanonicalJSON()
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// CanonicalJSON returns the compact wire form with nil lists normalized to
// empty ones. Rule order is preserved; it is a preference hint to the server.
func (d Document) CanonicalJSON() ([]byte, error) {
	c := d
	if c.DirectPlayProfiles == nil {
		c.DirectPlayProfiles = []DirectPlayProfile{}
	}
	if c.TranscodingProfiles == nil {
		c.TranscodingProfiles = []TranscodingProfile{}
	}
	if c.ContainerProfiles == nil {
		c.ContainerProfiles = []ContainerProfile{}
	}
	if c.CodecProfiles == nil {
		c.CodecProfiles = []CodecProfile{}
	}
	if c.SubtitleProfiles == nil {
		c.SubtitleProfiles = []SubtitleProfile{}
	}
	if c.ResponseProfiles == nil {
		c.ResponseProfiles = []ResponseProfile{}
	}
	return json.Marshal(c)
}
