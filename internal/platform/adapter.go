// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package platform abstracts the playback runtime that capability probes query.
//
// The probe never talks to a browser engine or TV firmware directly. It asks an
// Adapter, and concrete adapters answer from a captured device Report.
package platform

import "errors"

var (
	// ErrUnavailable reports that a queried runtime API does not exist on this platform.
	ErrUnavailable = errors.New("platform api unavailable")
	// ErrInvalidReport classifies device reports that cannot back an adapter.
	ErrInvalidReport = errors.New("invalid device report")
)

// Adapter exposes the ambient runtime state capability probes depend on.
type Adapter interface {
	// UserAgent returns the runtime identification string.
	UserAgent() string

	// HasGlobal reports whether the named platform namespace exists (e.g. "tizen").
	HasGlobal(name string) bool

	// NewMediaElement creates a detached media element used only for
	// capability queries. It is never attached to a document or loaded with media.
	NewMediaElement() (MediaElement, error)

	// HasMediaSource reports whether a segment-source extension API exists.
	HasMediaSource() bool

	// ProductInfo returns the platform product-information API.
	// Implementations return ErrUnavailable when the platform has none.
	ProductInfo() (ProductInfo, error)
}

// MediaElement answers native media-capability queries.
type MediaElement interface {
	// CanPlayType takes a MIME type with an optional codecs parameter and returns
	// "", "no", "maybe" or "probably".
	CanPlayType(contentType string) (string, error)
}

// ProductInfo is the platform product-information capability.
type ProductInfo interface {
	// IsUdPanelSupported reports whether the display panel is UHD (4K) class.
	IsUdPanelSupported() (bool, error)
}
