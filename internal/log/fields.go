// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldDevice    = "device"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Capability fields
	FieldPlatform = "platform"
	FieldVersion  = "platform_version"
	FieldProbe    = "probe"
	FieldQuery    = "query"

	// Document fields
	FieldFingerprint = "fingerprint"

	// Path / URL fields
	FieldPath = "path"
)
