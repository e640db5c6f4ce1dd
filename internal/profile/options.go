// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

// Options is reserved for caller overrides of rule defaults. No field affects
// the document yet; a nil *Options and &Options{} build identical documents.
//
// TODO: add a bitrate-ceiling override once the server contract for forced
// ceilings is agreed.
type Options struct{}
