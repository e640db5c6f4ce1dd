// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import "errors"

// ErrServerStartFailed is returned when the HTTP server fails to start.
var ErrServerStartFailed = errors.New("server failed to start")
