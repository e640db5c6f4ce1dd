// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

import (
	"bytes"
	"encoding/json"
)

// Render returns the wire JSON of d, optionally indented, with a trailing newline.
// Indentation never changes the fingerprint, which is computed on CanonicalJSON.
func Render(d Document, indent bool) ([]byte, error) {
	canonical, err := d.CanonicalJSON()
	if err != nil {
		return nil, err
	}
	if !indent {
		return append(canonical, '\n'), nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, canonical, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
