// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/tvcaps/internal/reports"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem writes {"error": code, "detail": err}.
func writeProblem(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, map[string]string{"error": code, "detail": err.Error()})
}

func writeDocument(w http.ResponseWriter, out reports.Rendered) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(HeaderFingerprint, out.Fingerprint)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Body)
}
