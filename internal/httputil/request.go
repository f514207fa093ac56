package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxBodySize bounds request bodies; markdown documents are small.
const maxBodySize = 10 << 20

// ParseJSON decodes the request body into dest, with a body size cap.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
