package helpers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSONResponse writes data as JSON with the given status
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes {"error": message}
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSONResponse(w, statusCode, map[string]interface{}{"error": message})
}

// NotFoundHandler answers unmatched routes with the requested path
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSONResponse(w, http.StatusNotFound, map[string]interface{}{
		"error": "Not found",
		"path":  r.URL.Path,
	})
}

// ParseJSONBody decodes the request body into v. Untyped numbers such as
// participant ids are kept as json.Number.
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}
