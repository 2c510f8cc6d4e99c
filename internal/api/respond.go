package api

import (
	"encoding/json"
	"net/http"

	"github.com/salgue441/jobrunner/pkg/errors"
	"github.com/salgue441/jobrunner/pkg/logger"
)

func writeJSON(w http.ResponseWriter, log logger.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to encode response body", "error", err)
	}
}

// writeError maps err onto the {error} body shape from spec.md §6,
// using the error's own HTTP status when it carries one and 500
// otherwise.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	status := errors.GetHTTPStatus(err)
	writeJSON(w, log, status, map[string]string{"error": err.Error()})
}
