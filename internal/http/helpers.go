package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-cms-modules/internal/catalog"
	"github.com/goliatone/go-cms-modules/internal/items"
	"github.com/goliatone/go-cms-modules/internal/relation"
	"github.com/goliatone/go-cms-modules/internal/table"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}
	if errors.Is(err, catalog.ErrTypeUnknown) || errors.Is(err, items.ErrNotFound) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()}
	}
	if errors.Is(err, items.ErrScopeInvalid) ||
		errors.Is(err, relation.ErrKindUnknown) ||
		errors.Is(err, relation.ErrIDRequired) ||
		errors.Is(err, errBadRequest) {
		return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()}
	}
	return http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: err.Error()}
}

var errBadRequest = errors.New("http: malformed request")

// resultStatus maps a table outcome to an HTTP status. success is used for
// OutcomeOK so creates can answer 201.
func resultStatus(res *table.ActionResult, success int) int {
	switch res.Outcome {
	case table.OutcomeOK:
		return success
	case table.OutcomeNotFound:
		return http.StatusNotFound
	case table.OutcomeEmpty:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
