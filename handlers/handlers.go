// Package handlers maps HTTP verbs onto repository operations. Every
// handler follows the same shape: decode, validate, check ownership or
// permission, perform one or two repository calls, encode.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Shineselorm/learnlab-api/config"
	"github.com/Shineselorm/learnlab-api/serializers"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

// writeError writes a DRF-style {"detail": ...} error body.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeValidationErrors writes the field->message map of a failed
// validation as a 400.
func writeValidationErrors(w http.ResponseWriter, errs serializers.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
}

// decodeJSON decodes the body into v, writing a 400 and returning false
// on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return false
	}
	return true
}

// muxVar reads a raw string path variable.
func muxVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// pathID parses a numeric path variable.
func pathID(r *http.Request, name string) (uint, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// paginated wraps list results the way the original API did.
type paginated struct {
	Count    int64       `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Results  interface{} `json:"results"`
}

// pagination reads ?page= and ?page_size=, clamped to configured
// bounds. Page numbering starts at 1.
func pagination(r *http.Request) (limit, offset, page int) {
	page = 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	limit = config.Cfg.DefaultPageSize
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if max := config.Cfg.MaxPageSize; max > 0 && limit > max {
		limit = max
	}
	if limit <= 0 {
		limit = 20
	}
	return limit, (page - 1) * limit, page
}
