package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"freight-tracking-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON decodes exactly one JSON object into dst, rejecting unknown
// fields and trailing content. It writes the 400 response itself and reports
// whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// pathID parses a numeric path segment. A non-numeric or non-positive value
// writes the 400 response and reports failure.
func pathID(w http.ResponseWriter, r *http.Request, segment string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(segment), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// writeDomainError maps domain failures onto HTTP responses:
//
//	FieldErrors        -> 400 with per-field messages
//	ConflictError      -> 409 with the offending field
//	out-of-order/dup   -> 409
//	DeleteBlockedError -> 409 with dependent counts
//	ErrNotFound        -> 404
//
// Anything else is logged and answered with a bare 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs domain.FieldErrors
	if errors.As(err, &fieldErrs) {
		writeJSON(w, r, http.StatusBadRequest, map[string]any{"errors": fieldErrs})
		return
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, r, http.StatusConflict, map[string]any{
			"errors": map[string]string{conflict.Field: conflict.Message},
		})
		return
	}

	if errors.Is(err, domain.ErrEventOutOfOrder) || errors.Is(err, domain.ErrDuplicateEvent) {
		writeError(w, r, http.StatusConflict, err.Error())
		return
	}

	var blocked *domain.DeleteBlockedError
	if errors.As(err, &blocked) {
		writeJSON(w, r, http.StatusConflict, map[string]any{
			"error":  blocked.Error(),
			"counts": blocked.Counts,
		})
		return
	}

	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	log.Printf("request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}
