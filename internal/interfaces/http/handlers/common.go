// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	stderrors "errors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adsforge/adsforge/internal/application/adsgen"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

// ErrorResponse is the JSON body for every error status.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`

	// Mismatch is set only for stale inventor-count rejections so the client
	// can tell the reviewer what changed.
	Mismatch *adsgen.InventorCountMismatch `json:"mismatch,omitempty"`
}

// listResponse wraps paginated collections.
type listResponse struct {
	Items  any `json:"items"`
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps any error to its HTTP status via the error-code table.
// Unclassified errors become 500 without leaking internals.
func writeError(w http.ResponseWriter, log logging.Logger, err error) {
	var mismatch *adsgen.InventorCountMismatch
	if stderrors.As(err, &mismatch) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Code:     errors.ErrCodeInventorCountMismatch.String(),
			Message:  "inventor count does not match the stored application",
			Mismatch: mismatch,
		})
		return
	}

	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		status := errors.HTTPStatusForCode(ae.Code)
		resp := ErrorResponse{Code: ae.Code.String(), Message: ae.Message}
		if status < 500 {
			resp.Detail = ae.Detail
		} else {
			log.Error("request failed", logging.Err(err))
			resp.Message = errors.DefaultMessageForCode(ae.Code)
		}
		writeJSON(w, status, resp)
		return
	}

	log.Error("request failed", logging.Err(err))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Code:    errors.ErrCodeInternal.String(),
		Message: "internal server error",
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    errors.ErrCodeBadRequest.String(),
		Message: message,
	})
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.InvalidParam("malformed request body").WithCause(err)
	}
	return nil
}

// parsePagination reads offset/limit query params with sane defaults.  The
// repository layer caps the limit again.
func parsePagination(r *http.Request) (offset, limit int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return offset, limit
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return queryUUID(chi.URLParam(r, name), name)
}

func queryUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.InvalidParam("invalid " + name)
	}
	return id, nil
}
