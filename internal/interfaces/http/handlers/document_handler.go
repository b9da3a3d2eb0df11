package handlers

import (
	"io"
	"net/http"

	"github.com/adsforge/adsforge/internal/application/documents"
	"github.com/adsforge/adsforge/internal/domain/document"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/interfaces/http/middleware"
)

// DocumentHandler exposes document intake and retrieval.
type DocumentHandler struct {
	docs           *documents.Service
	maxUploadBytes int64
	log            logging.Logger
}

// NewDocumentHandler wires the documents service.  maxUploadBytes bounds the
// multipart body before the file-type validator sees it.
func NewDocumentHandler(docs *documents.Service, maxUploadBytes int64, log logging.Logger) *DocumentHandler {
	return &DocumentHandler{docs: docs, maxUploadBytes: maxUploadBytes, log: log}
}

// Upload handles POST /api/v1/documents.  The file arrives as multipart
// form-data under the "file" field.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeBadRequest(w, "expected multipart form-data with a file field")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeBadRequest(w, "failed to read uploaded file")
		return
	}

	res, err := h.docs.Upload(r.Context(), documents.UploadInput{
		OwnerID:  middleware.ContextGetUserID(r.Context()),
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusAccepted, res)
}

// Get handles GET /api/v1/documents/{documentID}.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "documentID")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	doc, err := h.docs.Get(r.Context(), middleware.ContextGetUserID(r.Context()), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// List handles GET /api/v1/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePagination(r)
	filter := document.ListFilter{
		OwnerID: middleware.ContextGetUserID(r.Context()),
		Status:  document.Status(r.URL.Query().Get("status")),
		Offset:  offset,
		Limit:   limit,
	}
	docs, total, err := h.docs.List(r.Context(), filter)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: docs, Total: total, Offset: offset, Limit: limit})
}

// Delete handles DELETE /api/v1/documents/{documentID}.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "documentID")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.docs.Delete(r.Context(), middleware.ContextGetUserID(r.Context()), id); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// DownloadURL handles GET /api/v1/documents/{documentID}/download.
func (h *DocumentHandler) DownloadURL(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "documentID")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	url, err := h.docs.DownloadURL(r.Context(), middleware.ContextGetUserID(r.Context()), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"download_url": url})
}
