package handlers

import (
	"net/http"

	"github.com/adsforge/adsforge/internal/application/applications"
	"github.com/adsforge/adsforge/internal/domain/application"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/interfaces/http/middleware"
	"github.com/adsforge/adsforge/pkg/types/ads"
)

// ApplicationHandler exposes the extracted-application review API.
type ApplicationHandler struct {
	apps *applications.Service
	log  logging.Logger
}

// NewApplicationHandler wires the applications service.
func NewApplicationHandler(apps *applications.Service, log logging.Logger) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, log: log}
}

// Get handles GET /api/v1/applications/{applicationID}.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "applicationID")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	app, err := h.apps.Get(r.Context(), middleware.ContextGetUserID(r.Context()), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// GetByDocument handles GET /api/v1/documents/{documentID}/application, the
// poll target after an upload.
func (h *ApplicationHandler) GetByDocument(w http.ResponseWriter, r *http.Request) {
	docID, err := pathUUID(r, "documentID")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	app, err := h.apps.GetByDocument(r.Context(), middleware.ContextGetUserID(r.Context()), docID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// List handles GET /api/v1/applications.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePagination(r)
	filter := application.ListFilter{
		OwnerID: middleware.ContextGetUserID(r.Context()),
		Status:  application.Status(r.URL.Query().Get("status")),
		Offset:  offset,
		Limit:   limit,
	}
	apps, total, err := h.apps.List(r.Context(), filter)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: apps, Total: total, Offset: offset, Limit: limit})
}

// updateRequest carries reviewer edits over the wire.
type updateRequest struct {
	Metadata     ads.PatentApplicationMetadata `json:"metadata"`
	MarkReviewed bool                          `json:"mark_reviewed"`
}

// Update handles PUT /api/v1/applications/{applicationID}.
func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "applicationID")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	var req updateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	app, err := h.apps.Update(r.Context(), applications.UpdateInput{
		OwnerID:       middleware.ContextGetUserID(r.Context()),
		ApplicationID: id,
		Metadata:      req.Metadata,
		MarkReviewed:  req.MarkReviewed,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// ADSDownload handles GET /api/v1/applications/{applicationID}/ads.
func (h *ApplicationHandler) ADSDownload(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "applicationID")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	url, err := h.apps.ADSDownloadURL(r.Context(), middleware.ContextGetUserID(r.Context()), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"download_url": url})
}

// Report handles GET /api/v1/applications/{applicationID}/report.
func (h *ApplicationHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "applicationID")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	url, err := h.apps.ReportURL(r.Context(), middleware.ContextGetUserID(r.Context()), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"download_url": url})
}

// Delete handles DELETE /api/v1/applications/{applicationID}.
func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "applicationID")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.apps.Delete(r.Context(), middleware.ContextGetUserID(r.Context()), id); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
