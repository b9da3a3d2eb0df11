package handlers

import (
	"net/http"

	"github.com/adsforge/adsforge/internal/domain/job"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/interfaces/http/middleware"
	"github.com/adsforge/adsforge/pkg/errors"
)

// JobHandler exposes processing-job status for upload polling.
type JobHandler struct {
	jobs job.Repository
	log  logging.Logger
}

// NewJobHandler wires the job repository.  Jobs are read-only over HTTP; the
// worker owns all transitions.
func NewJobHandler(jobs job.Repository, log logging.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, log: log}
}

// Get handles GET /api/v1/jobs/{jobID}.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "jobID")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	j, err := h.jobs.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if j.OwnerID != middleware.ContextGetUserID(r.Context()) {
		writeError(w, h.log, errors.New(errors.ErrCodeJobNotFound, "processing job not found"))
		return
	}
	writeJSON(w, http.StatusOK, j)
}

// List handles GET /api/v1/jobs.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePagination(r)
	filter := job.ListFilter{
		OwnerID: middleware.ContextGetUserID(r.Context()),
		Type:    job.Type(r.URL.Query().Get("type")),
		Status:  job.Status(r.URL.Query().Get("status")),
		Offset:  offset,
		Limit:   limit,
	}
	if v := r.URL.Query().Get("document_id"); v != "" {
		docID, err := queryUUID(v, "document_id")
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		filter.DocumentID = docID
	}
	jobs, total, err := h.jobs.List(r.Context(), filter)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: jobs, Total: total, Offset: offset, Limit: limit})
}
