package handlers

import (
	"net/http"

	"github.com/adsforge/adsforge/internal/application/adsgen"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/interfaces/http/middleware"
	"github.com/adsforge/adsforge/pkg/types/ads"
)

// ADSHandler exposes ADS PDF generation.
type ADSHandler struct {
	gen *adsgen.Service
	log logging.Logger
}

// NewADSHandler wires the generation service.
func NewADSHandler(gen *adsgen.Service, log logging.Logger) *ADSHandler {
	return &ADSHandler{gen: gen, log: log}
}

// generateRequest optionally carries edited metadata and the inventor count
// the client last saw.
type generateRequest struct {
	ExpectedInventors int                            `json:"expected_inventors"`
	Metadata          *ads.PatentApplicationMetadata `json:"metadata"`
}

// Generate handles POST /api/v1/applications/{applicationID}/ads.
func (h *ADSHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "applicationID")
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	req := generateRequest{}
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, h.log, err)
			return
		}
	}

	res, err := h.gen.Generate(r.Context(), adsgen.GenerateInput{
		OwnerID:           middleware.ContextGetUserID(r.Context()),
		ApplicationID:     id,
		ExpectedInventors: req.ExpectedInventors,
		Metadata:          req.Metadata,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
