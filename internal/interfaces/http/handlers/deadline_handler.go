package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/adsforge/adsforge/internal/deadline"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
)

// DeadlineHandler exposes the office-action deadline calculator.  It is
// stateless; nothing is persisted.
type DeadlineHandler struct {
	log logging.Logger
}

// NewDeadlineHandler returns the handler.
func NewDeadlineHandler(log logging.Logger) *DeadlineHandler {
	return &DeadlineHandler{log: log}
}

// Calculate handles GET /api/v1/deadlines/calculate with query parameters
// mailing_date (YYYY-MM-DD), period_months, and entity_size.
func (h *DeadlineHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mailingDate, err := time.Parse("2006-01-02", q.Get("mailing_date"))
	if err != nil {
		writeBadRequest(w, "mailing_date must be formatted YYYY-MM-DD")
		return
	}

	periodMonths := 3
	if v := q.Get("period_months"); v != "" {
		periodMonths, err = strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "period_months must be an integer")
			return
		}
	}

	calc := deadline.NewCalculator(deadline.EntitySize(q.Get("entity_size")))
	res, err := calc.Calculate(mailingDate, periodMonths)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
