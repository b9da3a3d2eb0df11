package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/internal/deadline"
	"github.com/adsforge/adsforge/internal/testutil"
)

func TestDeadlineCalculate(t *testing.T) {
	h := NewDeadlineHandler(testutil.NewMockLogger())

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/deadlines/calculate?mailing_date=2026-01-15&period_months=3&entity_size=small", nil)
	rec := httptest.NewRecorder()
	h.Calculate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res deadline.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 3, res.PeriodMonths)
	assert.Equal(t, "2026-04-15", res.StatutoryDue.Format("2006-01-02"))
	require.Len(t, res.Extensions, deadline.MaxExtensionMonths)
	// Small-entity tier 1 fee.
	assert.Equal(t, 88, res.Extensions[0].Fee)
	assert.Equal(t, res.Extensions[4].Due, res.FinalDeadline)
}

func TestDeadlineCalculateDefaultsPeriod(t *testing.T) {
	h := NewDeadlineHandler(testutil.NewMockLogger())

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/deadlines/calculate?mailing_date=2026-01-15", nil)
	rec := httptest.NewRecorder()
	h.Calculate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res deadline.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 3, res.PeriodMonths)
}

func TestDeadlineCalculateRejectsBadInput(t *testing.T) {
	h := NewDeadlineHandler(testutil.NewMockLogger())

	cases := map[string]string{
		"missing date":   "/api/v1/deadlines/calculate",
		"malformed date": "/api/v1/deadlines/calculate?mailing_date=15-01-2026",
		"bad period":     "/api/v1/deadlines/calculate?mailing_date=2026-01-15&period_months=soon",
		"period too big": "/api/v1/deadlines/calculate?mailing_date=2026-01-15&period_months=9",
	}
	for name, url := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Calculate(rec, httptest.NewRequest(http.MethodGet, url, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
