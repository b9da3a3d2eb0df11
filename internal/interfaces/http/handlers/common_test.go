package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/internal/application/adsgen"
	"github.com/adsforge/adsforge/internal/testutil"
	"github.com/adsforge/adsforge/pkg/errors"
)

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestWriteErrorMapsAppErrorStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, testutil.NewMockLogger(), errors.NotFound("document 7f3a not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeErrorBody(t, rec)
	assert.Equal(t, errors.ErrCodeNotFound.String(), resp.Code)
	assert.Equal(t, "document 7f3a not found", resp.Message)
}

func TestWriteErrorMasksServerErrors(t *testing.T) {
	log := testutil.NewMockLogger()
	rec := httptest.NewRecorder()
	err := errors.Internal("pgx: connection refused at 10.0.0.3:5432").
		WithDetail("pool exhausted")
	writeError(rec, log, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeErrorBody(t, rec)
	assert.Equal(t, "internal server error", resp.Message)
	assert.Empty(t, resp.Detail)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
	assert.True(t, log.HasMessage("error", "request failed"))
}

func TestWriteErrorUnclassifiedBecomes500(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, testutil.NewMockLogger(), fmt.Errorf("something odd"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeErrorBody(t, rec)
	assert.Equal(t, errors.ErrCodeInternal.String(), resp.Code)
	assert.NotContains(t, rec.Body.String(), "something odd")
}

func TestWriteErrorInventorCountMismatch(t *testing.T) {
	rec := httptest.NewRecorder()
	mismatch := &adsgen.InventorCountMismatch{Action: "added", Difference: 2}
	writeError(rec, testutil.NewMockLogger(), fmt.Errorf("generate: %w", mismatch))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorBody(t, rec)
	assert.Equal(t, errors.ErrCodeInventorCountMismatch.String(), resp.Code)
	require.NotNil(t, resp.Mismatch)
	assert.Equal(t, "added", resp.Mismatch.Action)
	assert.Equal(t, 2, resp.Mismatch.Difference)
}

func TestDecodeBodyRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}
	req := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"email":"a@b.com","surprise":true}`))
	err := decodeBody(req, &dst)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query      string
		wantOffset int
		wantLimit  int
	}{
		{"", 0, 50},
		{"?offset=20&limit=10", 20, 10},
		{"?offset=-5&limit=0", 0, 50},
		{"?limit=junk", 0, 50},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
		offset, limit := parsePagination(req)
		assert.Equal(t, tc.wantOffset, offset, tc.query)
		assert.Equal(t, tc.wantLimit, limit, tc.query)
	}
}
