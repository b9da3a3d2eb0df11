package errors_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adsforge/adsforge/pkg/errors"
)

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, errors.HTTPStatusForCode(errors.ErrCodeInventorCountMismatch))
	assert.Equal(t, http.StatusRequestEntityTooLarge, errors.HTTPStatusForCode(errors.ErrCodeFileTooLarge))
	assert.Equal(t, http.StatusNotFound, errors.HTTPStatusForCode(errors.ErrCodeDocumentNotFound))
	assert.Equal(t, http.StatusBadGateway, errors.HTTPStatusForCode(errors.ErrCodeLLMCallFailed))
	// Unknown codes degrade to 500.
	assert.Equal(t, http.StatusInternalServerError, errors.HTTPStatusForCode(errors.ErrorCode("NOPE_999")))
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "file is password protected", errors.DefaultMessageForCode(errors.ErrCodeFileEncrypted))
	assert.Equal(t, "unknown error", errors.DefaultMessageForCode(errors.ErrorCode("NOPE_999")))
}

func TestClientServerClassification(t *testing.T) {
	assert.True(t, errors.IsClientError(errors.ErrCodeFileTypeUnsupported))
	assert.False(t, errors.IsServerError(errors.ErrCodeFileTypeUnsupported))
	assert.True(t, errors.IsServerError(errors.ErrCodeXFADatasetsNotFound))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "DOC", errors.ModuleForCode(errors.ErrCodeFileTooLarge))
	assert.Equal(t, "XFA", errors.ModuleForCode(errors.ErrCodePDFInjectionFailed))
	assert.Equal(t, "COMMON", errors.ModuleForCode(errors.ErrCodeInternal))
}
