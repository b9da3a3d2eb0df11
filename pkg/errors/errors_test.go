package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adsforge/adsforge/pkg/errors"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := errors.New(errors.ErrCodeFileTooLarge, "file exceeds 25MB limit")
	assert.Equal(t, errors.ErrCodeFileTooLarge, err.Code)
	assert.Contains(t, err.Error(), "DOC_003")
	assert.Contains(t, err.Error(), "file exceeds 25MB limit")
	assert.NotEmpty(t, err.Stack)
}

func TestWrapPreservesChain(t *testing.T) {
	root := fmt.Errorf("pgx: connection refused")
	err := errors.Wrap(root, errors.CodeDBQueryError, "failed to load application")
	require.NotNil(t, err)
	assert.True(t, stderrors.Is(err, root))
	assert.Equal(t, errors.ErrCodeDatabaseError, err.Code)
}

func TestWrapNilReturnsNil(t *testing.T) {
	var err error
	wrapped := errors.Wrap(err, errors.CodeInternal, "should be nil")
	// A nil *AppError must stay nil so inline returns work.
	assert.Nil(t, wrapped)
}

func TestWrapPreservesInnerCode(t *testing.T) {
	inner := errors.New(errors.ErrCodeFileEncrypted, "password protected")
	outer := errors.Wrap(inner, errors.CodeInternal, "preprocess failed")
	assert.Equal(t, errors.ErrCodeFileEncrypted, outer.Code)
}

func TestWithDetail(t *testing.T) {
	base := errors.NotFound("application not found")
	detailed := base.WithDetail("id=42")
	assert.Empty(t, base.Detail)
	assert.Equal(t, "id=42", detailed.Detail)
	assert.Contains(t, detailed.Error(), "id=42")
}

func TestIsCode(t *testing.T) {
	err := errors.Wrap(
		errors.New(errors.ErrCodeLLMCallFailed, "anthropic 529"),
		errors.ErrCodeExtractionFailed, "evidence gathering aborted",
	)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLLMCallFailed))
	assert.True(t, errors.IsCode(err, errors.ErrCodeExtractionFailed))
	assert.False(t, errors.IsCode(err, errors.ErrCodeFileEmpty))
}

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"generic not found", errors.NotFound("missing"), true},
		{"document not found", errors.New(errors.ErrCodeDocumentNotFound, "missing"), true},
		{"application not found", errors.New(errors.ErrCodeApplicationNotFound, "missing"), true},
		{"job not found", errors.New(errors.ErrCodeJobNotFound, "missing"), true},
		{"internal", errors.Internal("boom"), false},
		{"plain error", fmt.Errorf("plain"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errors.IsNotFound(tc.err))
		})
	}
}

func TestIsFileValidation(t *testing.T) {
	assert.True(t, errors.IsFileValidation(errors.New(errors.ErrCodeFileEncrypted, "locked")))
	assert.True(t, errors.IsFileValidation(errors.New(errors.ErrCodeFileTypeUnsupported, "image/gif")))
	assert.False(t, errors.IsFileValidation(errors.New(errors.ErrCodeExtractionFailed, "llm down")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.ErrCodeXFABuildFailed, errors.GetCode(errors.New(errors.ErrCodeXFABuildFailed, "bad xml")))
	assert.Equal(t, errors.CodeInternal, errors.GetCode(fmt.Errorf("opaque")))
}
