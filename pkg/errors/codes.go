package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every module.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_015"
)

// Aliases kept so call sites read naturally.
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeUnauthorized   = ErrCodeUnauthorized
	CodeForbidden      = ErrCodeForbidden
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeRateLimit      = ErrCodeTooManyRequests
	CodeNotImplemented = ErrCodeNotImplemented
	CodeOK             = ErrorCode("OK")

	CodeDocumentNotFound    = ErrCodeDocumentNotFound
	CodeApplicationNotFound = ErrCodeApplicationNotFound
	CodeJobNotFound         = ErrCodeJobNotFound
)

// Document intake error codes.
const (
	ErrCodeDocumentNotFound       ErrorCode = "DOC_001"
	ErrCodeFileTypeUnsupported    ErrorCode = "DOC_002"
	ErrCodeFileTooLarge           ErrorCode = "DOC_003"
	ErrCodeFileCorrupted          ErrorCode = "DOC_004"
	ErrCodeFileEncrypted          ErrorCode = "DOC_005"
	ErrCodeFileEmpty              ErrorCode = "DOC_006"
	ErrCodeDocumentUploadFailed   ErrorCode = "DOC_007"
	ErrCodeDocumentDownloadFailed ErrorCode = "DOC_008"
)

// Extraction pipeline error codes.
const (
	ErrCodeExtractionFailed        ErrorCode = "EXT_001"
	ErrCodeEvidenceGatherFailed    ErrorCode = "EXT_002"
	ErrCodeStructuredBuildFailed   ErrorCode = "EXT_003"
	ErrCodeLLMCallFailed           ErrorCode = "EXT_004"
	ErrCodeLLMResponseMalformed    ErrorCode = "EXT_005"
	ErrCodeNoTextExtractable       ErrorCode = "EXT_006"
	ErrCodeVisionFallbackExhausted ErrorCode = "EXT_007"
)

// Validation error codes.
const (
	ErrCodeFieldValidationFailed  ErrorCode = "VAL_001"
	ErrCodeEntitySeparationFailed ErrorCode = "VAL_002"
	ErrCodeCrossContamination     ErrorCode = "VAL_003"
	ErrCodeInventorCountMismatch  ErrorCode = "VAL_004"
)

// XFA / PDF generation error codes.
const (
	ErrCodeXFABuildFailed      ErrorCode = "XFA_001"
	ErrCodeXFADatasetsNotFound ErrorCode = "XFA_002"
	ErrCodePDFInjectionFailed  ErrorCode = "XFA_003"
	ErrCodeTemplateUnavailable ErrorCode = "XFA_004"
	ErrCodeMetadataIncomplete  ErrorCode = "XFA_005"
	ErrCodeApplicationNotFound ErrorCode = "XFA_006"
)

// Processing job error codes.
const (
	ErrCodeJobNotFound      ErrorCode = "JOB_001"
	ErrCodeJobEnqueueFailed ErrorCode = "JOB_002"
	ErrCodeJobAlreadyDone   ErrorCode = "JOB_003"
	ErrCodeJobRetryExceeded ErrorCode = "JOB_004"
)

// Deadline calculator error codes.
const (
	ErrCodeDeadlineInvalidPeriod ErrorCode = "DL_001"
	ErrCodeDeadlineInvalidTier   ErrorCode = "DL_002"
)

// Report generation error codes.
const (
	ErrCodeReportGenerationFailed ErrorCode = "RPT_001"
)

// Infrastructure aliases used by the storage / queue / messaging layers.
const (
	CodeDBConnectionError = ErrCodeDatabaseError
	CodeDatabaseError     = ErrCodeDatabaseError
	CodeDBQueryError      = ErrCodeDatabaseError
	CodeCacheError        = ErrCodeCacheError
	CodeMessageQueueError = ErrCodeInternal
	CodeStorageError      = ErrCodeInternal
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeDocumentNotFound:       http.StatusNotFound,
	ErrCodeFileTypeUnsupported:    http.StatusBadRequest,
	ErrCodeFileTooLarge:           http.StatusRequestEntityTooLarge,
	ErrCodeFileCorrupted:          http.StatusBadRequest,
	ErrCodeFileEncrypted:          http.StatusBadRequest,
	ErrCodeFileEmpty:              http.StatusBadRequest,
	ErrCodeDocumentUploadFailed:   http.StatusInternalServerError,
	ErrCodeDocumentDownloadFailed: http.StatusInternalServerError,

	ErrCodeExtractionFailed:        http.StatusInternalServerError,
	ErrCodeEvidenceGatherFailed:    http.StatusInternalServerError,
	ErrCodeStructuredBuildFailed:   http.StatusInternalServerError,
	ErrCodeLLMCallFailed:           http.StatusBadGateway,
	ErrCodeLLMResponseMalformed:    http.StatusBadGateway,
	ErrCodeNoTextExtractable:       http.StatusUnprocessableEntity,
	ErrCodeVisionFallbackExhausted: http.StatusInternalServerError,

	ErrCodeFieldValidationFailed:  http.StatusBadRequest,
	ErrCodeEntitySeparationFailed: http.StatusBadRequest,
	ErrCodeCrossContamination:     http.StatusBadRequest,
	ErrCodeInventorCountMismatch:  http.StatusBadRequest,

	ErrCodeXFABuildFailed:      http.StatusInternalServerError,
	ErrCodeXFADatasetsNotFound: http.StatusInternalServerError,
	ErrCodePDFInjectionFailed:  http.StatusInternalServerError,
	ErrCodeTemplateUnavailable: http.StatusInternalServerError,
	ErrCodeMetadataIncomplete:  http.StatusBadRequest,
	ErrCodeApplicationNotFound: http.StatusNotFound,

	ErrCodeJobNotFound:      http.StatusNotFound,
	ErrCodeJobEnqueueFailed: http.StatusInternalServerError,
	ErrCodeJobAlreadyDone:   http.StatusConflict,
	ErrCodeJobRetryExceeded: http.StatusInternalServerError,

	ErrCodeDeadlineInvalidPeriod: http.StatusBadRequest,
	ErrCodeDeadlineInvalidTier:   http.StatusBadRequest,

	ErrCodeReportGenerationFailed: http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeDocumentNotFound:       "document not found",
	ErrCodeFileTypeUnsupported:    "unsupported file type",
	ErrCodeFileTooLarge:           "file exceeds size limit",
	ErrCodeFileCorrupted:          "file is corrupted or unreadable",
	ErrCodeFileEncrypted:          "file is password protected",
	ErrCodeFileEmpty:              "file is empty",
	ErrCodeDocumentUploadFailed:   "document upload failed",
	ErrCodeDocumentDownloadFailed: "document download failed",

	ErrCodeExtractionFailed:        "extraction failed",
	ErrCodeEvidenceGatherFailed:    "evidence gathering failed",
	ErrCodeStructuredBuildFailed:   "structured result generation failed",
	ErrCodeLLMCallFailed:           "language model call failed",
	ErrCodeLLMResponseMalformed:    "language model response malformed",
	ErrCodeNoTextExtractable:       "no extractable text in document",
	ErrCodeVisionFallbackExhausted: "vision extraction exhausted all strategies",

	ErrCodeFieldValidationFailed:  "field validation failed",
	ErrCodeEntitySeparationFailed: "entity separation validation failed",
	ErrCodeCrossContamination:     "inventor/applicant cross-contamination detected",
	ErrCodeInventorCountMismatch:  "inventor count does not match original extraction",

	ErrCodeXFABuildFailed:      "XFA XML generation failed",
	ErrCodeXFADatasetsNotFound: "XFA datasets stream not found in template",
	ErrCodePDFInjectionFailed:  "PDF form injection failed",
	ErrCodeTemplateUnavailable: "ADS PDF template unavailable",
	ErrCodeMetadataIncomplete:  "application metadata incomplete",
	ErrCodeApplicationNotFound: "application not found",

	ErrCodeJobNotFound:      "processing job not found",
	ErrCodeJobEnqueueFailed: "failed to enqueue processing job",
	ErrCodeJobAlreadyDone:   "processing job already finished",
	ErrCodeJobRetryExceeded: "processing job retries exceeded",

	ErrCodeDeadlineInvalidPeriod: "invalid shortened statutory period",
	ErrCodeDeadlineInvalidTier:   "invalid extension tier",

	ErrCodeReportGenerationFailed: "report generation failed",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
