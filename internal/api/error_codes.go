// internal/api/error_codes.go
package api

// API error code constants.
const (
	// Generic
	ErrorBadRequest    = "BAD_REQUEST"
	ErrorNotFound      = "NOT_FOUND"
	ErrorInternalError = "INTERNAL_ERROR"

	// Analysis pipelines
	ErrorTextTooShort     = "TEXT_TOO_SHORT"
	ErrorInvalidParams    = "INVALID_PARAMS"
	ErrorDetectionFailed  = "DETECTION_FAILED"
	ErrorGenerationFailed = "GENERATION_FAILED"
	ErrorSummaryFailed    = "SUMMARY_FAILED"

	// Oracle backend
	ErrorOracleUnavailable = "ORACLE_UNAVAILABLE"

	// File ingestion
	ErrorFileUploadFailed = "FILE_UPLOAD_FAILED"
	ErrorFileInvalid      = "FILE_INVALID"

	// Results store
	ErrorResultsUnavailable = "RESULTS_UNAVAILABLE"
)
