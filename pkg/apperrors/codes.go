package apperrors

type ErrorCode string

const (
	// System errors.
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Generic business errors.
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"

	// Plan-entitlement policy errors. Terminal: they reflect what the
	// user's plan permits, not a transient failure, and are never retried.
	CodeQuotaExceeded             ErrorCode = "QUOTA_EXCEEDED"
	CodeFormatNotAllowed          ErrorCode = "FORMAT_NOT_ALLOWED"
	CodeTopicGenerationNotAllowed ErrorCode = "TOPIC_GENERATION_NOT_ALLOWED"
	CodeAnalyticsNotAllowed       ErrorCode = "ANALYTICS_NOT_ALLOWED"
	CodeExportNotAllowed          ErrorCode = "EXPORT_NOT_ALLOWED"

	// Billing.
	CodeInvalidSignature ErrorCode = "INVALID_SIGNATURE"

	// Document extraction.
	CodeExtractionFailed ErrorCode = "EXTRACTION_FAILED"

	// Auth.
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
)
