package apperrors

import (
	"net/http"
)

/*
Factories and predeclared variables for domain errors.
Factories wrap repository errors; variables cover frequent static cases.
*/

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound
// already mapped to a sentinel) into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"An account with this email already exists",
	http.StatusConflict,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 8 characters",
	http.StatusBadRequest,
)

// --- Plan entitlements ---

// QuotaExceededDetails is attached to ErrQuotaExceeded so the client can
// offer a reduced count instead of retrying blindly.
type QuotaExceededDetails struct {
	Remaining int `json:"remaining"`
	Limit     int `json:"limit"`
}

// ErrQuotaExceeded reports the monthly card limit. Callers attach
// QuotaExceededDetails via WithDetails.
func ErrQuotaExceeded(remaining, limit int) *AppError {
	return New(
		CodeQuotaExceeded,
		"entitlements",
		"Monthly card limit reached",
		http.StatusForbidden,
	).WithDetails(QuotaExceededDetails{Remaining: remaining, Limit: limit})
}

var ErrFormatNotAllowed = New(
	CodeFormatNotAllowed,
	"entitlements",
	"Your plan does not support this card format",
	http.StatusForbidden,
)

var ErrTopicGenerationNotAllowed = New(
	CodeTopicGenerationNotAllowed,
	"entitlements",
	"Topic-based generation requires a Premium plan",
	http.StatusForbidden,
)

var ErrAnalyticsNotAllowed = New(
	CodeAnalyticsNotAllowed,
	"entitlements",
	"Analytics requires a Pro or Premium plan",
	http.StatusForbidden,
)

var ErrExportNotAllowed = New(
	CodeExportNotAllowed,
	"entitlements",
	"CSV export requires a Premium plan",
	http.StatusForbidden,
)

// --- Billing ---

var ErrInvalidSignature = New(
	CodeInvalidSignature,
	"billing",
	"Webhook signature verification failed",
	http.StatusBadRequest,
)

var ErrNoBillingAccount = New(
	CodeNotFound,
	"billing",
	"No billing account found. Subscribe to a plan first",
	http.StatusNotFound,
)

var ErrPlanNotPurchasable = New(
	CodeValidationFailed,
	"billing",
	"This plan is not available for purchase",
	http.StatusBadRequest,
)

// --- Document extraction ---

var ErrExtractionTimeout = New(
	CodeExtractionFailed,
	"extract",
	"Document parsing timed out. Try a smaller file or paste the text directly",
	http.StatusRequestTimeout,
)

var ErrUnsupportedDocument = New(
	CodeExtractionFailed,
	"extract",
	"Unsupported file type. Upload a PDF, TXT or Markdown document",
	http.StatusUnsupportedMediaType,
)

var ErrNoExtractableText = New(
	CodeExtractionFailed,
	"extract",
	"Could not extract text from this document. It may be a scanned image or password-protected",
	http.StatusUnprocessableEntity,
)

var ErrDocumentTooLarge = New(
	CodeValidationFailed,
	"extract",
	"File too large. Maximum size is 10 MB",
	http.StatusRequestEntityTooLarge,
)
