package constants

// ============================================================================
// AUTHENTICATION & SESSION ERRORS
// ============================================================================

const (
	ErrMissingUserID      = "user_id is required in the request"
	ErrInvalidSession     = "Your session has expired or is invalid. Please login again"
	ErrUnauthorized       = "You are not authorized to access this company"
	ErrMethodNotAllowed   = "Method Not Allowed"
	ErrInvalidRequestBody = "Invalid request body"
)

// ============================================================================
// UPLOAD / EXTRACTION ERRORS — fatal to the upload, no partial commits
// ============================================================================

const (
	ErrFailedToParseForm  = "Failed to parse multipart form: "
	ErrNoFileUploaded     = "No file uploaded"
	ErrInvalidWorkbook    = "The file could not be read as a spreadsheet or has no sheets"
	ErrMissingScenarios   = "The viability workbook has none of the three scenario headers"
	ErrUnexpectedLayout   = "The BPO workbook column count does not fit the expected monthly layout"
	ErrEmptyExtraction    = "The workbook produced no line items and no special blocks"
	ErrUnknownMonthHeader = "A month header could not be resolved to a Portuguese month name"
	ErrCompanyIDRequired  = "company_id is required and must be a positive integer"
	ErrYearRequired       = "year is required and must be a four digit year"
)

// ============================================================================
// AGGREGATION ERRORS
// ============================================================================

const (
	ErrInvalidRange   = "The end of the period range is before its start"
	ErrInvalidDreView = "dre_view must be one of fluxo_caixa, real, real_mp"
)

// ============================================================================
// DB / SQL ERRORS
// ============================================================================

const (
	ErrDB              = "DB error"
	ErrTxBeginFailed   = "failed to start transaction: "
	ErrTxCommitFailed  = "failed to commit transaction: "
	ErrQueryFailed     = "query failed: "
	ErrStorageConflict = "A concurrent upload for the same period is in progress. Please retry"
	ErrInternalServer  = "Internal server error"
)
