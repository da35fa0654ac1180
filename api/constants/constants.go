package constants

// Form / JSON field keys
const (
	KeyUserID    = "user_id"
	KeyCompanyID = "company_id"
	KeyYear      = "year"
	KeyFile      = "file"
)

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "Content-Type"
)

// Response keys
const (
	ValueSuccess = "success"
)

// Date formats
const (
	DateTimeFormat = "2006-01-02 15:04:05"
	DateFormat     = "2006-01-02"
)

// DRE views selectable by the aggregation API
const (
	DreViewFluxoCaixa = "fluxo_caixa"
	DreViewReal       = "real"
	DreViewRealMP     = "real_mp"
)
