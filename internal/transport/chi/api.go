package chi

import "time"

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeMethodNotAllowed ErrorCode = "method_not_allowed"
	ErrorCodeEmptyQuery       ErrorCode = "empty_query"
	ErrorCodeNoResults        ErrorCode = "no_results"
	ErrorCodeModelNotLoaded   ErrorCode = "model_not_loaded"
	ErrorCodeRateLimited      ErrorCode = "rate_limited"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchRequest is the JSON body of POST /api/v1/search.
type SearchRequest struct {
	Skills            string   `json:"skills"`
	JobRole           string   `json:"job_role"`
	CompanyPreference string   `json:"company_preference"`
	Qualification     string   `json:"qualification"`
	TopK              *int     `json:"top_k,omitempty"`
	MinScore          *float64 `json:"min_score,omitempty"`
}

// SearchParams are the query parameters of GET /api/v1/search.
type SearchParams struct {
	Skills            *string
	JobRole           *string
	CompanyPreference *string
	Qualification     *string
	TopK              *int
	MinScore          *float64
}

// MatchItem is one ranked job record.
type MatchItem struct {
	Rank   int               `json:"rank"`
	Score  float64           `json:"score"`
	Row    int               `json:"row"`
	Record map[string]string `json:"record"`
}

// SearchResponse lists matches best first.
type SearchResponse struct {
	Items []MatchItem `json:"items"`
	Total int         `json:"total"`
	TopK  int         `json:"top_k"`
	Model string      `json:"model"`
}

// ModelResponse describes the serving model.
type ModelResponse struct {
	Fingerprint    string    `json:"fingerprint"`
	Documents      int       `json:"documents"`
	Terms          int       `json:"vocabulary_size"`
	Fields         []string  `json:"fields"`
	CombinedColumn string    `json:"combined_column"`
	LoadedAt       time.Time `json:"loaded_at"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
