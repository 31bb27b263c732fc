package dto

// Error kinds reported in the "error" field of every error body
const (
	ErrorKindNotFound       = "NotFound"
	ErrorKindAlreadyExists  = "AlreadyExists"
	ErrorKindUnauthorized   = "Unauthorized"
	ErrorKindForbidden      = "Forbidden"
	ErrorKindValidation     = "ValidationError"
	ErrorKindRateLimited    = "RateLimitExceeded"
	ErrorKindInternalServer = "InternalServerError"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Detail string       `json:"detail"`
	Error  string       `json:"error"`
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError describes one failed request field
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// NewErrorResponse creates a plain error body
func NewErrorResponse(kind, detail string) ErrorResponse {
	return ErrorResponse{Detail: detail, Error: kind}
}

// NewValidationErrorResponse creates the aggregated request validation body
func NewValidationErrorResponse(errs []FieldError) ErrorResponse {
	return ErrorResponse{
		Detail: "Validation error",
		Error:  ErrorKindValidation,
		Errors: errs,
	}
}
