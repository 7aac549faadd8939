// Package apierror defines the error envelope returned by every 4xx/5xx
// response. Handlers never expose internal errors (file paths, SQL, stack
// traces) to the UI; they go through this package instead.
package apierror

// APIError is the canonical error body: {"detail": "..."}.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries per-field binding failures.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
