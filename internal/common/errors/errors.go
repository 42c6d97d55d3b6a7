// internal/common/errors/errors.go
package errors

import (
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeSeekerNotFound    ErrorCode = "SEEKER_NOT_FOUND"
	ErrCodeSeekerStoreFailed ErrorCode = "SEEKER_STORE_FAILED"
	ErrCodeJobStoreFailed    ErrorCode = "JOB_STORE_FAILED"
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrCodeCacheUnavailable  ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeExternalService  ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout          ErrorCode = "TIMEOUT"
	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message string, retryable bool, cause error, details string) *StandardError {
	if details == "" && cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewSeekerNotFoundError(seekerID string, cause error) *StandardError {
	return newError(ErrCodeSeekerNotFound, "Seeker profile not found", false, cause,
		fmt.Sprintf("seekerId: %s", seekerID))
}

func NewSeekerStoreFailedError(err error) *StandardError {
	return newError(ErrCodeSeekerStoreFailed, "Seeker store lookup failed", true, err, "")
}

func NewJobStoreFailedError(err error) *StandardError {
	return newError(ErrCodeJobStoreFailed, "Job store query failed", true, err, "")
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job variables", false, nil, details)
}

func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Recommendation cache unavailable", true, err, "")
}

func NewExternalServiceError(service string, err error) *StandardError {
	e := newError(ErrCodeExternalService, fmt.Sprintf("%s service error", service), true, err, "")
	e.Metadata = map[string]interface{}{"service": service}
	return e
}

func NewTimeoutError(service string, err error) *StandardError {
	e := newError(ErrCodeTimeout, fmt.Sprintf("%s request timed out", service), true, err, "")
	e.Metadata = map[string]interface{}{"service": service}
	return e
}

func NewResourceNotFoundError(service, details string) *StandardError {
	e := newError(ErrCodeResourceNotFound, fmt.Sprintf("%s resource not found", service), false, nil, details)
	e.Metadata = map[string]interface{}{"service": service}
	return e
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", false, err, "")
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeSeekerNotFound:    "SEEKER_NOT_FOUND",
	ErrCodeSeekerStoreFailed: "RECOMMENDATION_UPSTREAM_FAILED",
	ErrCodeJobStoreFailed:    "RECOMMENDATION_UPSTREAM_FAILED",
	ErrCodeInvalidInput:      "INVALID_INPUT",
	ErrCodeCacheUnavailable:  "CACHE_UNAVAILABLE",
	ErrCodeExternalService:   "EXTERNAL_SERVICE_ERROR",
	ErrCodeTimeout:           "TIMEOUT",
	ErrCodeResourceNotFound:  "RESOURCE_NOT_FOUND",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSeekerStoreFailed,
		ErrCodeJobStoreFailed,
		ErrCodeExternalService:
		return 3
	case ErrCodeTimeout, ErrCodeCacheUnavailable:
		return 2
	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "SEEKER"), strings.HasPrefix(codeStr, "JOB_STORE"):
		return "STORE"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case codeStr == string(ErrCodeExternalService), codeStr == string(ErrCodeTimeout):
		return "EXTERNAL"
	default:
		return "INTERNAL"
	}
}
