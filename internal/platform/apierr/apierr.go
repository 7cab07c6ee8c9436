package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable error codes the estimation pipeline reports to callers.
const (
	CodeConfigUnavailable = "config_unavailable"
	CodeMissingCredential = "missing_credential"
	CodeInferenceError    = "inference_error"
	CodeVersionConflict   = "version_conflict"
	CodeQuoteNotFound     = "quote_not_found"
	CodeTenantNotFound    = "tenant_not_found"
	CodeInvalidInput      = "invalid_input"
	CodeInternal          = "internal_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func ConfigUnavailable(err error) *Error {
	return New(http.StatusInternalServerError, CodeConfigUnavailable, err)
}

func MissingCredential(err error) *Error {
	return New(http.StatusPreconditionFailed, CodeMissingCredential, err)
}

func InferenceError(err error) *Error {
	return New(http.StatusBadGateway, CodeInferenceError, err)
}

func VersionConflict(err error) *Error {
	return New(http.StatusConflict, CodeVersionConflict, err)
}

func QuoteNotFound(err error) *Error {
	return New(http.StatusNotFound, CodeQuoteNotFound, err)
}

func InvalidInput(err error) *Error {
	return New(http.StatusBadRequest, CodeInvalidInput, err)
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, err)
}

// Code extracts the stable code from err, or code_internal for plain errors.
func Code(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return CodeInternal
}

// Status extracts the HTTP status from err, defaulting to 500.
func Status(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
