package ows

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ExceptionCode is an OWS or SOS exception code.
type ExceptionCode string

// Exception codes.
const (
	CodeMissingParameterValue ExceptionCode = "MissingParameterValue"
	CodeInvalidParameterValue ExceptionCode = "InvalidParameterValue"
	CodeOperationNotSupported ExceptionCode = "OperationNotSupported"
	CodeOptionNotSupported    ExceptionCode = "OptionNotSupported"
	CodeVersionNegotiation    ExceptionCode = "VersionNegotiationFailed"
	CodeInvalidUpdateSequence ExceptionCode = "InvalidUpdateSequence"
	CodeInvalidRequest        ExceptionCode = "InvalidRequest"
	CodeNoApplicableCode      ExceptionCode = "NoApplicableCode"
	CodeResponseExceedsLimit  ExceptionCode = "ResponseExceedsSizeLimit"
)

// HTTPStatus returns the HTTP status code the OWS binding prescribes for
// the exception code.
func (c ExceptionCode) HTTPStatus() int {
	switch c {
	case CodeOperationNotSupported:
		return http.StatusNotImplemented
	case CodeNoApplicableCode:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Exception is a single ows:Exception. It implements error so that service
// code can return it directly.
type Exception struct {
	Code    ExceptionCode
	Locator string
	Text    []string
	Cause   error
}

// NewException returns an exception with a formatted text.
func NewException(code ExceptionCode, locator, format string, args ...any) *Exception {
	return &Exception{Code: code, Locator: locator, Text: []string{fmt.Sprintf(format, args...)}}
}

// Error implements the error interface.
func (e *Exception) Error() string {
	msg := strings.Join(e.Text, "; ")
	if e.Locator != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Locator, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying error.
func (e *Exception) Unwrap() error {
	return e.Cause
}

// Is checks whether target is an exception with the same code.
func (e *Exception) Is(target error) bool {
	var t *Exception
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// MissingParameter returns a MissingParameterValue exception.
func MissingParameter(name string) *Exception {
	return NewException(CodeMissingParameterValue, name, "the value for the parameter '%s' is missing", name)
}

// InvalidParameter returns an InvalidParameterValue exception.
func InvalidParameter(name, value string) *Exception {
	return NewException(CodeInvalidParameterValue, name, "the value '%s' of the parameter '%s' is invalid", value, name)
}

// ExceptionReport is an ows:ExceptionReport.
type ExceptionReport struct {
	Version    string
	Lang       string
	Exceptions []*Exception
}

// ReportFromError converts err into an exception report. Errors that are not
// exceptions become NoApplicableCode.
func ReportFromError(version string, err error) *ExceptionReport {
	report := &ExceptionReport{Version: version}
	var exc *Exception
	if errors.As(err, &exc) {
		report.Exceptions = append(report.Exceptions, exc)
		return report
	}
	report.Exceptions = append(report.Exceptions, &Exception{
		Code:  CodeNoApplicableCode,
		Text:  []string{err.Error()},
		Cause: err,
	})
	return report
}

// HTTPStatus returns the status of the first exception.
func (r *ExceptionReport) HTTPStatus() int {
	if len(r.Exceptions) == 0 {
		return http.StatusInternalServerError
	}
	return r.Exceptions[0].Code.HTTPStatus()
}
