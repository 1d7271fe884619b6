package judokit

import (
	"errors"
	"fmt"

	"github.com/hugochinchilla79/judokit_sdk/models"
)

// JudoError is the single error type surfaced by the SDK. Local validation
// failures are returned synchronously by the call that detects them; backend
// and transport failures reach the caller through a Completion.
type JudoError struct {
	Code     ErrorCode
	Category ErrorCategory

	// Title and Message are user-facing copy. Both are empty for
	// CodeUserDidCancel and for backend errors that carry no message.
	Title   string
	Message string

	// Hint is developer-facing and never empty.
	Hint string

	// Details holds field-level validation errors from the backend.
	Details []models.ModelError

	// HTTPStatus and Body are set when the error came from an HTTP response.
	HTTPStatus int
	Body       []byte

	// Receipt is set when the backend declined a transaction.
	Receipt *models.Receipt

	// Challenge is set for CodeThreeDSAuthRequest.
	Challenge *ThreeDSChallenge

	cause error
}

// NewJudoError returns the error for a device-local code with its fixed copy.
// Backend codes get a generic hint; use NewRemoteError for backend responses.
func NewJudoError(code ErrorCode) *JudoError {
	e := &JudoError{Code: code, Category: code.Category()}
	if entry, ok := errorTable[code]; ok && entry.local != nil {
		e.Title = entry.local.title
		e.Message = entry.local.message
		e.Hint = entry.local.hint
		return e
	}
	e.Hint = fmt.Sprintf("Judo API error %d (%s)", int(code), code)
	return e
}

func newLocalError(code ErrorCode, cause error) *JudoError {
	e := NewJudoError(code)
	e.cause = cause
	return e
}

// NewRemoteError builds an error from a decoded backend error envelope.
func NewRemoteError(status int, env ErrorEnvelope) *JudoError {
	code := ErrorCode(env.Code)
	category := code.Category()
	if _, known := errorTable[code]; !known && env.Category > int(CategoryUnknown) && env.Category <= int(CategoryException) {
		category = ErrorCategory(env.Category)
	}

	e := &JudoError{
		Code:       code,
		Category:   category,
		Message:    env.Message,
		Details:    env.fieldErrors(),
		HTTPStatus: status,
	}

	hint := fmt.Sprintf("Judo API responded with %s (%d)", code, int(code))
	if status != 0 {
		hint += fmt.Sprintf(", HTTP %d", status)
	}
	if env.Message != "" {
		hint += ": " + env.Message
	}
	if n := len(e.Details); n > 0 {
		hint += fmt.Sprintf(" (%d field errors)", n)
	}
	e.Hint = hint
	return e
}

// Error prefers the backend message and falls back to the hint.
func (e *JudoError) Error() string {
	if e.Message != "" && !e.Code.IsLocal() {
		return fmt.Sprintf("judokit: %s (%d): %s", e.Code, int(e.Code), e.Message)
	}
	return fmt.Sprintf("judokit: %s (%d): %s", e.Code, int(e.Code), e.Hint)
}

// Unwrap returns the transport or decoding failure behind the error, if any.
func (e *JudoError) Unwrap() error { return e.cause }

// Is matches another *JudoError with the same code, so callers can write
// errors.Is(err, judokit.NewJudoError(judokit.CodeCardAndToken)).
func (e *JudoError) Is(target error) bool {
	t, ok := target.(*JudoError)
	return ok && t.Code == e.Code
}

// IsCancellation reports whether the error is a silent user cancellation.
func (e *JudoError) IsCancellation() bool {
	return e.Code == CodeUserDidCancel
}

// AsJudoError extracts a *JudoError from err.
func AsJudoError(err error) (*JudoError, bool) {
	var je *JudoError
	if errors.As(err, &je) {
		return je, true
	}
	return nil, false
}

// HasCode reports whether err is a *JudoError with the given code.
func HasCode(err error, code ErrorCode) bool {
	je, ok := AsJudoError(err)
	return ok && je.Code == code
}
