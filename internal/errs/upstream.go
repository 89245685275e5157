package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// maxBodyPreview bounds how much of an upstream body is kept for diagnostics.
const maxBodyPreview = 200

// StatusError reports an upstream HTTP response that was not 200 OK.
//
// Code is the service's own error code when it reports one, such as the
// SQLSTATE PostgREST passes through.
type StatusError struct {
	Service    string
	StatusCode int
	Code       string
	Body       string
}

// NewStatusError builds a StatusError, keeping at most the first 200 bytes of body.
func NewStatusError(service string, statusCode int, body []byte) *StatusError {
	preview := strings.TrimSpace(string(body))
	if len(preview) > maxBodyPreview {
		preview = TrimToRune(preview, maxBodyPreview) + "..."
	}
	return &StatusError{
		Service:    service,
		StatusCode: statusCode,
		Body:       preview,
	}
}

// TrimToRune cuts s to at most n bytes without splitting a UTF-8 sequence.
func TrimToRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
}

// StatusCode returns the upstream status carried by err, or 0 when err is
// not a *StatusError.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is an upstream 401/403, the usual
// symptom of a wrong or restricted API key.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
