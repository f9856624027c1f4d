package errors

import (
	"fmt"
	"net/http"
	"time"
)

// API Auth
type authError struct {
	genericError
}

type (
	MissingAuthError             authError
	MalformedAuthError           authError
	InvalidRequestSignatureError authError
	RequestExpiredError          authError
)

var (
	InvalidRequestSignature = &InvalidRequestSignatureError{
		genericError: genericError{
			ID:       InvalidRequestSignatureErrorID,
			HttpCode: http.StatusForbidden,
			Message:  "request signature is not valid",
		},
	}
)

func NewMissingAuthError(header string) *MissingAuthError {
	return &MissingAuthError{
		genericError: genericError{
			ID:       MissingAuthErrorID,
			HttpCode: http.StatusForbidden,
			Message:  fmt.Sprintf("missing %s header", header),
		},
	}
}

func NewMalformedAuthError(header string, reason error) *MalformedAuthError {
	return &MalformedAuthError{
		genericError: genericError{
			ID:       MalformedAuthErrorID,
			HttpCode: http.StatusBadRequest,
			Message:  fmt.Sprintf("malformed %s header: %v", header, reason),
		},
	}
}

func NewRequestExpiredError(skew, limit time.Duration) *RequestExpiredError {
	return &RequestExpiredError{
		genericError: genericError{
			ID:       RequestExpiredErrorID,
			HttpCode: http.StatusForbidden,
			Message:  fmt.Sprintf("request timestamp differs from node time by %s, limit is %s", skew, limit),
		},
	}
}
