package errors

import (
	"fmt"
	"net/http"
)

type validationError struct {
	genericError
}

type (
	InvalidJSONError      validationError
	BodyTooLargeError     validationError
	InvalidPublicKeyError validationError
	InvalidDigestError    validationError
	InvalidStatusError    validationError
	InvalidAddressError   validationError
	InvalidLeaseIDError   validationError
)

var (
	InvalidJSON = &InvalidJSONError{
		genericError: genericError{
			ID:       InvalidJSONErrorID,
			HttpCode: http.StatusBadRequest,
			Message:  "failed to parse json message",
		},
	}
	InvalidPublicKey = &InvalidPublicKeyError{
		genericError: genericError{
			ID:       InvalidPublicKeyErrorID,
			HttpCode: http.StatusBadRequest,
			Message:  "invalid public key",
		},
	}
	InvalidDigest = &InvalidDigestError{
		genericError: genericError{
			ID:       InvalidDigestErrorID,
			HttpCode: http.StatusBadRequest,
			Message:  "invalid digest",
		},
	}
	InvalidStatus = &InvalidStatusError{
		genericError: genericError{
			ID:       InvalidStatusErrorID,
			HttpCode: http.StatusBadRequest,
			Message:  "invalid lease status",
		},
	}
	InvalidAddress = &InvalidAddressError{
		genericError: genericError{
			ID:       InvalidAddressErrorID,
			HttpCode: http.StatusBadRequest,
			Message:  "invalid address",
		},
	}
)

func NewBodyTooLargeError(limit int64) *BodyTooLargeError {
	return &BodyTooLargeError{
		genericError: genericError{
			ID:       BodyTooLargeErrorID,
			HttpCode: http.StatusRequestEntityTooLarge,
			Message:  fmt.Sprintf("request body exceeds %d bytes", limit),
		},
	}
}

func NewInvalidJSONError(reason string) *InvalidJSONError {
	return &InvalidJSONError{
		genericError: genericError{
			ID:       InvalidJSONErrorID,
			HttpCode: http.StatusBadRequest,
			Message:  fmt.Sprintf("failed to parse json message: %s", reason),
		},
	}
}

func NewInvalidLeaseIDError(reason string) *InvalidLeaseIDError {
	return &InvalidLeaseIDError{
		genericError: genericError{
			ID:       InvalidLeaseIDErrorID,
			HttpCode: http.StatusBadRequest,
			Message:  fmt.Sprintf("invalid lease ID: %s", reason),
		},
	}
}
