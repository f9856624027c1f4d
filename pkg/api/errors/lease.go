package errors

import (
	"fmt"
	"net/http"

	"github.com/rentflow/rentflow/pkg/errs"
)

type leaseError struct {
	genericError
}

type (
	LeaseNotFoundError      leaseError
	LeaseAlreadyExistsError leaseError
	// LeaseProgramError is a rejection by the lease program, its ID is the program error code.
	LeaseProgramError struct {
		genericError
		Name string `json:"name"`
	}
)

func NewLeaseNotFoundError(leaseID string) *LeaseNotFoundError {
	return &LeaseNotFoundError{
		genericError: genericError{
			ID:       LeaseNotFoundErrorID,
			HttpCode: http.StatusNotFound,
			Message:  fmt.Sprintf("lease %q does not exist", leaseID),
		},
	}
}

func NewLeaseAlreadyExistsError(leaseID string) *LeaseAlreadyExistsError {
	return &LeaseAlreadyExistsError{
		genericError: genericError{
			ID:       LeaseAlreadyExistsErrorID,
			HttpCode: http.StatusConflict,
			Message:  fmt.Sprintf("lease %q already exists", leaseID),
		},
	}
}

func NewLeaseProgramError(le *errs.LeaseError) *LeaseProgramError {
	code := http.StatusConflict
	switch {
	case le.IsInput():
		code = http.StatusBadRequest
	case le.IsAuthorization():
		code = http.StatusForbidden
	}
	return &LeaseProgramError{
		genericError: genericError{
			ID:       ErrorID(le.Code()),
			HttpCode: code,
			Message:  le.Error(),
		},
		Name: le.Code().String(),
	}
}

func (e *LeaseProgramError) GetName() string {
	return e.Name
}
