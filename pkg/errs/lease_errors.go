package errs

import (
	"fmt"
)

// LeaseErrorCode is a stable numeric code of a lease program error.
type LeaseErrorCode uint32

const leaseErrorCodeOffset = 6000

const (
	LeaseIDTooLong LeaseErrorCode = iota + leaseErrorCodeOffset
	InvalidRentAmount
	InvalidDateRange
	UnauthorizedSigner
	LeaseNotPending
	AlreadySigned
	LeaseNotEnded
	InvalidStatusTransition
)

type errorClass byte

const (
	classInput errorClass = iota
	classAuthorization
	classState
)

type codeInfo struct {
	name    string
	message string
	class   errorClass
}

var leaseErrorCodes = map[LeaseErrorCode]codeInfo{
	LeaseIDTooLong:          {"LeaseIdTooLong", "Lease ID exceeds maximum length of 64 characters", classInput},
	InvalidRentAmount:       {"InvalidRentAmount", "Monthly rent must be greater than zero", classInput},
	InvalidDateRange:        {"InvalidDateRange", "End date must be after start date", classInput},
	UnauthorizedSigner:      {"UnauthorizedSigner", "Signer is not authorized for this lease", classAuthorization},
	LeaseNotPending:         {"LeaseNotPending", "Lease is not in pending status", classState},
	AlreadySigned:           {"AlreadySigned", "Lease has already been signed by this party", classState},
	LeaseNotEnded:           {"LeaseNotEnded", "Lease has not reached end date", classState},
	InvalidStatusTransition: {"InvalidStatusTransition", "Invalid status transition", classState},
}

func (c LeaseErrorCode) String() string {
	if info, ok := leaseErrorCodes[c]; ok {
		return info.name
	}
	return fmt.Sprintf("LeaseErrorCode(%d)", uint32(c))
}

// LeaseErrorCodes returns all known codes in ascending order.
func LeaseErrorCodes() []LeaseErrorCode {
	return []LeaseErrorCode{
		LeaseIDTooLong,
		InvalidRentAmount,
		InvalidDateRange,
		UnauthorizedSigner,
		LeaseNotPending,
		AlreadySigned,
		LeaseNotEnded,
		InvalidStatusTransition,
	}
}

// LeaseError is returned by lease program operations. Two lease errors match with errors.Is
// when their codes are equal, whatever the extended message is.
type LeaseError struct {
	ValidationErrorImpl
	code    LeaseErrorCode
	message string
}

func NewLeaseError(code LeaseErrorCode) *LeaseError {
	return &LeaseError{code: code, message: leaseErrorCodes[code].message}
}

func (a LeaseError) Error() string {
	return a.message
}

func (a LeaseError) Code() LeaseErrorCode {
	return a.code
}

func (a LeaseError) Extend(message string) error {
	return &LeaseError{code: a.code, message: extendedMessage(a, message)}
}

func (a LeaseError) Is(target error) bool {
	switch t := target.(type) {
	case *LeaseError:
		return t != nil && t.code == a.code
	case LeaseError:
		return t.code == a.code
	default:
		return false
	}
}

// IsInput reports whether the error is caused by malformed arguments.
func (a LeaseError) IsInput() bool {
	return leaseErrorCodes[a.code].class == classInput
}

// IsAuthorization reports whether the caller was not allowed to perform the operation.
func (a LeaseError) IsAuthorization() bool {
	return leaseErrorCodes[a.code].class == classAuthorization
}

// IsState reports whether the operation conflicts with the current lease state.
func (a LeaseError) IsState() bool {
	return leaseErrorCodes[a.code].class == classState
}

var (
	ErrLeaseIDTooLong          = NewLeaseError(LeaseIDTooLong)
	ErrInvalidRentAmount       = NewLeaseError(InvalidRentAmount)
	ErrInvalidDateRange        = NewLeaseError(InvalidDateRange)
	ErrUnauthorizedSigner      = NewLeaseError(UnauthorizedSigner)
	ErrLeaseNotPending         = NewLeaseError(LeaseNotPending)
	ErrAlreadySigned           = NewLeaseError(AlreadySigned)
	ErrLeaseNotEnded           = NewLeaseError(LeaseNotEnded)
	ErrInvalidStatusTransition = NewLeaseError(InvalidStatusTransition)
)
