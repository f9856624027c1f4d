package errors

import (
	"fmt"
)

type ErrorID uint16

const (
	UnknownErrorID ErrorID = iota
	InvalidJSONErrorID
	BodyTooLargeErrorID
	InvalidPublicKeyErrorID
	InvalidDigestErrorID
	InvalidStatusErrorID
	InvalidAddressErrorID
	InvalidLeaseIDErrorID
)

const (
	MissingAuthErrorID ErrorID = iota + 100
	MalformedAuthErrorID
	InvalidRequestSignatureErrorID
	RequestExpiredErrorID
)

const (
	LeaseNotFoundErrorID ErrorID = iota + 200
	LeaseAlreadyExistsErrorID
)

var errorNames = map[ErrorID]string{
	UnknownErrorID:                 "UnknownError",
	InvalidJSONErrorID:             "InvalidJSON",
	BodyTooLargeErrorID:            "BodyTooLarge",
	InvalidPublicKeyErrorID:        "InvalidPublicKey",
	InvalidDigestErrorID:           "InvalidDigest",
	InvalidStatusErrorID:           "InvalidStatus",
	InvalidAddressErrorID:          "InvalidAddress",
	InvalidLeaseIDErrorID:          "InvalidLeaseID",
	MissingAuthErrorID:             "MissingAuthentication",
	MalformedAuthErrorID:           "MalformedAuthentication",
	InvalidRequestSignatureErrorID: "InvalidRequestSignature",
	RequestExpiredErrorID:          "RequestExpired",
	LeaseNotFoundErrorID:           "LeaseNotFound",
	LeaseAlreadyExistsErrorID:      "LeaseAlreadyExists",
}

func (i ErrorID) String() string {
	if name, ok := errorNames[i]; ok {
		return name
	}
	return fmt.Sprintf("ErrorID(%d)", uint16(i))
}
