package client

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type RequestError struct {
	Err  error
	Body string
}

func newRequestError(err error, body string) *RequestError {
	return &RequestError{Err: err, Body: body}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Error() string {
	if e.Body != "" {
		return errors.Wrap(e.Err, e.Body).Error()
	}
	return e.Err.Error()
}

type ParseError struct {
	Err error
}

func newParseError(err error) *ParseError {
	return &ParseError{Err: err}
}

func (e ParseError) Unwrap() error {
	return e.Err
}

func (e ParseError) Error() string {
	return e.Err.Error()
}

// ApiError is an error reply of the lease API. Lease program rejections carry the program
// error code in ID and its name in Name.
type ApiError struct {
	StatusCode int    `json:"-"`
	ID         uint16 `json:"error"`
	Name       string `json:"name,omitempty"`
	Message    string `json:"message"`
}

func newApiError(status int, body []byte) *ApiError {
	e := &ApiError{StatusCode: status}
	if err := json.Unmarshal(body, e); err != nil || e.Message == "" {
		e.Message = errors.Errorf("Invalid status code: expect 2xx got %d", status).Error()
	}
	return e
}

func (e *ApiError) Error() string {
	if e.Name != "" {
		return e.Name + ": " + e.Message
	}
	return e.Message
}

// AsApiError extracts the API reply from an error returned by the client.
func AsApiError(err error) (*ApiError, bool) {
	var ae *ApiError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
