package errors

import (
	"net/http"
)

// ApiError is an error which is sent to API clients as JSON.
// Types which implement ApiError MUST be serializable to JSON.
type ApiError interface {
	error
	GetID() ErrorID
	GetName() string
	GetHttpCode() int
}

type genericError struct {
	ID       ErrorID `json:"error"`
	HttpCode int     `json:"-"`
	Message  string  `json:"message"`
}

func (g *genericError) Error() string {
	return g.Message
}

func (g *genericError) GetID() ErrorID {
	return g.ID
}

func (g *genericError) GetName() string {
	return g.ID.String()
}

func (g *genericError) GetHttpCode() int {
	return g.HttpCode
}

type UnknownError struct {
	genericError
	inner error
}

func (u *UnknownError) Unwrap() error {
	return u.inner
}

func NewUnknownError(inner error) *UnknownError {
	return NewUnknownErrorWrapper(ErrUnknown, inner)
}

func NewUnknownErrorWrapper(unknownErr *UnknownError, inner error) *UnknownError {
	return &UnknownError{
		genericError: unknownErr.genericError,
		inner:        inner,
	}
}

var ErrUnknown = &UnknownError{
	genericError: genericError{
		ID:       UnknownErrorID,
		HttpCode: http.StatusInternalServerError,
		Message:  "Error is unknown",
	},
}
