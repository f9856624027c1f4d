package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	apiErrs "github.com/rentflow/rentflow/pkg/api/errors"
	"github.com/rentflow/rentflow/pkg/errs"
	"github.com/rentflow/rentflow/pkg/ledger"
)

// leaseIDError attaches the requested lease ID to storage errors.
type leaseIDError struct {
	leaseID string
	inner   error
}

func (e *leaseIDError) Error() string {
	return e.inner.Error()
}

func (e *leaseIDError) Unwrap() error {
	return e.inner
}

func withLeaseID(leaseID string, err error) error {
	if err == nil {
		return nil
	}
	return &leaseIDError{leaseID: leaseID, inner: err}
}

type ErrorHandler struct {
	logger *zap.Logger
}

func NewErrorHandler(logger *zap.Logger) ErrorHandler {
	return ErrorHandler{
		logger: logger,
	}
}

func (eh *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	// target errors
	var (
		unknownError = &apiErrs.UnknownError{}
		apiError     = apiErrs.ApiError(nil)
		leaseError   = &errs.LeaseError{}
		maxBytes     = &http.MaxBytesError{}
		idError      = &leaseIDError{}
	)
	switch {
	case errors.As(err, &unknownError):
		eh.logRequestError("UnknownError", r, err)
		eh.sendApiErrJSON(w, r, unknownError)
	case errors.As(err, &apiError):
		eh.sendApiErrJSON(w, r, apiError)
	case errors.As(err, &leaseError):
		eh.sendApiErrJSON(w, r, apiErrs.NewLeaseProgramError(leaseError))
	case errors.As(err, &maxBytes):
		eh.sendApiErrJSON(w, r, apiErrs.NewBodyTooLargeError(maxBytes.Limit))
	case errors.Is(err, ledger.ErrAccountNotFound) && errors.As(err, &idError):
		eh.sendApiErrJSON(w, r, apiErrs.NewLeaseNotFoundError(idError.leaseID))
	case errors.Is(err, ledger.ErrAccountExists) && errors.As(err, &idError):
		eh.sendApiErrJSON(w, r, apiErrs.NewLeaseAlreadyExistsError(idError.leaseID))
	default:
		eh.logRequestError("InternalServerError", r, err)
		unknownErrWrapper := apiErrs.NewUnknownError(err)
		eh.sendApiErrJSON(w, r, unknownErrWrapper)
	}
}

func (eh *ErrorHandler) logRequestError(msg string, r *http.Request, err error) {
	eh.logger.Error(msg,
		zap.String("proto", r.Proto),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("remote_addr", r.RemoteAddr),
		zap.Error(err),
	)
}

func (eh *ErrorHandler) sendApiErrJSON(w http.ResponseWriter, r *http.Request, apiErr apiErrs.ApiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.GetHttpCode())
	if encodeErr := json.NewEncoder(w).Encode(apiErr); encodeErr != nil {
		eh.logger.Error("Failed to marshal API Error to JSON",
			zap.String("proto", r.Proto),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(encodeErr),
			zap.String("api_error", apiErr.Error()),
		)
		// Type which implements ApiError interface MUST be serializable to JSON.
		panic(errors.Errorf("BUG, CREATE REPORT: %s", encodeErr.Error()))
	}
}
