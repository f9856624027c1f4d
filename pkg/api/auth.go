package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	apiErrs "github.com/rentflow/rentflow/pkg/api/errors"
	"github.com/rentflow/rentflow/pkg/crypto"
	"github.com/rentflow/rentflow/pkg/lease"
	"github.com/rentflow/rentflow/pkg/proto"
	"github.com/rentflow/rentflow/pkg/types"
)

const (
	signerHeader    = proto.SignerHeader
	timestampHeader = proto.TimestampHeader
	signatureHeader = proto.SignatureHeader
)

type invocationKey struct{}

var errNoInvocation = errors.New("request is not authenticated")

func invocationFromContext(ctx context.Context) (lease.Invocation, error) {
	inv, ok := ctx.Value(invocationKey{}).(lease.Invocation)
	if !ok {
		return nil, errNoInvocation
	}
	return inv, nil
}

// createSignatureAuthMiddleware verifies the request signature and puts the invocation of the
// signer into the request context. The trusted time is read once per request.
func createSignatureAuthMiddleware(
	clock types.Time, maxSkew time.Duration, logger *zap.Logger, errorHandler HandleErrorFunc,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inv, body, err := authenticate(r, clock, maxSkew, logger)
			if err != nil {
				errorHandler(w, r, err)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), invocationKey{}, inv)))
		})
	}
}

func authenticate(r *http.Request, clock types.Time, maxSkew time.Duration, logger *zap.Logger) (lease.Invocation, []byte, error) {
	signer, err := parseHeader(r, signerHeader, crypto.NewPublicKeyFromBase58)
	if err != nil {
		return nil, nil, err
	}
	ts, err := parseHeader(r, timestampHeader, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
	if err != nil {
		return nil, nil, err
	}
	sig, err := parseHeader(r, signatureHeader, crypto.NewSignatureFromBase58)
	if err != nil {
		return nil, nil, err
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read request body")
	}
	now, err := clock.Now()
	if err != nil {
		logger.Debug("Time is not synchronized", zap.Error(err))
	}
	skew := now.Sub(time.UnixMilli(ts)).Abs()
	if skew > maxSkew {
		metricApiAuthFailures.WithLabelValues("expired").Inc()
		return nil, nil, apiErrs.NewRequestExpiredError(skew, maxSkew)
	}
	ok, err := proto.VerifyRequest(signer, sig, r.Method, r.URL.Path, ts, body)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		metricApiAuthFailures.WithLabelValues("signature").Inc()
		return nil, nil, apiErrs.InvalidRequestSignature
	}
	return lease.NewInvocation(signer, now.Unix()), body, nil
}

func parseHeader[T any](r *http.Request, name string, parse func(string) (T, error)) (T, error) {
	var zero T
	s := r.Header.Get(name)
	if s == "" {
		metricApiAuthFailures.WithLabelValues("missing").Inc()
		return zero, apiErrs.NewMissingAuthError(name)
	}
	v, err := parse(s)
	if err != nil {
		metricApiAuthFailures.WithLabelValues("malformed").Inc()
		return zero, apiErrs.NewMalformedAuthError(name, err)
	}
	return v, nil
}
