package api

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/pkg/errors"
)

type HandleErrorFunc func(w http.ResponseWriter, r *http.Request, err error)
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

func toHTTPHandlerFunc(handler HandlerFunc, errorHandler HandleErrorFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		err := handler(writer, request)
		if err != nil {
			errorHandler(writer, request, err)
		}
	}
}

func (a *LeaseApi) routes(opts *RunOptions) (chi.Router, error) {
	r := chi.NewRouter()

	if opts.UseRealIPMiddleware {
		// for nginx/haproxy specific headers
		r.Use(middleware.RealIP)
	}
	if opts.CollectMetrics {
		r.Use(chiHttpApiGeneralMetricsMiddleware)
	}
	if opts.RateLimiterOpts != nil {
		rateLimiter, err := newRateLimiter(opts.RateLimiterOpts)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		r.Use(rateLimiter.RateLimit)
	}
	r.Use(middleware.RequestID)
	if opts.LogHttpRequestOpts {
		r.Use(CreateLoggerMiddleware(a.logger))
	}
	if opts.MaxBodySize > 0 {
		r.Use(createBodyLimitMiddleware(opts.MaxBodySize))
	}
	if opts.RouteNotFoundHandler != nil {
		r.NotFound(opts.RouteNotFoundHandler)
	}

	errHandler := NewErrorHandler(a.logger)
	maxSkew := opts.MaxClockSkew
	if maxSkew <= 0 {
		maxSkew = DefaultMaxClockSkew
	}
	authMiddleware := createSignatureAuthMiddleware(a.clock, maxSkew, a.logger, errHandler.Handle)

	wrapper := func(handlerFunc HandlerFunc) http.HandlerFunc {
		return toHTTPHandlerFunc(handlerFunc, errHandler.Handle)
	}

	if opts.EnableHeartbeatRoute {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			if _, err := w.Write([]byte("OK")); err != nil {
				a.logger.Sugar().Errorf("Can't write 'OK' to ResponseWriter: %+v", err)
				w.WriteHeader(http.StatusInternalServerError)
			}
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(JsonContentTypeMiddleware)

		r.Route("/leases", func(r chi.Router) {
			r.Get("/", wrapper(a.Leases))
			r.Get("/{id}", wrapper(a.Lease))
			r.Get("/{id}/verify", wrapper(a.Verify))
			r.Get("/{id}/events", wrapper(a.Events))

			rAuth := r.With(authMiddleware)

			rAuth.Post("/", wrapper(a.Initialize))
			rAuth.Post("/{id}/sign", wrapper(a.Sign))
			rAuth.Post("/{id}/status", wrapper(a.UpdateStatus))
		})

		r.Get("/addresses/{id}", wrapper(a.Address))
	})

	return r, nil
}
