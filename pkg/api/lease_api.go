package api

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	apiErrs "github.com/rentflow/rentflow/pkg/api/errors"
	apiTypes "github.com/rentflow/rentflow/pkg/api/types"
	"github.com/rentflow/rentflow/pkg/crypto"
	"github.com/rentflow/rentflow/pkg/lease"
	"github.com/rentflow/rentflow/pkg/proto"
	"github.com/rentflow/rentflow/pkg/types"
)

const shutdownTimeout = 5 * time.Second

// LeaseService executes lease operations on behalf of API clients.
type LeaseService interface {
	Address(leaseID string) (proto.Address, byte, error)
	Initialize(inv lease.Invocation, params lease.InitializeParams) (proto.Address, error)
	Sign(inv lease.Invocation, leaseID string, signatureHash crypto.Digest) error
	UpdateStatus(inv lease.Invocation, leaseID string, status proto.LeaseStatus) error
	Verify(leaseID string) (bool, error)
	Lease(leaseID string) (*proto.Lease, error)
	Leases() ([]*proto.Lease, error)
	Events(leaseID string) ([]proto.Event, error)
}

type LeaseApi struct {
	service LeaseService
	clock   types.Time
	logger  *zap.Logger
}

func NewLeaseApi(service LeaseService, clock types.Time, logger *zap.Logger) *LeaseApi {
	return &LeaseApi{service: service, clock: clock, logger: logger}
}

// Run serves the API at address until ctx is done.
func Run(ctx context.Context, address string, a *LeaseApi, opts *RunOptions) error {
	routes, err := a.routes(opts)
	if err != nil {
		return errors.Wrap(err, "failed to create API routes")
	}
	l, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", address)
	}
	if opts.MaxConnections > 0 {
		l = newLimitListener(l, opts.MaxConnections)
	}
	apiServer := &http.Server{Handler: routes, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		a.logger.Info("Shutting down API...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := apiServer.Shutdown(sctx); err != nil {
			a.logger.Error("Failed to shutdown API server", zap.Error(err))
		}
	}()
	a.logger.Info("Starting API", zap.String("address", address))
	err = apiServer.Serve(l)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *LeaseApi) Initialize(w http.ResponseWriter, r *http.Request) error {
	inv, err := invocationFromContext(r.Context())
	if err != nil {
		return err
	}
	req := apiTypes.InitializeRequest{}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.Tenant == (crypto.PublicKey{}) {
		return apiErrs.InvalidPublicKey
	}
	params := lease.InitializeParams{
		LeaseID:         req.LeaseID,
		ContentHash:     req.ContentHash,
		Tenant:          req.Tenant,
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
		StartTime:       req.StartDate,
		EndTime:         req.EndDate,
	}
	addr, err := a.service.Initialize(inv, params)
	if err != nil {
		return withLeaseID(req.LeaseID, err)
	}
	_, salt, err := a.service.Address(req.LeaseID)
	if err != nil {
		return err
	}
	w.WriteHeader(http.StatusCreated)
	return trySendJson(w, apiTypes.AddressResponse{LeaseID: req.LeaseID, Address: addr, Salt: salt})
}

func (a *LeaseApi) Sign(w http.ResponseWriter, r *http.Request) error {
	inv, err := invocationFromContext(r.Context())
	if err != nil {
		return err
	}
	id, err := leaseIDParam(r)
	if err != nil {
		return err
	}
	req := apiTypes.SignRequest{}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.SignatureHash.IsZero() {
		return apiErrs.InvalidDigest
	}
	if err := a.service.Sign(inv, id, req.SignatureHash); err != nil {
		return withLeaseID(id, err)
	}
	return a.sendLease(w, id)
}

func (a *LeaseApi) UpdateStatus(w http.ResponseWriter, r *http.Request) error {
	inv, err := invocationFromContext(r.Context())
	if err != nil {
		return err
	}
	id, err := leaseIDParam(r)
	if err != nil {
		return err
	}
	req := apiTypes.UpdateStatusRequest{}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := a.service.UpdateStatus(inv, id, req.Status); err != nil {
		return withLeaseID(id, err)
	}
	return a.sendLease(w, id)
}

func (a *LeaseApi) Lease(w http.ResponseWriter, r *http.Request) error {
	id, err := leaseIDParam(r)
	if err != nil {
		return err
	}
	return a.sendLease(w, id)
}

func (a *LeaseApi) Leases(w http.ResponseWriter, _ *http.Request) error {
	leases, err := a.service.Leases()
	if err != nil {
		return err
	}
	return trySendJson(w, apiTypes.LeasesResponse{Leases: leases})
}

func (a *LeaseApi) Verify(w http.ResponseWriter, r *http.Request) error {
	id, err := leaseIDParam(r)
	if err != nil {
		return err
	}
	ok, err := a.service.Verify(id)
	if err != nil {
		return withLeaseID(id, err)
	}
	return trySendJson(w, apiTypes.VerifyResponse{LeaseID: id, Valid: ok})
}

func (a *LeaseApi) Events(w http.ResponseWriter, r *http.Request) error {
	id, err := leaseIDParam(r)
	if err != nil {
		return err
	}
	if _, err := a.service.Lease(id); err != nil {
		return withLeaseID(id, err)
	}
	events, err := a.service.Events(id)
	if err != nil {
		return withLeaseID(id, err)
	}
	return trySendJson(w, apiTypes.NewEventsResponse(id, events))
}

func (a *LeaseApi) Address(w http.ResponseWriter, r *http.Request) error {
	id, err := leaseIDParam(r)
	if err != nil {
		return err
	}
	addr, salt, err := a.service.Address(id)
	if err != nil {
		return err
	}
	return trySendJson(w, apiTypes.AddressResponse{LeaseID: id, Address: addr, Salt: salt})
}

func (a *LeaseApi) sendLease(w http.ResponseWriter, id string) error {
	l, err := a.service.Lease(id)
	if err != nil {
		return withLeaseID(id, err)
	}
	return trySendJson(w, l)
}

func leaseIDParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id, nil
	}
	unescaped, err := url.PathUnescape(id)
	if err != nil {
		return "", apiErrs.NewInvalidLeaseIDError(err.Error())
	}
	return unescaped, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return err
		}
		return apiErrs.NewInvalidJSONError(err.Error())
	}
	return nil
}

func trySendJson(w io.Writer, v any) error {
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal to JSON and write to ResponseWriter")
	}
	return nil
}
