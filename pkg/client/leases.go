package client

import (
	"context"
	"net/http"
	"net/url"

	apiTypes "github.com/rentflow/rentflow/pkg/api/types"
	"github.com/rentflow/rentflow/pkg/crypto"
	"github.com/rentflow/rentflow/pkg/proto"
)

type Leases struct {
	options Options
}

// NewLeases create new leases block
func NewLeases(options Options) *Leases {
	return &Leases{
		options: options,
	}
}

func leasePath(leaseID string, suffix ...string) string {
	p := "leases/" + url.PathEscape(leaseID)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func (a *Leases) get(ctx context.Context, path string, out any) (*Response, error) {
	req, err := newRequest(a.options, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return doHTTP(ctx, a.options, req, out)
}

func (a *Leases) post(ctx context.Context, path string, body, out any) (*Response, error) {
	req, err := newSignedRequest(a.options, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	return doHTTP(ctx, a.options, req, out)
}

// Initialize creates a lease managed by the client key.
func (a *Leases) Initialize(ctx context.Context, body apiTypes.InitializeRequest) (*apiTypes.AddressResponse, *Response, error) {
	out := new(apiTypes.AddressResponse)
	response, err := a.post(ctx, "leases", body, out)
	if err != nil {
		return nil, response, err
	}
	return out, response, nil
}

// Sign signs the lease with the client key and returns the updated lease.
func (a *Leases) Sign(ctx context.Context, leaseID string, signatureHash crypto.Digest) (*proto.Lease, *Response, error) {
	out := new(proto.Lease)
	body := apiTypes.SignRequest{SignatureHash: signatureHash}
	response, err := a.post(ctx, leasePath(leaseID, "sign"), body, out)
	if err != nil {
		return nil, response, err
	}
	return out, response, nil
}

func (a *Leases) UpdateStatus(ctx context.Context, leaseID string, status proto.LeaseStatus) (*proto.Lease, *Response, error) {
	out := new(proto.Lease)
	body := apiTypes.UpdateStatusRequest{Status: status}
	response, err := a.post(ctx, leasePath(leaseID, "status"), body, out)
	if err != nil {
		return nil, response, err
	}
	return out, response, nil
}

func (a *Leases) Lease(ctx context.Context, leaseID string) (*proto.Lease, *Response, error) {
	out := new(proto.Lease)
	response, err := a.get(ctx, leasePath(leaseID), out)
	if err != nil {
		return nil, response, err
	}
	return out, response, nil
}

func (a *Leases) List(ctx context.Context) ([]*proto.Lease, *Response, error) {
	out := new(apiTypes.LeasesResponse)
	response, err := a.get(ctx, "leases", out)
	if err != nil {
		return nil, response, err
	}
	return out.Leases, response, nil
}

func (a *Leases) Verify(ctx context.Context, leaseID string) (bool, *Response, error) {
	out := new(apiTypes.VerifyResponse)
	response, err := a.get(ctx, leasePath(leaseID, "verify"), out)
	if err != nil {
		return false, response, err
	}
	return out.Valid, response, nil
}

func (a *Leases) Events(ctx context.Context, leaseID string) ([]proto.EventJSON, *Response, error) {
	out := new(apiTypes.EventsResponse)
	response, err := a.get(ctx, leasePath(leaseID, "events"), out)
	if err != nil {
		return nil, response, err
	}
	return out.Events, response, nil
}

// Address returns the derived address of the lease, the lease does not have to exist.
func (a *Leases) Address(ctx context.Context, leaseID string) (*apiTypes.AddressResponse, *Response, error) {
	out := new(apiTypes.AddressResponse)
	response, err := a.get(ctx, "addresses/"+url.PathEscape(leaseID), out)
	if err != nil {
		return nil, response, err
	}
	return out, response, nil
}
