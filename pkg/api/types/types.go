package types

import (
	"github.com/rentflow/rentflow/pkg/crypto"
	"github.com/rentflow/rentflow/pkg/proto"
)

type InitializeRequest struct {
	LeaseID         string           `json:"lease_id"`
	ContentHash     crypto.Digest    `json:"content_hash"`
	Tenant          crypto.PublicKey `json:"tenant"`
	MonthlyRent     uint64           `json:"monthly_rent"`
	SecurityDeposit uint64           `json:"security_deposit"`
	StartDate       int64            `json:"start_date"`
	EndDate         int64            `json:"end_date"`
}

type SignRequest struct {
	SignatureHash crypto.Digest `json:"signature_hash"`
}

type UpdateStatusRequest struct {
	Status proto.LeaseStatus `json:"status"`
}

type AddressResponse struct {
	LeaseID string        `json:"lease_id"`
	Address proto.Address `json:"address"`
	Salt    byte          `json:"salt"`
}

type VerifyResponse struct {
	LeaseID string `json:"lease_id"`
	Valid   bool   `json:"valid"`
}

type EventsResponse struct {
	LeaseID string            `json:"lease_id"`
	Events  []proto.EventJSON `json:"events"`
}

type LeasesResponse struct {
	Leases []*proto.Lease `json:"leases"`
}

// NewEventsResponse tags events with their type names.
func NewEventsResponse(leaseID string, events []proto.Event) EventsResponse {
	res := EventsResponse{LeaseID: leaseID, Events: make([]proto.EventJSON, len(events))}
	for i, e := range events {
		res.Events[i] = proto.EventJSON{Type: e.Type(), Data: e}
	}
	return res
}
