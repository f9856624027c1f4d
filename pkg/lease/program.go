package lease

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/rentflow/rentflow/pkg/crypto"
	"github.com/rentflow/rentflow/pkg/errs"
	"github.com/rentflow/rentflow/pkg/ledger"
	"github.com/rentflow/rentflow/pkg/metrics"
	"github.com/rentflow/rentflow/pkg/proto"
)

const (
	opInitialize   = "initialize"
	opSign         = "sign"
	opUpdateStatus = "update_status"
	opVerify       = "verify"
)

// Ledger is the record storage used by the program.
type Ledger interface {
	DeriveAddress(seeds ...[]byte) (proto.Address, byte, error)
	Create(addr proto.Address, payer crypto.PublicKey, size int) (ledger.Handle, error)
	LoadMut(addr proto.Address) (ledger.Handle, error)
	Load(addr proto.Address) (ledger.Handle, error)
	Events(addr proto.Address) ([][]byte, error)
	Addresses() ([]proto.Address, error)
}

// Invocation carries the authenticated caller and the trusted time of one operation.
type Invocation interface {
	Signer() crypto.PublicKey
	Now() int64
}

type InitializeParams struct {
	LeaseID         string
	ContentHash     crypto.Digest
	Tenant          crypto.PublicKey
	MonthlyRent     uint64
	SecurityDeposit uint64
	StartTime       int64
	EndTime         int64
}

func (p InitializeParams) validate() error {
	if len(p.LeaseID) > proto.MaxLeaseIDLength {
		return errs.ErrLeaseIDTooLong
	}
	if p.MonthlyRent == 0 {
		return errs.ErrInvalidRentAmount
	}
	if p.EndTime <= p.StartTime {
		return errs.ErrInvalidDateRange
	}
	return nil
}

// Program executes lease operations against the ledger. Every operation touches exactly one
// record and either commits all of its changes or none.
type Program struct {
	ledger Ledger
	logger *zap.Logger
}

func NewProgram(l Ledger, logger *zap.Logger) *Program {
	return &Program{ledger: l, logger: logger}
}

// Address returns the derived address of the lease and its salt.
func (p *Program) Address(leaseID string) (proto.Address, byte, error) {
	addr, salt, err := p.ledger.DeriveAddress(proto.LeaseSeeds(leaseID)...)
	if err != nil {
		return proto.Address{}, 0, errors.Wrapf(err, "failed to derive address of lease %q", leaseID)
	}
	return addr, salt, nil
}

// Initialize creates a pending lease managed by the invocation signer.
func (p *Program) Initialize(inv Invocation, params InitializeParams) (addr proto.Address, err error) {
	defer func() { metrics.LeaseOperation(opInitialize, err) }()
	if err := params.validate(); err != nil {
		return proto.Address{}, err
	}
	addr, salt, err := p.Address(params.LeaseID)
	if err != nil {
		return proto.Address{}, err
	}
	manager := inv.Signer()
	h, err := p.ledger.Create(addr, manager, proto.LeaseMaxBinarySize)
	if err != nil {
		return proto.Address{}, errors.Wrapf(err, "failed to create lease %q", params.LeaseID)
	}
	defer h.Release()

	now := inv.Now()
	l := &proto.Lease{
		LeaseID:         params.LeaseID,
		ContentHash:     params.ContentHash,
		Manager:         manager,
		Tenant:          params.Tenant,
		MonthlyRent:     params.MonthlyRent,
		SecurityDeposit: params.SecurityDeposit,
		StartTime:       params.StartTime,
		EndTime:         params.EndTime,
		Status:          proto.LeaseStatusPending,
		CreatedAt:       now,
		Salt:            salt,
	}
	created := &proto.LeaseCreated{
		LeaseID:     l.LeaseID,
		Manager:     l.Manager,
		Tenant:      l.Tenant,
		MonthlyRent: l.MonthlyRent,
		Timestamp:   now,
	}
	if err := p.commit(h, l, created); err != nil {
		return proto.Address{}, err
	}
	p.logger.Info("Lease initialized",
		zap.String("lease", l.LeaseID),
		zap.Stringer("address", addr),
		zap.Stringer("manager", l.Manager),
		zap.Stringer("tenant", l.Tenant),
		zap.Uint64("monthly_rent", l.MonthlyRent))
	return addr, nil
}

// Sign records the signature of the invocation signer. The second signature activates the lease.
func (p *Program) Sign(inv Invocation, leaseID string, signatureHash crypto.Digest) (err error) {
	defer func() { metrics.LeaseOperation(opSign, err) }()
	h, l, err := p.loadMut(leaseID)
	if err != nil {
		return err
	}
	defer h.Release()

	if l.Status != proto.LeaseStatusPending {
		return errs.ErrLeaseNotPending
	}
	signer := inv.Signer()
	party, ok := l.PartyOf(signer)
	if !ok {
		return errs.ErrUnauthorizedSigner
	}
	if l.HasSigned(party) {
		return errs.ErrAlreadySigned
	}
	now := inv.Now()
	l.SetSignature(party, signatureHash)
	events := []proto.Event{&proto.LeaseSigned{
		LeaseID:    l.LeaseID,
		Signer:     signer,
		SignerType: party.String(),
		Timestamp:  now,
	}}
	if l.FullySigned() {
		tr, err := p.transitionsOf(l, now)
		if err != nil {
			return err
		}
		if err := tr.activate(); err != nil {
			return errors.Wrapf(err, "failed to activate lease %q", leaseID)
		}
		l = tr.lease
		events = append(events, tr.events...)
	}
	if err := p.commit(h, l, events...); err != nil {
		return err
	}
	p.logger.Info("Lease signed",
		zap.String("lease", l.LeaseID), zap.Stringer("signer", signer), zap.Stringer("party", party))
	if l.Status == proto.LeaseStatusActive {
		metrics.LeaseActivated()
		p.logger.Info("Lease activated", zap.String("lease", l.LeaseID), zap.Int64("activated_at", l.ActivatedAt))
	}
	return nil
}

// UpdateStatus moves an active lease to Terminated or Completed on behalf of one of its parties.
func (p *Program) UpdateStatus(inv Invocation, leaseID string, status proto.LeaseStatus) (err error) {
	defer func() { metrics.LeaseOperation(opUpdateStatus, err) }()
	h, l, err := p.loadMut(leaseID)
	if err != nil {
		return err
	}
	defer h.Release()

	if _, ok := l.PartyOf(inv.Signer()); !ok {
		return errs.ErrUnauthorizedSigner
	}
	old := l.Status
	tr, err := p.transitionsOf(l, inv.Now())
	if err != nil {
		return err
	}
	if err := tr.request(status); err != nil {
		return errs.Extend(err, "lease %q %s to %s", leaseID, old, status)
	}
	l = tr.lease
	if err := p.commit(h, l, tr.events...); err != nil {
		return err
	}
	p.logger.Info("Lease status changed",
		zap.String("lease", l.LeaseID), zap.Stringer("old", old), zap.Stringer("new", l.Status))
	return nil
}

// Verify reports whether the lease is signed by both parties and active.
func (p *Program) Verify(leaseID string) (ok bool, err error) {
	defer func() { metrics.LeaseOperation(opVerify, err) }()
	l, err := p.Lease(leaseID)
	if err != nil {
		return false, err
	}
	return l.Verified(), nil
}

// Lease returns the current state of the lease.
func (p *Program) Lease(leaseID string) (*proto.Lease, error) {
	addr, _, err := p.Address(leaseID)
	if err != nil {
		return nil, err
	}
	h, err := p.ledger.Load(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load lease %q", leaseID)
	}
	return decodeLease(h)
}

// Leases returns all stored leases.
func (p *Program) Leases() ([]*proto.Lease, error) {
	addrs, err := p.ledger.Addresses()
	if err != nil {
		return nil, err
	}
	res := make([]*proto.Lease, 0, len(addrs))
	for _, addr := range addrs {
		h, err := p.ledger.Load(addr)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load account %s", addr)
		}
		l, err := decodeLease(h)
		if err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, nil
}

// Events returns the events of the lease in commit order.
func (p *Program) Events(leaseID string) ([]proto.Event, error) {
	addr, _, err := p.Address(leaseID)
	if err != nil {
		return nil, err
	}
	raw, err := p.ledger.Events(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load events of lease %q", leaseID)
	}
	res := make([]proto.Event, len(raw))
	for i, b := range raw {
		if res[i], err = proto.UnmarshalEvent(b); err != nil {
			return nil, errors.Wrapf(err, "corrupted event %d of lease %q", i, leaseID)
		}
	}
	return res, nil
}

func (p *Program) loadMut(leaseID string) (ledger.Handle, *proto.Lease, error) {
	addr, _, err := p.Address(leaseID)
	if err != nil {
		return nil, nil, err
	}
	h, err := p.ledger.LoadMut(addr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to load lease %q", leaseID)
	}
	l, err := decodeLease(h)
	if err != nil {
		h.Release()
		return nil, nil, err
	}
	return h, l, nil
}

// transitionsOf runs the state machine on a copy so a rejected transition leaves l intact.
func (p *Program) transitionsOf(l *proto.Lease, now int64) (*transitions, error) {
	c, err := l.Clone()
	if err != nil {
		return nil, err
	}
	return newTransitions(c, now), nil
}

func (p *Program) commit(h ledger.Handle, l *proto.Lease, events ...proto.Event) error {
	if err := l.Validate(); err != nil {
		return errors.Wrapf(err, "lease %q breaks invariants", l.LeaseID)
	}
	data, err := l.MarshalBinary()
	if err != nil {
		return err
	}
	raw := make([][]byte, len(events))
	for i, e := range events {
		if raw[i], err = proto.MarshalEvent(e); err != nil {
			return err
		}
	}
	if err := h.Commit(data, raw...); err != nil {
		return errors.Wrapf(err, "failed to commit lease %q", l.LeaseID)
	}
	for _, e := range events {
		metrics.LeaseEvent(e, h.Address())
	}
	return nil
}

func decodeLease(h ledger.Handle) (*proto.Lease, error) {
	l := new(proto.Lease)
	if err := l.UnmarshalBinary(h.Data()); err != nil {
		return nil, errors.Wrapf(err, "failed to decode lease at %s", h.Address())
	}
	return l, nil
}
