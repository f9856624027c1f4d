package proto

import (
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/rentflow/rentflow/pkg/crypto"
	"github.com/rentflow/rentflow/pkg/libs/deserializer"
	"github.com/rentflow/rentflow/pkg/libs/serializer"
)

const (
	// MaxLeaseIDLength is measured in bytes of the UTF-8 encoded identifier.
	MaxLeaseIDLength = 64

	// LeaseNamespace is the first seed of every lease address.
	LeaseNamespace = "lease"

	leaseRecordVersion byte = 1

	// LeaseMaxBinarySize is the size of a record with the longest lease ID.
	LeaseMaxBinarySize = 1 + // version
		2 + MaxLeaseIDLength + // lease ID
		crypto.DigestSize + // content hash
		2*crypto.PublicKeySize + // manager, tenant
		8 + 8 + // monthly rent, security deposit
		8 + 8 + // start, end
		1 + 1 + // signed flags
		2*crypto.DigestSize + // signatures
		1 + // status
		8 + 8 + // created at, activated at
		1 // salt
)

// LeaseSeeds returns the seeds of the address that holds a lease with the given ID.
func LeaseSeeds(leaseID string) [][]byte {
	return [][]byte{[]byte(LeaseNamespace), []byte(leaseID)}
}

// Lease is a bilateral agreement between a manager and a tenant.
type Lease struct {
	LeaseID          string           `json:"lease_id"`
	ContentHash      crypto.Digest    `json:"content_hash"`
	Manager          crypto.PublicKey `json:"manager"`
	Tenant           crypto.PublicKey `json:"tenant"`
	MonthlyRent      uint64           `json:"monthly_rent"`
	SecurityDeposit  uint64           `json:"security_deposit"`
	StartTime        int64            `json:"start_date"`
	EndTime          int64            `json:"end_date"`
	ManagerSigned    bool             `json:"manager_signed"`
	TenantSigned     bool             `json:"tenant_signed"`
	ManagerSignature crypto.Digest    `json:"manager_signature"`
	TenantSignature  crypto.Digest    `json:"tenant_signature"`
	Status           LeaseStatus      `json:"status"`
	CreatedAt        int64            `json:"created_at"`
	ActivatedAt      int64            `json:"activated_at"`
	Salt             byte             `json:"address_salt"`
}

// PartyOf returns the role of the identity in the lease. Manager wins if both roles are held
// by the same identity.
func (l *Lease) PartyOf(pk crypto.PublicKey) (Party, bool) {
	switch pk {
	case l.Manager:
		return PartyManager, true
	case l.Tenant:
		return PartyTenant, true
	default:
		return 0, false
	}
}

func (l *Lease) HasSigned(p Party) bool {
	switch p {
	case PartyManager:
		return l.ManagerSigned
	case PartyTenant:
		return l.TenantSigned
	default:
		return false
	}
}

func (l *Lease) SetSignature(p Party, sig crypto.Digest) {
	switch p {
	case PartyManager:
		l.ManagerSigned = true
		l.ManagerSignature = sig
	case PartyTenant:
		l.TenantSigned = true
		l.TenantSignature = sig
	}
}

func (l *Lease) FullySigned() bool {
	return l.ManagerSigned && l.TenantSigned
}

// Verified reports whether both parties have signed and the lease is active.
func (l *Lease) Verified() bool {
	return l.FullySigned() && l.Status == LeaseStatusActive
}

func (l *Lease) Clone() (*Lease, error) {
	c := new(Lease)
	if err := copier.CopyWithOption(c, l, copier.Option{DeepCopy: true}); err != nil {
		return nil, errors.Wrap(err, "failed to clone lease")
	}
	return c, nil
}

// Validate checks the record invariants.
func (l *Lease) Validate() error {
	if len(l.LeaseID) > MaxLeaseIDLength {
		return errors.Errorf("lease ID length %d exceeds %d", len(l.LeaseID), MaxLeaseIDLength)
	}
	if l.MonthlyRent == 0 {
		return errors.New("zero monthly rent")
	}
	if l.EndTime <= l.StartTime {
		return errors.Errorf("end %d is not after start %d", l.EndTime, l.StartTime)
	}
	if !l.Status.Valid() {
		return errors.Errorf("invalid status %d", l.Status)
	}
	if l.Status != LeaseStatusPending && !l.FullySigned() {
		return errors.Errorf("lease in status %s is not signed by both parties", l.Status)
	}
	if l.Status == LeaseStatusPending && l.ActivatedAt != 0 {
		return errors.New("pending lease has activation time")
	}
	if !l.ManagerSigned && !l.ManagerSignature.IsZero() {
		return errors.New("manager signature without manager sign flag")
	}
	if !l.TenantSigned && !l.TenantSignature.IsZero() {
		return errors.New("tenant signature without tenant sign flag")
	}
	return nil
}

func (l *Lease) BinarySize() int {
	return LeaseMaxBinarySize - MaxLeaseIDLength + len(l.LeaseID)
}

func (l *Lease) MarshalBinary() ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := l.serialize(serializer.New(buf)); err != nil {
		return nil, errors.Wrap(err, "failed to marshal lease")
	}
	res := make([]byte, buf.Len())
	copy(res, buf.Bytes())
	return res, nil
}

func (l *Lease) serialize(s *serializer.Serializer) error {
	if err := s.Byte(leaseRecordVersion); err != nil {
		return err
	}
	if err := s.StringWithUInt16Len(l.LeaseID); err != nil {
		return err
	}
	if err := s.Digest(l.ContentHash); err != nil {
		return err
	}
	if err := s.PublicKey(l.Manager); err != nil {
		return err
	}
	if err := s.PublicKey(l.Tenant); err != nil {
		return err
	}
	if err := s.Uint64(l.MonthlyRent); err != nil {
		return err
	}
	if err := s.Uint64(l.SecurityDeposit); err != nil {
		return err
	}
	if err := s.Int64(l.StartTime); err != nil {
		return err
	}
	if err := s.Int64(l.EndTime); err != nil {
		return err
	}
	if err := s.Bool(l.ManagerSigned); err != nil {
		return err
	}
	if err := s.Bool(l.TenantSigned); err != nil {
		return err
	}
	if err := s.Digest(l.ManagerSignature); err != nil {
		return err
	}
	if err := s.Digest(l.TenantSignature); err != nil {
		return err
	}
	if err := s.Byte(byte(l.Status)); err != nil {
		return err
	}
	if err := s.Int64(l.CreatedAt); err != nil {
		return err
	}
	if err := s.Int64(l.ActivatedAt); err != nil {
		return err
	}
	return s.Byte(l.Salt)
}

func (l *Lease) UnmarshalBinary(data []byte) error {
	d := deserializer.NewDeserializer(data)
	v, err := d.Byte()
	if err != nil {
		return errors.Wrap(err, "failed to read record version")
	}
	if v != leaseRecordVersion {
		return errors.Errorf("unsupported lease record version %d", v)
	}
	if l.LeaseID, err = d.StringWithUInt16Len(); err != nil {
		return errors.Wrap(err, "lease ID")
	}
	if l.ContentHash, err = d.Digest(); err != nil {
		return errors.Wrap(err, "content hash")
	}
	if l.Manager, err = d.PublicKey(); err != nil {
		return errors.Wrap(err, "manager")
	}
	if l.Tenant, err = d.PublicKey(); err != nil {
		return errors.Wrap(err, "tenant")
	}
	if l.MonthlyRent, err = d.Uint64(); err != nil {
		return errors.Wrap(err, "monthly rent")
	}
	if l.SecurityDeposit, err = d.Uint64(); err != nil {
		return errors.Wrap(err, "security deposit")
	}
	if l.StartTime, err = d.Int64(); err != nil {
		return errors.Wrap(err, "start")
	}
	if l.EndTime, err = d.Int64(); err != nil {
		return errors.Wrap(err, "end")
	}
	if l.ManagerSigned, err = d.Bool(); err != nil {
		return errors.Wrap(err, "manager signed")
	}
	if l.TenantSigned, err = d.Bool(); err != nil {
		return errors.Wrap(err, "tenant signed")
	}
	if l.ManagerSignature, err = d.Digest(); err != nil {
		return errors.Wrap(err, "manager signature")
	}
	if l.TenantSignature, err = d.Digest(); err != nil {
		return errors.Wrap(err, "tenant signature")
	}
	status, err := d.Byte()
	if err != nil {
		return errors.Wrap(err, "status")
	}
	l.Status = LeaseStatus(status)
	if !l.Status.Valid() {
		return errors.Errorf("invalid lease status %d", status)
	}
	if l.CreatedAt, err = d.Int64(); err != nil {
		return errors.Wrap(err, "created at")
	}
	if l.ActivatedAt, err = d.Int64(); err != nil {
		return errors.Wrap(err, "activated at")
	}
	if l.Salt, err = d.Byte(); err != nil {
		return errors.Wrap(err, "salt")
	}
	if rest := d.Len(); rest != 0 {
		return errors.Errorf("%d trailing bytes after lease record", rest)
	}
	return nil
}
