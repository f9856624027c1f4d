package proto

import (
	"strings"

	"github.com/pkg/errors"
)

type LeaseStatus byte

const (
	LeaseStatusPending LeaseStatus = iota
	LeaseStatusActive
	LeaseStatusTerminated
	LeaseStatusCompleted
)

var leaseStatusNames = [...]string{"Pending", "Active", "Terminated", "Completed"}

func (s LeaseStatus) String() string {
	if s.Valid() {
		return leaseStatusNames[s]
	}
	return "Unknown"
}

func (s LeaseStatus) Valid() bool {
	return int(s) < len(leaseStatusNames)
}

// Terminal reports whether no transition leaves the status.
func (s LeaseStatus) Terminal() bool {
	return s == LeaseStatusTerminated || s == LeaseStatusCompleted
}

func NewLeaseStatusFromString(s string) (LeaseStatus, error) {
	for i, name := range leaseStatusNames {
		if strings.EqualFold(name, s) {
			return LeaseStatus(i), nil
		}
	}
	return 0, errors.Errorf("unknown lease status %q", s)
}

func (s LeaseStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.Errorf("invalid lease status %d", s)
	}
	return []byte(s.String()), nil
}

func (s *LeaseStatus) UnmarshalText(text []byte) error {
	st, err := NewLeaseStatusFromString(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Party is a role of an identity in a lease.
type Party byte

const (
	PartyManager Party = iota + 1
	PartyTenant
)

func (p Party) String() string {
	switch p {
	case PartyManager:
		return "manager"
	case PartyTenant:
		return "tenant"
	default:
		return "unknown"
	}
}
