package proto

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/rentflow/rentflow/pkg/crypto"
)

type EventType byte

const (
	EventLeaseCreated EventType = iota + 1
	EventLeaseSigned
	EventLeaseActivated
	EventLeaseStatusChanged
)

func (t EventType) String() string {
	switch t {
	case EventLeaseCreated:
		return "LeaseCreated"
	case EventLeaseSigned:
		return "LeaseSigned"
	case EventLeaseActivated:
		return "LeaseActivated"
	case EventLeaseStatusChanged:
		return "LeaseStatusChanged"
	default:
		return "Unknown"
	}
}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event is a notification about a committed lease change.
type Event interface {
	Type() EventType
	Lease() string
}

type LeaseCreated struct {
	LeaseID     string           `cbor:"1,keyasint" json:"lease_id"`
	Manager     crypto.PublicKey `cbor:"2,keyasint" json:"manager"`
	Tenant      crypto.PublicKey `cbor:"3,keyasint" json:"tenant"`
	MonthlyRent uint64           `cbor:"4,keyasint" json:"monthly_rent"`
	Timestamp   int64            `cbor:"5,keyasint" json:"timestamp"`
}

func (e *LeaseCreated) Type() EventType { return EventLeaseCreated }
func (e *LeaseCreated) Lease() string   { return e.LeaseID }

type LeaseSigned struct {
	LeaseID    string           `cbor:"1,keyasint" json:"lease_id"`
	Signer     crypto.PublicKey `cbor:"2,keyasint" json:"signer"`
	SignerType string           `cbor:"3,keyasint" json:"signer_type"`
	Timestamp  int64            `cbor:"4,keyasint" json:"timestamp"`
}

func (e *LeaseSigned) Type() EventType { return EventLeaseSigned }
func (e *LeaseSigned) Lease() string   { return e.LeaseID }

type LeaseActivated struct {
	LeaseID   string `cbor:"1,keyasint" json:"lease_id"`
	Timestamp int64  `cbor:"2,keyasint" json:"timestamp"`
}

func (e *LeaseActivated) Type() EventType { return EventLeaseActivated }
func (e *LeaseActivated) Lease() string   { return e.LeaseID }

type LeaseStatusChanged struct {
	LeaseID   string      `cbor:"1,keyasint" json:"lease_id"`
	OldStatus LeaseStatus `cbor:"2,keyasint" json:"old_status"`
	NewStatus LeaseStatus `cbor:"3,keyasint" json:"new_status"`
	Timestamp int64       `cbor:"4,keyasint" json:"timestamp"`
}

func (e *LeaseStatusChanged) Type() EventType { return EventLeaseStatusChanged }
func (e *LeaseStatusChanged) Lease() string   { return e.LeaseID }

type eventEnvelope struct {
	_       struct{}        `cbor:",toarray"`
	Type    EventType
	Payload cbor.RawMessage
}

var eventEncMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

func MarshalEvent(e Event) ([]byte, error) {
	payload, err := eventEncMode.Marshal(e)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal %s payload", e.Type())
	}
	return eventEncMode.Marshal(eventEnvelope{Type: e.Type(), Payload: payload})
}

func newEvent(t EventType) (Event, error) {
	switch t {
	case EventLeaseCreated:
		return new(LeaseCreated), nil
	case EventLeaseSigned:
		return new(LeaseSigned), nil
	case EventLeaseActivated:
		return new(LeaseActivated), nil
	case EventLeaseStatusChanged:
		return new(LeaseStatusChanged), nil
	default:
		return nil, errors.Errorf("unknown event type %d", t)
	}
}

func UnmarshalEvent(data []byte) (Event, error) {
	var env eventEnvelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal event envelope")
	}
	e, err := newEvent(env.Type)
	if err != nil {
		return nil, err
	}
	if err := cbor.Unmarshal(env.Payload, e); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal %s payload", env.Type)
	}
	return e, nil
}

// EventJSON is an event tagged with its type name.
type EventJSON struct {
	Type EventType `json:"type"`
	Data Event     `json:"data"`
}

func (e *EventJSON) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for t := EventLeaseCreated; t <= EventLeaseStatusChanged; t++ {
		if t.String() != raw.Type {
			continue
		}
		ev, err := newEvent(t)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw.Data, ev); err != nil {
			return errors.Wrapf(err, "failed to unmarshal %s", raw.Type)
		}
		e.Type, e.Data = t, ev
		return nil
	}
	return errors.Errorf("unknown event type %q", raw.Type)
}
