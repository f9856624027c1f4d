package lease

import (
	"context"

	"github.com/pkg/errors"
	"github.com/qmuntal/stateless"

	"github.com/rentflow/rentflow/pkg/errs"
	"github.com/rentflow/rentflow/pkg/proto"
)

const (
	activateTrigger  = "Activate"
	terminateTrigger = "Terminate"
	completeTrigger  = "Complete"
)

// transitions binds a state machine to one lease record. Entry actions mutate the record and
// collect the events of the transition.
type transitions struct {
	lease  *proto.Lease
	now    int64
	events []proto.Event
	fsm    *stateless.StateMachine
}

func newTransitions(l *proto.Lease, now int64) *transitions {
	t := &transitions{lease: l, now: now}
	t.fsm = stateless.NewStateMachineWithExternalStorage(func(_ context.Context) (stateless.State, error) {
		return t.lease.Status, nil
	}, func(_ context.Context, s stateless.State) error {
		st, ok := s.(proto.LeaseStatus)
		if !ok {
			return errors.Errorf("unexpected state type %T", s)
		}
		t.lease.Status = st
		return nil
	}, stateless.FiringImmediate)
	configureLeaseFSM(t.fsm, t)
	return t
}

func configureLeaseFSM(fsm *stateless.StateMachine, t *transitions) {
	fsm.Configure(proto.LeaseStatusPending).
		Permit(activateTrigger, proto.LeaseStatusActive, t.fullySigned)

	fsm.Configure(proto.LeaseStatusActive).
		OnEntryFrom(activateTrigger, t.onActivated).
		Permit(terminateTrigger, proto.LeaseStatusTerminated).
		Permit(completeTrigger, proto.LeaseStatusCompleted, t.endReached)

	fsm.Configure(proto.LeaseStatusTerminated).
		OnEntryFrom(terminateTrigger, t.onStatusChanged(proto.LeaseStatusActive, proto.LeaseStatusTerminated))

	fsm.Configure(proto.LeaseStatusCompleted).
		OnEntryFrom(completeTrigger, t.onStatusChanged(proto.LeaseStatusActive, proto.LeaseStatusCompleted))

	fsm.OnUnhandledTrigger(func(_ context.Context, state stateless.State, trigger stateless.Trigger, _ []string) error {
		if state == proto.LeaseStatusActive && trigger == completeTrigger {
			return errs.ErrLeaseNotEnded
		}
		return errs.ErrInvalidStatusTransition
	})
}

func (t *transitions) fullySigned(_ context.Context, _ ...any) bool {
	return t.lease.FullySigned()
}

func (t *transitions) endReached(_ context.Context, _ ...any) bool {
	return t.now >= t.lease.EndTime
}

func (t *transitions) onActivated(_ context.Context, _ ...any) error {
	t.lease.ActivatedAt = t.now
	t.events = append(t.events, &proto.LeaseActivated{LeaseID: t.lease.LeaseID, Timestamp: t.now})
	return nil
}

func (t *transitions) onStatusChanged(from, to proto.LeaseStatus) stateless.ActionFunc {
	return func(_ context.Context, _ ...any) error {
		t.events = append(t.events, &proto.LeaseStatusChanged{
			LeaseID:   t.lease.LeaseID,
			OldStatus: from,
			NewStatus: to,
			Timestamp: t.now,
		})
		return nil
	}
}

func (t *transitions) activate() error {
	return t.fsm.Fire(activateTrigger)
}

// request moves the lease to the requested status.
func (t *transitions) request(status proto.LeaseStatus) error {
	switch status {
	case proto.LeaseStatusTerminated:
		return t.fsm.Fire(terminateTrigger)
	case proto.LeaseStatusCompleted:
		return t.fsm.Fire(completeTrigger)
	default:
		return errs.ErrInvalidStatusTransition
	}
}

// Graph returns the lease state machine in DOT format.
func Graph() string {
	l := &proto.Lease{Status: proto.LeaseStatusPending}
	return newTransitions(l, 0).fsm.ToGraph()
}
