package ledger

import (
	domainerrors "custodia/internal/errors"
	"custodia/internal/models"
)

// Event is an admin decision on a pending transaction.
type Event string

const (
	EventApprove Event = "approve"
	EventReject  Event = "reject"
)

var transitions = map[models.TransactionStatus]map[Event]models.TransactionStatus{
	models.StatusPending: {
		EventApprove: models.StatusSuccessful,
		EventReject:  models.StatusFailed,
	},
}

// Transition returns the state reached by applying event in state from.
// Only pending transactions accept events; anything else is AlreadySettled.
func Transition(from models.TransactionStatus, event Event) (models.TransactionStatus, error) {
	events, ok := transitions[from]
	if !ok {
		return "", domainerrors.ErrAlreadySettled.WithMessage("transaction is already %s", from)
	}
	to, ok := events[event]
	if !ok {
		return "", domainerrors.ErrValidation.WithMessage("unknown event %q", event)
	}
	return to, nil
}

// eventFor maps a requested target status to the event that reaches it.
func eventFor(status models.TransactionStatus) (Event, error) {
	switch status {
	case models.StatusSuccessful:
		return EventApprove, nil
	case models.StatusFailed:
		return EventReject, nil
	default:
		return "", domainerrors.ErrInvalidStatus.WithMessage("cannot transition to %q", status)
	}
}
