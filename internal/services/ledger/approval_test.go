package ledger

import (
	"testing"

	domainerrors "custodia/internal/errors"
	"custodia/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.TransactionStatus
		event   Event
		want    models.TransactionStatus
		wantErr error
	}{
		{name: "approve pending", from: models.StatusPending, event: EventApprove, want: models.StatusSuccessful},
		{name: "reject pending", from: models.StatusPending, event: EventReject, want: models.StatusFailed},
		{name: "approve successful", from: models.StatusSuccessful, event: EventApprove, wantErr: domainerrors.ErrAlreadySettled},
		{name: "reject successful", from: models.StatusSuccessful, event: EventReject, wantErr: domainerrors.ErrAlreadySettled},
		{name: "approve failed", from: models.StatusFailed, event: EventApprove, wantErr: domainerrors.ErrAlreadySettled},
		{name: "unknown event", from: models.StatusPending, event: Event("cancel"), wantErr: domainerrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.event)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsTerminal())
		})
	}
}

func TestEventFor(t *testing.T) {
	e, err := eventFor(models.StatusSuccessful)
	assert.NoError(t, err)
	assert.Equal(t, EventApprove, e)

	e, err = eventFor(models.StatusFailed)
	assert.NoError(t, err)
	assert.Equal(t, EventReject, e)

	_, err = eventFor(models.StatusPending)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatus)
}
