package order

import (
	"testing"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/pkg/httperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		current model.OrderStatus
		action  Action
		want    model.OrderStatus
		wantErr bool
	}{
		{"pending confirm", model.OrderStatusPending, ActionConfirm, model.OrderStatusConfirmed, false},
		{"pending cancel", model.OrderStatusPending, ActionCancel, model.OrderStatusCancelled, false},
		{"pending expire", model.OrderStatusPending, ActionExpire, model.OrderStatusOverdue, false},
		{"confirmed process", model.OrderStatusConfirmed, ActionProcess, model.OrderStatusProcessing, false},
		{"confirmed complete", model.OrderStatusConfirmed, ActionComplete, model.OrderStatusCompleted, false},
		{"processing ship", model.OrderStatusProcessing, ActionShip, model.OrderStatusShipped, false},
		{"exported deliver", model.OrderStatusExported, ActionDeliver, model.OrderStatusDelivered, false},
		{"delivered complete", model.OrderStatusDelivered, ActionComplete, model.OrderStatusCompleted, false},
		{"overdue cancel", model.OrderStatusOverdue, ActionCancel, model.OrderStatusCancelled, false},

		{"pending deliver rejected", model.OrderStatusPending, ActionDeliver, "", true},
		{"pending complete rejected", model.OrderStatusPending, ActionComplete, "", true},
		{"completed confirm rejected", model.OrderStatusCompleted, ActionConfirm, "", true},
		{"cancelled anything rejected", model.OrderStatusCancelled, ActionProcess, "", true},
		{"delivered cancel rejected", model.OrderStatusDelivered, ActionCancel, "", true},
		{"shipped cancel rejected", model.OrderStatusShipped, ActionCancel, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.current, tt.action)
			if tt.wantErr {
				require.Error(t, err)
				var restErr *httperrors.RestError
				require.ErrorAs(t, err, &restErr)
				assert.Equal(t, httperrors.CodeInvalidTransition, restErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	for _, status := range []model.OrderStatus{
		model.OrderStatusCompleted,
		model.OrderStatusCancelled,
	} {
		assert.Empty(t, transitions[status], "status %s must be terminal", status)
	}
}

func TestActionForStatus(t *testing.T) {
	_, ok := ActionForStatus(model.OrderStatusProcessing)
	assert.True(t, ok)
	_, ok = ActionForStatus(model.OrderStatusShipped)
	assert.True(t, ok)
	_, ok = ActionForStatus(model.OrderStatusOverdue)
	assert.True(t, ok)

	// Statuses with dedicated side effects are not reachable generically.
	for _, status := range []model.OrderStatus{
		model.OrderStatusConfirmed,
		model.OrderStatusExported,
		model.OrderStatusDelivered,
		model.OrderStatusCompleted,
		model.OrderStatusCancelled,
	} {
		_, ok := ActionForStatus(status)
		assert.False(t, ok, "status %s must not be settable directly", status)
	}
}

func TestCancelTarget(t *testing.T) {
	assert.True(t, CancelTarget(model.OrderStatusCancelled))
	assert.True(t, CancelTarget(model.OrderStatusOverdue))
	assert.False(t, CancelTarget(model.OrderStatusCompleted))
	assert.False(t, CancelTarget(model.OrderStatusPending))
}

func TestDeletable(t *testing.T) {
	assert.True(t, Deletable(model.OrderStatusPending))
	assert.True(t, Deletable(model.OrderStatusCancelled))
	assert.False(t, Deletable(model.OrderStatusConfirmed))
	assert.False(t, Deletable(model.OrderStatusCompleted))
}

func TestInitialState(t *testing.T) {
	tests := []struct {
		name        string
		orderType   model.OrderType
		mode        model.ExportMode
		wantStatus  model.OrderStatus
		wantPayment model.PaymentStatus
		wantDebit   bool
	}{
		{"website quick", model.OrderTypeWebsite, model.ExportModeQuick, model.OrderStatusPending, model.PaymentStatusUnpaid, false},
		{"website normal", model.OrderTypeWebsite, model.ExportModeNormal, model.OrderStatusPending, model.PaymentStatusUnpaid, false},
		{"in-store quick", model.OrderTypeInStore, model.ExportModeQuick, model.OrderStatusCompleted, model.PaymentStatusPaid, true},
		{"in-store normal", model.OrderTypeInStore, model.ExportModeNormal, model.OrderStatusConfirmed, model.PaymentStatusUnpaid, false},
		{"in-store recept", model.OrderTypeInStore, model.ExportModeRecept, model.OrderStatusConfirmed, model.PaymentStatusUnpaid, false},
		{"delivery quick", model.OrderTypeDelivery, model.ExportModeQuick, model.OrderStatusConfirmed, model.PaymentStatusUnpaid, true},
		{"delivery normal", model.OrderTypeDelivery, model.ExportModeNormal, model.OrderStatusPending, model.PaymentStatusUnpaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payment, debit := InitialState(tt.orderType, tt.mode)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantPayment, payment)
			assert.Equal(t, tt.wantDebit, debit)
		})
	}
}
