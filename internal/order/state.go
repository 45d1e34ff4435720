package order

import (
	"fmt"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/pkg/httperrors"
)

// Action is a lifecycle verb applied to an order. Transitions are resolved
// through one table so illegal moves are rejected in a single place instead
// of per-endpoint checks.
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionProcess  Action = "process"
	ActionShip     Action = "ship"
	ActionExport   Action = "export"
	ActionDeliver  Action = "deliver"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
	ActionExpire   Action = "expire"
)

var transitions = map[model.OrderStatus]map[Action]model.OrderStatus{
	model.OrderStatusPending: {
		ActionConfirm: model.OrderStatusConfirmed,
		ActionCancel:  model.OrderStatusCancelled,
		ActionExpire:  model.OrderStatusOverdue,
	},
	model.OrderStatusConfirmed: {
		ActionProcess:  model.OrderStatusProcessing,
		ActionExport:   model.OrderStatusExported,
		ActionDeliver:  model.OrderStatusDelivered,
		ActionComplete: model.OrderStatusCompleted,
		ActionCancel:   model.OrderStatusCancelled,
		ActionExpire:   model.OrderStatusOverdue,
	},
	model.OrderStatusProcessing: {
		ActionShip:     model.OrderStatusShipped,
		ActionExport:   model.OrderStatusExported,
		ActionDeliver:  model.OrderStatusDelivered,
		ActionComplete: model.OrderStatusCompleted,
		ActionCancel:   model.OrderStatusCancelled,
	},
	model.OrderStatusShipped: {
		ActionExport:   model.OrderStatusExported,
		ActionDeliver:  model.OrderStatusDelivered,
		ActionComplete: model.OrderStatusCompleted,
		ActionExpire:   model.OrderStatusOverdue,
	},
	model.OrderStatusExported: {
		ActionDeliver:  model.OrderStatusDelivered,
		ActionComplete: model.OrderStatusCompleted,
	},
	model.OrderStatusDelivered: {
		ActionComplete: model.OrderStatusCompleted,
	},
	model.OrderStatusOverdue: {
		ActionDeliver:  model.OrderStatusDelivered,
		ActionComplete: model.OrderStatusCompleted,
		ActionCancel:   model.OrderStatusCancelled,
	},
}

// Next resolves the status an action leads to from the current one.
func Next(current model.OrderStatus, action Action) (model.OrderStatus, error) {
	if next, ok := transitions[current][action]; ok {
		return next, nil
	}
	return "", httperrors.NewInvalidTransition(
		fmt.Sprintf("cannot %s an order in status %s", action, current))
}

// statusActions maps the plain statuses reachable through the generic
// status endpoint. Statuses with dedicated side effects (confirm, export,
// deliver, complete, cancel) have their own operations.
var statusActions = map[model.OrderStatus]Action{
	model.OrderStatusProcessing: ActionProcess,
	model.OrderStatusShipped:    ActionShip,
	model.OrderStatusOverdue:    ActionExpire,
}

func ActionForStatus(target model.OrderStatus) (Action, bool) {
	a, ok := statusActions[target]
	return a, ok
}

// CancelTarget reports whether a status is a valid target for the cancel
// operation.
func CancelTarget(target model.OrderStatus) bool {
	return target == model.OrderStatusCancelled || target == model.OrderStatusOverdue
}

// Deletable reports whether an order may be removed at all.
func Deletable(status model.OrderStatus) bool {
	return status == model.OrderStatusPending || status == model.OrderStatusCancelled
}

// InitialState derives the status, payment status, and whether stock is
// debited immediately, from the order type and export mode:
//   - website orders always start pending with the debit deferred
//   - in-store quick sales are closed on the spot: completed, paid, debited
//   - other in-store sales start confirmed without touching stock
//   - quick delivery orders start confirmed with the debit taken up front
//   - other delivery orders start pending
func InitialState(t model.OrderType, mode model.ExportMode) (model.OrderStatus, model.PaymentStatus, bool) {
	switch t {
	case model.OrderTypeInStore:
		if mode == model.ExportModeQuick {
			return model.OrderStatusCompleted, model.PaymentStatusPaid, true
		}
		return model.OrderStatusConfirmed, model.PaymentStatusUnpaid, false
	case model.OrderTypeDelivery:
		if mode == model.ExportModeQuick {
			return model.OrderStatusConfirmed, model.PaymentStatusUnpaid, true
		}
		return model.OrderStatusPending, model.PaymentStatusUnpaid, false
	default:
		return model.OrderStatusPending, model.PaymentStatusUnpaid, false
	}
}
