package order

// Status is the lifecycle state of an order. PendingPayment is the sole
// initial state; Completed and Cancelled are terminal.
type Status int32

const (
	StatusPendingPayment Status = iota + 1
	StatusToBeConfirmed
	StatusConfirmed
	StatusDeliveryInProgress
	StatusCompleted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPendingPayment:
		return "PENDING_PAYMENT"
	case StatusToBeConfirmed:
		return "TO_BE_CONFIRMED"
	case StatusConfirmed:
		return "CONFIRMED"
	case StatusDeliveryInProgress:
		return "DELIVERY_IN_PROGRESS"
	case StatusCompleted:
		return "COMPLETED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the edge s -> next is part of the lifecycle
// graph. Cancellation is only reachable before the merchant confirms.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPendingPayment:
		return next == StatusToBeConfirmed || next == StatusCancelled
	case StatusToBeConfirmed:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusDeliveryInProgress
	case StatusDeliveryInProgress:
		return next == StatusCompleted
	default:
		return false
	}
}

// PayStatus is the payment state of an order, tracked independently of the
// lifecycle status.
type PayStatus int32

const (
	PayStatusUnpaid PayStatus = iota
	PayStatusPaid
	PayStatusRefunded
)

func (p PayStatus) String() string {
	switch p {
	case PayStatusUnpaid:
		return "UNPAID"
	case PayStatusPaid:
		return "PAID"
	case PayStatusRefunded:
		return "REFUNDED"
	default:
		return "UNKNOWN"
	}
}
