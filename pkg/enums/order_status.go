package enums

import "fmt"

// OrderStatus tracks the lifecycle of a customer order.
//
// pending_confirmation -> preparing (cash) or paid (online) -> completed.
// completed is terminal; nothing transitions out of it.
type OrderStatus string

const (
	OrderStatusPendingConfirmation OrderStatus = "pending_confirmation"
	OrderStatusPreparing           OrderStatus = "preparing"
	OrderStatusPaid                OrderStatus = "paid"
	OrderStatusCompleted           OrderStatus = "completed"
	OrderStatusExpired             OrderStatus = "expired"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPendingConfirmation,
	OrderStatusPreparing,
	OrderStatusPaid,
	OrderStatusCompleted,
	OrderStatusExpired,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusCompleted || o == OrderStatusExpired
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
