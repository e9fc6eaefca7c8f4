package fulfillment

import (
	"fmt"

	"github.com/google/uuid"
)

// PickupCode derives the verification token for an order. It is a pure
// function of the order id, so the value is unique across orders and stable
// across re-reads. It is a capability token, not a secret.
func PickupCode(orderID uuid.UUID) string {
	return "PICKUP:" + orderID.String()
}

// PickupCodeImageURL returns the renderable artifact reference for the code,
// served by the static asset layer as a scannable encoding.
func PickupCodeImageURL(orderID uuid.UUID) string {
	return fmt.Sprintf("/static/qrcodes/order_%s.png", orderID)
}
