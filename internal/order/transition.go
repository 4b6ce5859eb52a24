package order

import (
	"errors"
	"fmt"
)

var ErrNoDeliveryTransition = errors.New("no delivery transition from this status")

// DeliveryAction is the one status change a delivery partner may request for
// an order in a given status.
type DeliveryAction struct {
	From  Status
	To    Status
	Label string
}

// deliveryEdges holds every transition exposed to delivery partners.
var deliveryEdges = map[Status]DeliveryAction{
	StatusConfirmed:      {From: StatusConfirmed, To: StatusOutForDelivery, Label: "Mark Out for Delivery"},
	StatusOutForDelivery: {From: StatusOutForDelivery, To: StatusDelivered, Label: "Mark as Delivered"},
}

// NextDeliveryAction returns the action offered for an order in status from.
func NextDeliveryAction(from Status) (DeliveryAction, bool) {
	a, ok := deliveryEdges[from]
	return a, ok
}

// CheckDeliveryTransition validates a requested from→to change against the
// delivery edges.
func CheckDeliveryTransition(from, to Status) error {
	a, ok := deliveryEdges[from]
	if !ok {
		return fmt.Errorf("%w %q", ErrNoDeliveryTransition, from)
	}
	if a.To != to {
		return fmt.Errorf("invalid delivery transition: %s → %s (allowed: %s → %s)", from, to, a.From, a.To)
	}
	return nil
}
