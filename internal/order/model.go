package order

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusAssigned       Status = "assigned"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusPickedUp       Status = "picked_up"
	StatusInTransit      Status = "in_transit"
	StatusDelivered      Status = "delivered"
)

// Label renders a status for display: "out_for_delivery" becomes
// "Out for delivery".
func (s Status) Label() string {
	if s == "" {
		return "Unknown"
	}
	words := strings.ReplaceAll(string(s), "_", " ")
	return strings.ToUpper(words[:1]) + words[1:]
}

type Item struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Subtotal is price times quantity for the line.
func (i Item) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

type Order struct {
	ID                string     `json:"id"`
	OrderNumber       string     `json:"order_number,omitempty"`
	Status            Status     `json:"status"`
	Items             []Item     `json:"items"`
	TotalAmount       float64    `json:"total_amount"`
	CustomerName      string     `json:"customer_name,omitempty"`
	CustomerPhone     string     `json:"customer_phone,omitempty"`
	CustomerAddress   string     `json:"customer_address,omitempty"`
	UserEmail         string     `json:"user_email,omitempty"`
	DeliveryAddress   string     `json:"delivery_address,omitempty"`
	DeliveryPartnerID *string    `json:"delivery_partner_id,omitempty"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
}

// ShortID is the first eight characters of the id, used as a display number
// when the backend sends no order number.
func (o Order) ShortID() string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	if len(o.ID) > 8 {
		return o.ID[:8]
	}
	return o.ID
}

func (o Order) IsAssigned() bool {
	return o.DeliveryPartnerID != nil && *o.DeliveryPartnerID != ""
}

const PaymentCashOnDelivery = "cod"

type PlaceItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PlaceRequest is a customer's cash-on-delivery order.
type PlaceRequest struct {
	Items           []PlaceItem `json:"items"`
	DeliveryAddress string      `json:"delivery_address"`
	PaymentMethod   string      `json:"payment_method"`
}
