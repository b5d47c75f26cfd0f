// internal/domain/order/entity.go
package order

import "storefront-agent/internal/domain/catalog"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "PICKUP"
	DeliveryShipping DeliveryMethod = "SHIPPING"
)

func (m DeliveryMethod) Valid() bool {
	return m == DeliveryPickup || m == DeliveryShipping
}

// Order is the backend's order record. Date is kept as sent since the backend
// writes a local timestamp without a zone.
type Order struct {
	ID              int64          `json:"id"`
	Date            string         `json:"date"`
	Total           float64        `json:"total"`
	Status          Status         `json:"status"`
	Items           []Item         `json:"items"`
	DeliveryMethod  DeliveryMethod `json:"deliveryMethod,omitempty"`
	ShippingAddress string         `json:"shippingAddress,omitempty"`
}

// Item is an order line. Price is the unit price at the time of purchase.
type Item struct {
	ID       int64            `json:"id"`
	Product  *catalog.Product `json:"product,omitempty"`
	Quantity int              `json:"quantity"`
	Price    float64          `json:"price"`
}
