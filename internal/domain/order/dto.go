// internal/domain/order/dto.go
package order

// CreateRequest is the body of POST /orders.
type CreateRequest struct {
	DeliveryMethod  DeliveryMethod `json:"deliveryMethod"`
	ShippingAddress string         `json:"shippingAddress"`
}

// CreateResponse wraps the order the backend created.
type CreateResponse struct {
	Order Order `json:"order"`
}

// UpdateStatusRequest is the body of PATCH /orders/{id}/status.
type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

// ShippingAddress is collected at checkout for SHIPPING orders.
type ShippingAddress struct {
	Street   string `json:"street"`
	Number   string `json:"number"`
	Floor    string `json:"floor,omitempty"`
	City     string `json:"city"`
	Province string `json:"province,omitempty"`
	ZipCode  string `json:"zip_code"`
}

// CheckoutRequest is what the local surface accepts to place an order.
type CheckoutRequest struct {
	DeliveryMethod DeliveryMethod   `json:"delivery_method" binding:"required"`
	Address        *ShippingAddress `json:"address,omitempty"`
}
