// internal/domain/cart/dto.go
package cart

// Cart is the remote cart service's wire shape.
type Cart struct {
	ID     int64  `json:"id,omitempty"`
	UserID int64  `json:"userId,omitempty"`
	Items  []Item `json:"items"`
}

type Item struct {
	ID          int64   `json:"id,omitempty"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// AddItemRequest is the body of POST /cart/items.
type AddItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// AddLineRequest is what the local surface accepts to add one unit. The UI
// sends the product as it rendered it, stock included, so the stock guard
// runs against what the shopper saw.
type AddLineRequest struct {
	ProductID int64   `json:"product_id" binding:"required,gt=0"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price" binding:"gte=0"`
	Stock     int     `json:"stock" binding:"gte=0"`
	ImageURL  string  `json:"image_url,omitempty"`
	Quiet     bool    `json:"quiet"`
}
