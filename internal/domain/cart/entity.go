// internal/domain/cart/entity.go
package cart

// ProductSnapshot is the denormalized product data a cart line needs for display,
// as known at the last sync.
type ProductSnapshot struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	ImageURL string  `json:"image_url,omitempty"`
}

type Line struct {
	ProductID int64           `json:"product_id"`
	Product   ProductSnapshot `json:"product"`
	Quantity  int             `json:"quantity"`
}

func (l Line) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// Phase is the cart manager's position in its load/mutate cycle.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseLoading       Phase = "loading"
	PhaseReady         Phase = "ready"
	PhaseEmpty         Phase = "empty"
	PhaseMutating      Phase = "mutating"
	PhaseReverted      Phase = "reverted"
)

// PendingUndo is the line captured by the most recent destructive removal.
type PendingUndo struct {
	Line     Line   `json:"line"`
	NoticeID string `json:"notice_id"`
}
