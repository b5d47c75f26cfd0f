// internal/domain/catalog/entity.go
package catalog

type Product struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name" binding:"required"`
	Price        float64 `json:"price" binding:"required,gt=0"`
	Stock        int     `json:"stock" binding:"gte=0"`
	CategoryID   int64   `json:"categoryId" binding:"required"`
	CategoryName string  `json:"categoryName,omitempty"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	Description  string  `json:"description,omitempty"`
	Active       *bool   `json:"active,omitempty"`
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name" binding:"required"`
}

// Sort orders accepted by the product listing.
const (
	SortDefault   = "default"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortAlphaAsc  = "alpha_asc"
	SortAlphaDesc = "alpha_desc"
)

// Filter narrows the product listing. Empty fields are not sent.
type Filter struct {
	Name       string `form:"name" json:"name,omitempty"`
	CategoryID int64  `form:"categoryId" json:"categoryId,omitempty"`
	SortOrder  string `form:"sortOrder" json:"sortOrder,omitempty"`
	InStock    bool   `form:"inStock" json:"inStock,omitempty"`
}
