// internal/service/cart/normalize.go
package cart

import (
	"cmp"
	"slices"

	"storefront-agent/internal/domain/cart"
)

// Normalize maps the server's cart into lines in canonical order: ascending
// product id, one line per product, no empty lines. Every cart the manager
// holds has been through here.
func Normalize(remote *cart.Cart) []cart.Line {
	if remote == nil || len(remote.Items) == 0 {
		return nil
	}

	byID := make(map[int64]int, len(remote.Items))
	lines := make([]cart.Line, 0, len(remote.Items))
	for _, item := range remote.Items {
		if item.Quantity <= 0 {
			continue
		}
		if i, ok := byID[item.ProductID]; ok {
			lines[i].Quantity += item.Quantity
			continue
		}
		byID[item.ProductID] = len(lines)
		lines = append(lines, cart.Line{
			ProductID: item.ProductID,
			Product: cart.ProductSnapshot{
				Name:     item.ProductName,
				Price:    item.Price,
				Stock:    item.Stock,
				ImageURL: item.ImageURL,
			},
			Quantity: item.Quantity,
		})
	}

	slices.SortFunc(lines, func(a, b cart.Line) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	if len(lines) == 0 {
		return nil
	}
	return lines
}
