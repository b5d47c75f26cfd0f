// internal/api/cart.go
package api

import (
	"context"
	"net/http"
	"strconv"

	"storefront-agent/internal/domain/cart"
)

func (c *Client) GetCart(ctx context.Context) (*cart.Cart, error) {
	return c.cartCall(ctx, request{method: http.MethodGet, path: "/cart"})
}

// AddItem adds quantity units of productID and returns the resulting cart.
func (c *Client) AddItem(ctx context.Context, productID int64, quantity int) (*cart.Cart, error) {
	return c.cartCall(ctx, request{
		method: http.MethodPost,
		path:   "/cart/items",
		body:   cart.AddItemRequest{ProductID: productID, Quantity: quantity},
	})
}

// RemoveOne decrements productID by a single unit.
func (c *Client) RemoveOne(ctx context.Context, productID int64) (*cart.Cart, error) {
	return c.cartCall(ctx, request{
		method: http.MethodDelete,
		path:   "/cart/items/" + strconv.FormatInt(productID, 10) + "/one",
	})
}

// RemoveItem drops the whole productID line.
func (c *Client) RemoveItem(ctx context.Context, productID int64) (*cart.Cart, error) {
	return c.cartCall(ctx, request{
		method: http.MethodDelete,
		path:   "/cart/items/" + strconv.FormatInt(productID, 10),
	})
}

func (c *Client) ClearCart(ctx context.Context) (*cart.Cart, error) {
	return c.cartCall(ctx, request{method: http.MethodDelete, path: "/cart/clear"})
}

func (c *Client) cartCall(ctx context.Context, req request) (*cart.Cart, error) {
	req.auth = true
	var out cart.Cart
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
