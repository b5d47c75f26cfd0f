// internal/api/orders.go
package api

import (
	"context"
	"net/http"
	"strconv"

	"storefront-agent/internal/domain/order"
)

func (c *Client) CreateOrder(ctx context.Context, req order.CreateRequest) (*order.Order, error) {
	var out order.CreateResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/orders", body: req, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

// MyOrders lists the logged-in user's orders.
func (c *Client) MyOrders(ctx context.Context) ([]order.Order, error) {
	return c.orderList(ctx, "/orders/my-orders")
}

// AllOrders lists every order. The backend only answers this for admins.
func (c *Client) AllOrders(ctx context.Context) ([]order.Order, error) {
	return c.orderList(ctx, "/orders")
}

func (c *Client) Order(ctx context.Context, id int64) (*order.Order, error) {
	var out order.Order
	if err := c.do(ctx, request{method: http.MethodGet, path: orderPath(id), auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error) {
	var out order.Order
	req := request{
		method: http.MethodPatch,
		path:   orderPath(id) + "/status",
		body:   order.UpdateStatusRequest{Status: status},
		auth:   true,
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) orderList(ctx context.Context, path string) ([]order.Order, error) {
	var out []order.Order
	if err := c.do(ctx, request{method: http.MethodGet, path: path, auth: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func orderPath(id int64) string {
	return "/orders/" + strconv.FormatInt(id, 10)
}
