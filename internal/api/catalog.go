// internal/api/catalog.go
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storefront-agent/internal/domain/catalog"
)

// Products lists the catalog. Public, no token is sent.
func (c *Client) Products(ctx context.Context, filter catalog.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products", query: productQuery(filter)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func productQuery(filter catalog.Filter) url.Values {
	q := url.Values{}
	if name := strings.TrimSpace(filter.Name); name != "" {
		q.Set("name", name)
	}
	if filter.CategoryID > 0 {
		q.Set("categoryId", strconv.FormatInt(filter.CategoryID, 10))
	}
	if filter.SortOrder != "" && filter.SortOrder != catalog.SortDefault {
		q.Set("sortOrder", filter.SortOrder)
	}
	if filter.InStock {
		q.Set("inStock", "true")
	}
	return q
}

func (c *Client) Categories(ctx context.Context) ([]catalog.Category, error) {
	var out []catalog.Category
	if err := c.do(ctx, request{method: http.MethodGet, path: "/categories"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, product catalog.Product) (*catalog.Product, error) {
	var out catalog.Product
	if err := c.do(ctx, request{method: http.MethodPost, path: "/products", body: product, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/products/" + strconv.FormatInt(id, 10), auth: true}, nil)
}

func (c *Client) CreateCategory(ctx context.Context, category catalog.Category) (*catalog.Category, error) {
	var out catalog.Category
	if err := c.do(ctx, request{method: http.MethodPost, path: "/categories", body: category, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/categories/" + strconv.FormatInt(id, 10), auth: true}, nil)
}
