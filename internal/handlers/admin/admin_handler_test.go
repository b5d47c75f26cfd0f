package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-agent/internal/domain/catalog"
	"storefront-agent/internal/domain/order"
	xerrors "storefront-agent/internal/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeService struct {
	status  order.Status
	deleted []int64
	err     error
}

func (f *fakeService) AllOrders(context.Context) ([]order.Order, error) {
	return []order.Order{{ID: 1}}, f.err
}

func (f *fakeService) UpdateOrderStatus(_ context.Context, id int64, status order.Status) (*order.Order, error) {
	f.status = status
	if f.err != nil {
		return nil, f.err
	}
	return &order.Order{ID: id, Status: status}, nil
}

func (f *fakeService) CreateProduct(_ context.Context, p catalog.Product) (*catalog.Product, error) {
	p.ID = 5
	return &p, f.err
}

func (f *fakeService) DeleteProduct(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeService) CreateCategory(_ context.Context, c catalog.Category) (*catalog.Category, error) {
	c.ID = 2
	return &c, f.err
}

func (f *fakeService) DeleteCategory(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func serve(svc Service, method, path, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAdminHandler(svc, zap.NewNop())
	r.GET("/admin/orders", h.ListOrders)
	r.PATCH("/admin/orders/:id/status", h.UpdateOrderStatus)
	r.POST("/admin/products", h.CreateProduct)
	r.DELETE("/admin/products/:id", h.DeleteProduct)
	r.POST("/admin/categories", h.CreateCategory)
	r.DELETE("/admin/categories/:id", h.DeleteCategory)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateOrderStatus(t *testing.T) {
	svc := &fakeService{}
	w := serve(svc, http.MethodPatch, "/admin/orders/4/status", `{"status":"SHIPPED"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, order.StatusShipped, svc.status)

	w = serve(svc, http.MethodPatch, "/admin/orders/4/status", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(&fakeService{err: xerrors.ErrForbidden}, http.MethodPatch, "/admin/orders/4/status", `{"status":"PAID"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProductsAndCategories(t *testing.T) {
	svc := &fakeService{}

	w := serve(svc, http.MethodPost, "/admin/products", `{"name":"Bombilla","price":12,"stock":3,"categoryId":1}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(svc, http.MethodPost, "/admin/products", `{"name":"Bombilla"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(svc, http.MethodPost, "/admin/categories", `{"name":"Termos"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, http.StatusOK, serve(svc, http.MethodDelete, "/admin/products/8", "").Code)
	assert.Equal(t, http.StatusOK, serve(svc, http.MethodDelete, "/admin/categories/2", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, http.MethodDelete, "/admin/categories/0", "").Code)
	assert.Equal(t, []int64{8, 2}, svc.deleted)

	assert.Equal(t, http.StatusOK, serve(svc, http.MethodGet, "/admin/orders", "").Code)
}
