package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-agent/internal/domain/auth"
	"storefront-agent/internal/domain/catalog"
	"storefront-agent/internal/domain/order"
	xerrors "storefront-agent/internal/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	filter  catalog.Filter
	orderID int64
	err     error
}

func (f *fakeService) Products(_ context.Context, filter catalog.Filter) ([]catalog.Product, error) {
	f.filter = filter
	return []catalog.Product{{ID: 1, Name: "Mate"}}, f.err
}

func (f *fakeService) Categories(context.Context) ([]catalog.Category, error) {
	return []catalog.Category{{ID: 1, Name: "Mates"}}, f.err
}

func (f *fakeService) Profile(context.Context) (*auth.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &auth.Profile{ID: 1, Username: "ana"}, nil
}

func (f *fakeService) MyOrders(context.Context) ([]order.Order, error) {
	return nil, f.err
}

func (f *fakeService) Order(_ context.Context, id int64) (*order.Order, error) {
	f.orderID = id
	if f.err != nil {
		return nil, f.err
	}
	return &order.Order{ID: id}, nil
}

func serve(svc Service, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCatalogHandler(svc)
	r.GET("/products", h.ListProducts)
	r.GET("/categories", h.ListCategories)
	r.GET("/profile", h.GetProfile)
	r.GET("/orders", h.ListMyOrders)
	r.GET("/orders/:id", h.GetOrder)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestListProducts_BindsFilter(t *testing.T) {
	svc := &fakeService{}
	w := serve(svc, "/products?name=mate&categoryId=2&sortOrder=price_desc&inStock=true")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, catalog.Filter{Name: "mate", CategoryID: 2, SortOrder: catalog.SortPriceDesc, InStock: true}, svc.filter)
}

func TestCatalogRoutes(t *testing.T) {
	svc := &fakeService{}
	assert.Equal(t, http.StatusOK, serve(svc, "/categories").Code)
	assert.Equal(t, http.StatusOK, serve(svc, "/profile").Code)
	assert.Equal(t, http.StatusOK, serve(svc, "/orders").Code)

	assert.Equal(t, http.StatusOK, serve(svc, "/orders/12").Code)
	assert.Equal(t, int64(12), svc.orderID)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "/orders/twelve").Code)
}

func TestCatalogErrors(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serve(&fakeService{err: xerrors.ErrUnauthenticated}, "/profile").Code)
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: xerrors.ErrNotFound}, "/orders/3").Code)
	assert.Equal(t, http.StatusBadGateway, serve(&fakeService{err: xerrors.ErrRemote}, "/products").Code)
}
