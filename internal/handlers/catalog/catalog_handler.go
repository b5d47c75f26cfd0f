// internal/handlers/catalog/catalog_handler.go
package catalog

import (
	"context"
	"net/http"
	"strconv"

	"storefront-agent/internal/domain/auth"
	"storefront-agent/internal/domain/catalog"
	"storefront-agent/internal/domain/order"
	"storefront-agent/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Service is the browse and account side of the catalog service.
type Service interface {
	Products(ctx context.Context, filter catalog.Filter) ([]catalog.Product, error)
	Categories(ctx context.Context) ([]catalog.Category, error)
	Profile(ctx context.Context) (*auth.Profile, error)
	MyOrders(ctx context.Context) ([]order.Order, error)
	Order(ctx context.Context, id int64) (*order.Order, error)
}

type CatalogHandler struct {
	service Service
}

func NewCatalogHandler(service Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListProducts accepts ?name=&categoryId=&sortOrder=&inStock=
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var filter catalog.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ValidationError(c, "invalid filter", err)
		return
	}

	products, err := h.service.Products(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, "could not list products", err)
		return
	}
	response.Success(c, http.StatusOK, "products", products)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Fail(c, "could not list categories", err)
		return
	}
	response.Success(c, http.StatusOK, "categories", categories)
}

func (h *CatalogHandler) GetProfile(c *gin.Context) {
	profile, err := h.service.Profile(c.Request.Context())
	if err != nil {
		response.Fail(c, "could not load profile", err)
		return
	}
	response.Success(c, http.StatusOK, "profile", profile)
}

func (h *CatalogHandler) ListMyOrders(c *gin.Context) {
	orders, err := h.service.MyOrders(c.Request.Context())
	if err != nil {
		response.Fail(c, "could not list orders", err)
		return
	}
	response.Success(c, http.StatusOK, "orders", orders)
}

func (h *CatalogHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid order id", err)
		return
	}

	o, err := h.service.Order(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, "could not load order", err)
		return
	}
	response.Success(c, http.StatusOK, "order", o)
}
