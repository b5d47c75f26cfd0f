// internal/handlers/admin/admin_handler.go
package admin

import (
	"context"
	"net/http"
	"strconv"

	"storefront-agent/internal/domain/catalog"
	"storefront-agent/internal/domain/order"
	"storefront-agent/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service is the back-office side of the catalog service.
type Service interface {
	AllOrders(ctx context.Context) ([]order.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error)
	CreateProduct(ctx context.Context, product catalog.Product) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	CreateCategory(ctx context.Context, category catalog.Category) (*catalog.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type AdminHandler struct {
	service Service
	logger  *zap.Logger
}

func NewAdminHandler(service Service, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

// ========== Orders ==========

func (h *AdminHandler) ListOrders(c *gin.Context) {
	orders, err := h.service.AllOrders(c.Request.Context())
	if err != nil {
		response.Fail(c, "could not list orders", err)
		return
	}
	response.Success(c, http.StatusOK, "orders", orders)
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	updated, err := h.service.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.logger.Warn("order status update failed", zap.Int64("order_id", id), zap.Error(err))
		response.Fail(c, "could not update order", err)
		return
	}
	response.Success(c, http.StatusOK, "order updated", updated)
}

// ========== Products ==========

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req catalog.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	created, err := h.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, "could not create product", err)
		return
	}
	response.Success(c, http.StatusCreated, "product created", created)
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Fail(c, "could not delete product", err)
		return
	}
	response.Success(c, http.StatusOK, "product deleted", nil)
}

// ========== Categories ==========

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req catalog.Category
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	created, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, "could not create category", err)
		return
	}
	response.Success(c, http.StatusCreated, "category created", created)
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		response.Fail(c, "could not delete category", err)
		return
	}
	response.Success(c, http.StatusOK, "category deleted", nil)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationError(c, "invalid id", err)
		return 0, false
	}
	return id, true
}
