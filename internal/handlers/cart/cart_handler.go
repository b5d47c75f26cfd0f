// internal/handlers/cart/cart_handler.go
package cart

import (
	"context"
	"net/http"
	"strconv"

	"storefront-agent/internal/domain/cart"
	"storefront-agent/internal/domain/catalog"
	"storefront-agent/internal/pkg/response"
	cartsvc "storefront-agent/internal/service/cart"

	"github.com/gin-gonic/gin"
)

// Manager is the cart manager as the handlers use it.
type Manager interface {
	Snapshot() cartsvc.Snapshot
	Load(ctx context.Context) error
	AddOne(ctx context.Context, product catalog.Product) error
	AddOneQuiet(ctx context.Context, product catalog.Product) error
	RemoveOne(ctx context.Context, productID int64) error
	RemoveLine(ctx context.Context, productID int64) error
	Clear(ctx context.Context) error
	UndoLastRemoval(ctx context.Context) error
}

// CartHandler answers every mutation with the snapshot that followed it, so a
// UI without the socket still sees the outcome.
type CartHandler struct {
	manager Manager
}

func NewCartHandler(manager Manager) *CartHandler {
	return &CartHandler{manager: manager}
}

func (h *CartHandler) Get(c *gin.Context) {
	response.Success(c, http.StatusOK, "cart", h.manager.Snapshot())
}

// Reload fetches the cart from the backend again.
func (h *CartHandler) Reload(c *gin.Context) {
	h.respond(c, "cart reloaded", h.manager.Load(c.Request.Context()))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req cart.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	product := catalog.Product{
		ID:       req.ProductID,
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
		ImageURL: req.ImageURL,
	}

	var err error
	if req.Quiet {
		err = h.manager.AddOneQuiet(c.Request.Context(), product)
	} else {
		err = h.manager.AddOne(c.Request.Context(), product)
	}
	h.respond(c, "product added", err)
}

func (h *CartHandler) RemoveOne(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	h.respond(c, "quantity updated", h.manager.RemoveOne(c.Request.Context(), productID))
}

func (h *CartHandler) RemoveLine(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	h.respond(c, "product removed", h.manager.RemoveLine(c.Request.Context(), productID))
}

func (h *CartHandler) Clear(c *gin.Context) {
	h.respond(c, "cart emptied", h.manager.Clear(c.Request.Context()))
}

func (h *CartHandler) Undo(c *gin.Context) {
	h.respond(c, "removal undone", h.manager.UndoLastRemoval(c.Request.Context()))
}

func (h *CartHandler) respond(c *gin.Context, message string, err error) {
	if err != nil {
		response.Fail(c, "cart not changed", err, h.manager.Snapshot())
		return
	}
	response.Success(c, http.StatusOK, message, h.manager.Snapshot())
}

func productIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationError(c, "invalid product id", err)
		return 0, false
	}
	return id, true
}
