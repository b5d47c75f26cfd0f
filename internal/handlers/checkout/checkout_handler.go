// internal/handlers/checkout/checkout_handler.go
package checkout

import (
	"context"
	"net/http"

	"storefront-agent/internal/domain/order"
	"storefront-agent/internal/pkg/response"
	checkoutsvc "storefront-agent/internal/service/checkout"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Service interface {
	Summary() checkoutsvc.Summary
	PlaceOrder(ctx context.Context, req order.CheckoutRequest) (*order.Order, error)
}

type CheckoutHandler struct {
	service Service
	logger  *zap.Logger
}

func NewCheckoutHandler(service Service, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: service, logger: logger}
}

func (h *CheckoutHandler) Summary(c *gin.Context) {
	response.Success(c, http.StatusOK, "checkout summary", h.service.Summary())
}

func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req order.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	created, err := h.service.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		h.logger.Warn("checkout failed",
			zap.String("delivery_method", string(req.DeliveryMethod)),
			zap.Error(err),
		)
		response.Fail(c, "order not placed", err)
		return
	}

	response.Success(c, http.StatusCreated, "order placed", created)
}
