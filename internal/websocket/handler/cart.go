// internal/websocket/handler/cart.go
package handlers

import (
	"context"
	"errors"
	"fmt"

	wstypes "storefront-agent/internal/domain/websocket"
	xerrors "storefront-agent/internal/pkg/errors"
	ws "storefront-agent/internal/websocket"

	"go.uber.org/zap"
)

// Undoer restores the last removed cart line.
type Undoer interface {
	UndoLastRemoval(ctx context.Context) error
}

// CartHandler lets the undo button on a removal notice reach the cart.
type CartHandler struct {
	cart   Undoer
	logger *zap.Logger
}

func NewCartHandler(cart Undoer, logger *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, logger: logger}
}

func (h *CartHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeCartUndo}
}

func (h *CartHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeCartUndo:
		return h.handleUndo(ctx, client)
	default:
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}
}

// handleUndo replies with the outcome. The new cart itself arrives on the cart
// channel like every other change.
func (h *CartHandler) handleUndo(ctx context.Context, client *ws.Client) error {
	err := h.cart.UndoLastRemoval(ctx)
	switch {
	case err == nil:
		client.SendMessage(wstypes.NewMessage(wstypes.EventTypeCartUndo, map[string]any{"success": true}))
		return nil
	case errors.Is(err, xerrors.ErrNoPendingUndo):
		client.SendError("nothing_to_undo", "Nothing to undo", "")
		return nil
	default:
		h.logger.Warn("undo from ui failed", zap.String("client_id", client.ID()), zap.Error(err))
		client.SendError("undo_failed", "Could not undo the removal", err.Error())
		return nil
	}
}
