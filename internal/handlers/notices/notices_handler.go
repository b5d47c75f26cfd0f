// internal/handlers/notices/notices_handler.go
package notices

import (
	"net/http"

	"storefront-agent/internal/notify"
	"storefront-agent/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Board interface {
	Active() []notify.Notice
	Find(id string) (notify.Notice, bool)
}

// NoticesHandler serves the notices a UI without the socket polls for.
type NoticesHandler struct {
	board    Board
	notifier notify.Notifier
}

// NewNoticesHandler dismisses through notifier so the board and the socket
// both drop the notice.
func NewNoticesHandler(board Board, notifier notify.Notifier) *NoticesHandler {
	return &NoticesHandler{board: board, notifier: notifier}
}

func (h *NoticesHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, "notices", h.board.Active())
}

func (h *NoticesHandler) Dismiss(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.ValidationError(c, "notice id is required", nil)
		return
	}
	if _, ok := h.board.Find(id); !ok {
		response.NotFound(c, "notice not found")
		return
	}
	h.notifier.Dismiss(id)
	response.Success(c, http.StatusOK, "notice dismissed", nil)
}
