// internal/websocket/handler/notice.go
package handlers

import (
	"context"
	"fmt"

	wstypes "storefront-agent/internal/domain/websocket"
	"storefront-agent/internal/notify"
	ws "storefront-agent/internal/websocket"
)

// Notices is the notice board the UI reads and dismisses from.
type Notices interface {
	Active() []notify.Notice
}

type NoticeHandler struct {
	board   Notices
	dismiss notify.Notifier
}

// NewNoticeHandler dismisses through notifier so every UI and the board hear
// about it.
func NewNoticeHandler(board Notices, notifier notify.Notifier) *NoticeHandler {
	return &NoticeHandler{board: board, dismiss: notifier}
}

// SupportedEvents returns events this handler supports
func (h *NoticeHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{
		wstypes.EventTypeNoticeDismiss,
		wstypes.EventTypeNoticeList,
	}
}

func (h *NoticeHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeNoticeDismiss:
		return h.handleDismiss(client, msg)

	case wstypes.EventTypeNoticeList:
		notices := h.board.Active()
		client.SendMessage(wstypes.NewMessage(wstypes.EventTypeNoticeList, map[string]any{
			"notices": notices,
			"count":   len(notices),
		}))
		return nil

	default:
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}
}

func (h *NoticeHandler) handleDismiss(client *ws.Client, msg *wstypes.WSMessage) error {
	var req wstypes.DismissData
	if err := msg.Decode(&req); err != nil {
		client.SendError("invalid_request", "Invalid dismiss request", err.Error())
		return nil
	}
	if req.ID == "" {
		client.SendError("invalid_request", "Notice id is required", "")
		return nil
	}

	h.dismiss.Dismiss(req.ID)
	return nil
}
