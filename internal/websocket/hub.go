// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "storefront-agent/internal/domain/websocket"
	"storefront-agent/internal/notify"
	authsvc "storefront-agent/internal/service/auth"
	cartsvc "storefront-agent/internal/service/cart"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// MessageHandler interface that each module must implement
type MessageHandler interface {
	// HandleMessage processes messages for this handler's domain
	HandleMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error

	// SupportedEvents returns the list of event types this handler supports
	SupportedEvents() []wstypes.EventType
}

// NoticeSource lists the notices still showing, replayed to UIs that
// subscribe late.
type NoticeSource interface {
	Active() []notify.Notice
}

// Hub fans the agent's state out to every connected UI. It is a notifier, a
// cart subscriber, a session observer and the navigator all at once.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	closeOnce  sync.Once

	handlers   map[wstypes.EventType]MessageHandler
	handlersMu sync.RWMutex

	// last message per state channel, replayed on subscribe
	latest   map[wstypes.ChannelType]*wstypes.WSMessage
	latestMu sync.RWMutex

	notices NoticeSource
	logger  *zap.Logger
}

type BroadcastMessage struct {
	Channel wstypes.ChannelType
	Message *wstypes.WSMessage
}

func NewHub(notices NoticeSource, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
		handlers:   make(map[wstypes.EventType]MessageHandler),
		latest:     make(map[wstypes.ChannelType]*wstypes.WSMessage),
		notices:    notices,
		logger:     logger,
	}
}

// RegisterHandler registers a message handler for its supported events
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.handlersMu.Lock()
	defer h.handlersMu.Unlock()
	for _, eventType := range handler.SupportedEvents() {
		h.handlers[eventType] = handler
	}
}

func (h *Hub) handlerFor(eventType wstypes.EventType) (MessageHandler, bool) {
	h.handlersMu.RLock()
	defer h.handlersMu.RUnlock()
	handler, ok := h.handlers[eventType]
	return handler, ok
}

// Attach takes over an upgraded connection and starts its pumps.
func (h *Hub) Attach(conn *websocket.Conn) (*Client, error) {
	client := NewClient(h, conn)
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return nil, ErrHubClosed
	}

	go client.WritePump()
	go client.ReadPump()
	return client, nil
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ui connected", zap.String("client_id", client.id), zap.Int("total", total))

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]any{
		"client_id": client.id,
		"channels":  []wstypes.ChannelType{wstypes.ChannelCart, wstypes.ChannelNotices, wstypes.ChannelSession},
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.Close()
	h.logger.Info("ui disconnected", zap.String("client_id", client.id), zap.Int("total", len(h.clients)))
}

// drop detaches client from outside the run loop.
func (h *Hub) drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastMessage delivers msg to every client subscribed to its channel.
func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.IsSubscribed(msg.Channel) {
			client.SendMessage(msg.Message)
		}
	}
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// queue hands msg to the run loop without ever blocking the caller, which is
// usually a cart or session mutation.
func (h *Hub) queue(channel wstypes.ChannelType, msg *wstypes.WSMessage) {
	select {
	case <-h.done:
		return
	default:
	}

	select {
	case h.broadcast <- &BroadcastMessage{Channel: channel, Message: msg}:
	default:
		h.logger.Warn("broadcast queue full, message dropped",
			zap.String("channel", string(channel)),
			zap.String("type", string(msg.Type)),
		)
	}
}

func (h *Hub) remember(channel wstypes.ChannelType, msg *wstypes.WSMessage) {
	h.latestMu.Lock()
	h.latest[channel] = msg
	h.latestMu.Unlock()
}

// replay sends a freshly subscribed client what the channel currently shows.
func (h *Hub) replay(client *Client, channel wstypes.ChannelType) {
	if channel == wstypes.ChannelNotices {
		if h.notices == nil {
			return
		}
		for _, n := range h.notices.Active() {
			client.SendMessage(wstypes.NewMessage(wstypes.EventTypeNotice, n))
		}
		return
	}

	h.latestMu.RLock()
	msg := h.latest[channel]
	h.latestMu.RUnlock()
	if msg != nil {
		client.SendMessage(msg)
	}
}

// ========== Publishers ==========

// PublishCart is the cart manager subscriber.
func (h *Hub) PublishCart(snap cartsvc.Snapshot) {
	msg := wstypes.NewMessage(wstypes.EventTypeCartSnapshot, snap)
	h.remember(wstypes.ChannelCart, msg)
	h.queue(wstypes.ChannelCart, msg)
}

// PublishSession is the session manager observer.
func (h *Hub) PublishSession(state authsvc.State) {
	msg := wstypes.NewMessage(wstypes.EventTypeSessionChanged, state.View())
	h.remember(wstypes.ChannelSession, msg)
	h.queue(wstypes.ChannelSession, msg)
}

func (h *Hub) Notify(n notify.Notice) {
	h.queue(wstypes.ChannelNotices, wstypes.NewMessage(wstypes.EventTypeNotice, n))
}

func (h *Hub) Dismiss(id string) {
	h.queue(wstypes.ChannelNotices, wstypes.NewMessage(wstypes.EventTypeNoticeDismiss, wstypes.DismissData{ID: id}))
}

// Navigate asks every UI on the session channel to move to path.
func (h *Hub) Navigate(path string) {
	h.queue(wstypes.ChannelSession, wstypes.NewMessage(wstypes.EventTypeNavigate, wstypes.NavigateData{Path: path}))
}

func (h *Hub) shutdown() {
	h.closeOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.Close()
	}
	h.clients = make(map[*Client]bool)
}
