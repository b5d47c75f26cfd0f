package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront-agent/internal/domain/cart"
	wstypes "storefront-agent/internal/domain/websocket"
	"storefront-agent/internal/notify"
	cartsvc "storefront-agent/internal/service/cart"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type received struct {
	Type wstypes.EventType `json:"type"`
	Data json.RawMessage   `json:"data"`
}

func startHub(t *testing.T, notices NoticeSource) (*Hub, string) {
	t.Helper()

	hub := NewHub(notices, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_, _ = hub.Attach(conn)
	}))
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	msg := read(t, conn)
	require.Equal(t, wstypes.EventTypeConnected, msg.Type)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func send(t *testing.T, conn *websocket.Conn, eventType wstypes.EventType, data any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]any{"type": eventType, "data": data}))
}

func subscribe(t *testing.T, conn *websocket.Conn, channels ...wstypes.ChannelType) {
	t.Helper()
	send(t, conn, wstypes.EventTypeSubscribe, wstypes.SubscribeRequest{Channels: channels})
	ack := read(t, conn)
	require.Equal(t, wstypes.EventTypeSubscribe, ack.Type)
}

func TestHub_PingPong(t *testing.T) {
	_, url := startHub(t, nil)
	conn := dial(t, url)

	send(t, conn, wstypes.EventTypePing, nil)
	assert.Equal(t, wstypes.EventTypePong, read(t, conn).Type)
}

func TestHub_UnknownEventAndChannel(t *testing.T) {
	_, url := startHub(t, nil)
	conn := dial(t, url)

	send(t, conn, "cart:explode", nil)
	assert.Equal(t, wstypes.EventTypeError, read(t, conn).Type)

	send(t, conn, wstypes.EventTypeSubscribe, wstypes.SubscribeRequest{Channels: []wstypes.ChannelType{"audit"}})
	ack := read(t, conn)
	require.Equal(t, wstypes.EventTypeSubscribe, ack.Type)
	var body struct {
		Channels []wstypes.ChannelType `json:"channels"`
	}
	require.NoError(t, json.Unmarshal(ack.Data, &body))
	assert.Empty(t, body.Channels)
}

func TestHub_CartSnapshotsReachSubscribers(t *testing.T) {
	hub, url := startHub(t, nil)

	hub.PublishCart(cartsvc.Snapshot{Version: 1, Phase: cart.PhaseEmpty})

	conn := dial(t, url)
	subscribe(t, conn, wstypes.ChannelCart)

	replayed := read(t, conn)
	require.Equal(t, wstypes.EventTypeCartSnapshot, replayed.Type)

	hub.PublishCart(cartsvc.Snapshot{
		Version: 2,
		Phase:   cart.PhaseReady,
		Lines:   []cart.Line{{ProductID: 7, Quantity: 2}},
	})

	var snap cartsvc.Snapshot
	for snap.Version < 2 {
		live := read(t, conn)
		require.Equal(t, wstypes.EventTypeCartSnapshot, live.Type)
		require.NoError(t, json.Unmarshal(live.Data, &snap))
	}
	assert.Equal(t, uint64(2), snap.Version)
	assert.Equal(t, 2, snap.Quantity(7))
}

func TestHub_NoticesReplayAndDismiss(t *testing.T) {
	board := notify.NewBoard(0)
	hub, url := startHub(t, board)

	shown := notify.New(notify.LevelSuccess, "Mate added to your cart")
	board.Notify(shown)

	conn := dial(t, url)
	subscribe(t, conn, wstypes.ChannelNotices)

	replayed := read(t, conn)
	require.Equal(t, wstypes.EventTypeNotice, replayed.Type)
	var n notify.Notice
	require.NoError(t, json.Unmarshal(replayed.Data, &n))
	assert.Equal(t, shown.ID, n.ID)

	hub.Dismiss(shown.ID)
	dismissed := read(t, conn)
	assert.Equal(t, wstypes.EventTypeNoticeDismiss, dismissed.Type)
}

func TestHub_NavigateGoesToSessionChannel(t *testing.T) {
	hub, url := startHub(t, nil)
	conn := dial(t, url)
	subscribe(t, conn, wstypes.ChannelSession)

	hub.Navigate("/login")

	msg := read(t, conn)
	require.Equal(t, wstypes.EventTypeNavigate, msg.Type)
	var nav wstypes.NavigateData
	require.NoError(t, json.Unmarshal(msg.Data, &nav))
	assert.Equal(t, "/login", nav.Path)
}

func TestHub_UnsubscribedClientsHearNothing(t *testing.T) {
	hub, url := startHub(t, nil)
	conn := dial(t, url)

	hub.Notify(notify.New(notify.LevelInfo, "hello"))

	send(t, conn, wstypes.EventTypePing, nil)
	assert.Equal(t, wstypes.EventTypePong, read(t, conn).Type)
	assert.Equal(t, 1, hub.TotalClients())
}
