package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"cmcount/internal/realtime"
	"cmcount/internal/subscribers"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	liveQueueSize    = 8
	liveWriteWait    = 5 * time.Second
	livePongWait     = 60 * time.Second
	livePingInterval = 30 * time.Second
	liveMaxInbound   = 1024
)

// liveClient implements realtime.Client. Send only queues; writePump is the
// single goroutine that writes to the connection, so a slow peer never holds
// up the refresh that produced the event.
type liveClient struct {
	conn  *websocket.Conn
	queue chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func newLiveClient(conn *websocket.Conn) *liveClient {
	return &liveClient{
		conn:  conn,
		queue: make(chan []byte, liveQueueSize),
		done:  make(chan struct{}),
	}
}

// Send reports false when the client is gone or its queue is full; the
// message is dropped in both cases.
func (c *liveClient) Send(message []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.queue <- message:
		return true
	default:
		return false
	}
}

func (c *liveClient) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// writePump drains the queue and keeps the peer alive with pings until the
// client is closed or a write fails.
func (c *liveClient) writePump() {
	heartbeat := time.NewTicker(livePingInterval)
	defer heartbeat.Stop()
	defer c.Close()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.queue:
			c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-heartbeat.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait)); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; it returns once the peer stops answering.
func (c *liveClient) readPump() {
	c.conn.SetReadLimit(liveMaxInbound)
	c.conn.SetReadDeadline(time.Now().Add(livePongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(livePongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

var liveUpgrader = websocket.Upgrader{
	ReadBufferSize:  liveMaxInbound,
	WriteBufferSize: liveMaxInbound,
	// cross-origin policy is applied by the router's CORS middleware
	CheckOrigin: func(*http.Request) bool { return true },
}

type LiveHandler struct {
	hub  *realtime.Hub
	gate *subscribers.Gate
}

func NewLiveHandler(hub *realtime.Hub, gate *subscribers.Gate) *LiveHandler {
	return &LiveHandler{hub: hub, gate: gate}
}

// Stream handles GET /api/subscribers/ws
// Sends the current count on connect, then every count a refresh stores.
func (h *LiveHandler) Stream(c *gin.Context) {
	conn, err := liveUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade error:", err)
		return
	}

	client := newLiveClient(conn)
	h.hub.Register(client)
	defer func() {
		h.hub.Unregister(client)
		client.Close()
	}()

	go client.writePump()
	h.sendSnapshot(c, client)
	client.readPump()
}

// sendSnapshot queues the stored count so a new client has a value before
// the next refresh.
func (h *LiveHandler) sendSnapshot(c *gin.Context, client realtime.Client) {
	st, err := h.gate.Status(c.Request.Context())
	if err != nil {
		log.Printf("live snapshot: %v", err)
		return
	}
	b, err := json.Marshal(realtime.CountEvent{
		Type:     realtime.EventCountSnapshot,
		Count:    st.Count,
		PolledAt: st.LastPoll,
	})
	if err != nil {
		return
	}
	client.Send(b)
}
