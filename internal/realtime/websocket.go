package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"zolta/internal/usecase/queries"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Cross-origin browsers are expected; auth is not carried over the socket.
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// WSHandler streams auction snapshots to websocket clients. The client joins
// exactly one auction per connection and only ever receives; bids go through
// the HTTP API.
type WSHandler struct {
	hub     *Hub
	queries queries.AuctionQueries
}

func NewWSHandler(hub *Hub, q queries.AuctionQueries) *WSHandler {
	return &WSHandler{hub: hub, queries: q}
}

type wsEnvelope struct {
	Type    string                   `json:"type"`
	Message string                   `json:"message,omitempty"`
	Auction *queries.AuctionSnapshot `json:"auction,omitempty"`
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request, auctionID uuid.UUID) {
	// Current state first, so a watcher joining a quiet auction is not stuck
	// on an empty screen until the next bid.
	snap, err := h.queries.GetSnapshot(r.Context(), auctionID, "")
	if err != nil {
		http.Error(w, "auction not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	if err := writeEnvelope(conn, wsEnvelope{Type: "snapshot", Auction: snap}); err != nil {
		return
	}

	events, cancel := h.hub.Subscribe(auctionID)
	defer cancel()

	done := make(chan struct{})

	// writer goroutine
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case snap, ok := <-events:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
						time.Now().Add(writeWait))
					return
				}
				if err := writeEnvelope(conn, wsEnvelope{Type: "snapshot", Auction: snap}); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// read loop: discard client frames, detect disconnect
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("websocket closed unexpectedly", "auction_id", auctionID, "error", err)
			}
			break
		}
	}
	close(done)
}

func writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
