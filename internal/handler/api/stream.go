package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zolta/internal/handler/httperr"
	"zolta/internal/realtime"
	"zolta/internal/usecase/queries"
)

const sseHeartbeatPeriod = 25 * time.Second

// StreamHandler serves the two live-update transports: SSE for plain
// browsers and websockets for richer clients. Both carry the same snapshot
// payload.
type StreamHandler struct {
	hub *realtime.Hub
	ws  *realtime.WSHandler
	q   queries.AuctionQueries
}

func NewStreamHandler(hub *realtime.Hub, ws *realtime.WSHandler, q queries.AuctionQueries) *StreamHandler {
	return &StreamHandler{hub: hub, ws: ws, q: q}
}

// @Summary Stream auction updates (SSE)
// @Description Server-sent events stream of auction snapshots
// @Tags auctions
// @Produce text/event-stream
// @Param id path string true "Auction ID"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auctions/{id}/stream [get]
func (h *StreamHandler) StreamSSE(c *gin.Context) {
	auctionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid auction id", nil)
		return
	}

	snap, err := h.q.GetSnapshot(c.Request.Context(), auctionID, "")
	if err != nil {
		httperr.AbortWithError(c, http.StatusNotFound, err, "Auction not found", nil)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	events, cancel := h.hub.Subscribe(auctionID)
	defer cancel()

	if !writeSSE(c, snap) {
		return
	}

	heartbeat := time.NewTicker(sseHeartbeatPeriod)
	defer heartbeat.Stop()

	for {
		select {
		case snap, ok := <-events:
			if !ok {
				return
			}
			if !writeSSE(c, snap) {
				return
			}
		case <-heartbeat.C:
			// Comment line keeps proxies from timing out idle streams.
			if _, err := fmt.Fprint(c.Writer, ": heartbeat\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

// @Summary Stream auction updates (websocket)
// @Description Websocket stream of auction snapshots
// @Tags auctions
// @Param id path string true "Auction ID"
// @Success 101 {string} string "switching protocols"
// @Failure 400 {object} map[string]string
// @Router /ws/auctions/{id} [get]
func (h *StreamHandler) StreamWS(c *gin.Context) {
	auctionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid auction id", nil)
		return
	}
	h.ws.Serve(c.Writer, c.Request, auctionID)
}

func writeSSE(c *gin.Context, snap *queries.AuctionSnapshot) bool {
	data, err := json.Marshal(snap)
	if err != nil {
		return false
	}
	if _, err := fmt.Fprintf(c.Writer, "event: snapshot\ndata: %s\n\n", data); err != nil {
		return false
	}
	c.Writer.Flush()
	return true
}
