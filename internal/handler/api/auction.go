package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zolta/internal/handler/httperr"
	"zolta/internal/pkg/cookie"
	"zolta/internal/pkg/errs"
	"zolta/internal/pkg/jwt"
	"zolta/internal/usecase/queries"
)

type AuctionHandler struct {
	q      queries.AuctionQueries
	tokens *jwt.Service
}

func NewAuctionHandler(q queries.AuctionQueries, tokens *jwt.Service) *AuctionHandler {
	return &AuctionHandler{q: q, tokens: tokens}
}

// @Summary List auctions
// @Description List public auctions grouped by lifecycle state
// @Tags auctions
// @Produce json
// @Success 200 {object} queries.AuctionDirectory
// @Failure 500 {object} map[string]string
// @Router /auctions [get]
func (h *AuctionHandler) List(c *gin.Context) {
	dir, err := h.q.ListDirectory(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list auctions", nil)
		return
	}
	c.JSON(http.StatusOK, dir)
}

// @Summary Get auction
// @Description Get the live snapshot of one auction
// @Tags auctions
// @Produce json
// @Param id path string true "Auction ID"
// @Success 200 {object} queries.AuctionSnapshot
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auctions/{id} [get]
func (h *AuctionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid auction id", nil)
		return
	}

	snap, err := h.q.GetSnapshot(c.Request.Context(), id, h.viewerEmail(c))
	if err != nil {
		if errors.Is(err, errs.ErrAuctionNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Auction not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load auction", nil)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary List auction bids
// @Description List the top bids for an auction (bidder emails withheld)
// @Tags auctions
// @Produce json
// @Param id path string true "Auction ID"
// @Success 200 {array} queries.BidView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auctions/{id}/bids [get]
func (h *AuctionHandler) ListBids(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid auction id", nil)
		return
	}

	bids, err := h.q.ListBids(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrAuctionNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Auction not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list bids", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bids": bids})
}

// viewerEmail resolves who is looking at the auction for winner disclosure.
// The signed remembered-verification cookie is authoritative; the plain
// identity cookie is a fallback for bidders who never needed confirmation.
func (h *AuctionHandler) viewerEmail(c *gin.Context) string {
	if token := cookie.GetRememberedVerification(c); token != "" {
		if email, err := h.tokens.ValidateRememberedVerification(token); err == nil {
			return email
		}
	}
	return cookie.GetBidderEmail(c)
}
