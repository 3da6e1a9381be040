package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reqdto "zolta/internal/handler/dto/request"
	"zolta/internal/handler/httperr"
	"zolta/internal/pkg/clock"
	"zolta/internal/pkg/errs"
	"zolta/internal/usecase/commands"
	"zolta/internal/usecase/queries"
)

// AdminHandler exposes auction management. Everything here sits behind
// RequireAdmin.
type AdminHandler struct {
	cmds  commands.AuctionCommands
	sweep commands.SweepCommands
	q     queries.AuctionQueries
	clock clock.Clock
}

func NewAdminHandler(cmds commands.AuctionCommands, sweep commands.SweepCommands, q queries.AuctionQueries, clk clock.Clock) *AdminHandler {
	return &AdminHandler{cmds: cmds, sweep: sweep, q: q, clock: clk}
}

// @Summary List auctions (admin)
// @Description List all auctions with settings, stamps, and ledger aggregates
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.AdminAuctionView
// @Failure 401 {object} map[string]string
// @Router /admin/auctions [get]
func (h *AdminHandler) List(c *gin.Context) {
	views, err := h.q.ListAdmin(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list auctions", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auctions": views})
}

// @Summary Create auction
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AuctionRequest true "Auction settings"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /admin/auctions [post]
func (h *AdminHandler) Create(c *gin.Context) {
	var req reqdto.AuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	id, err := h.cmds.Create(c.Request.Context(), req.ToSpec())
	if err != nil {
		if errors.Is(err, errs.ErrDomainValidation) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to create auction", nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// @Summary Update auction
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Auction ID"
// @Param request body reqdto.AuctionRequest true "Auction settings"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/auctions/{id} [put]
func (h *AdminHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid auction id", nil)
		return
	}

	var req reqdto.AuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	if err := h.cmds.Update(c.Request.Context(), id, req.ToSpec()); err != nil {
		switch {
		case errors.Is(err, errs.ErrAuctionNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Auction not found", nil)
		case errors.Is(err, errs.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to update auction", nil)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Auction updated"})
}

// @Summary Delete auction
// @Description Delete an auction and all of its bids
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Auction ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/auctions/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid auction id", nil)
		return
	}

	if err := h.cmds.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, errs.ErrAuctionNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Auction not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to delete auction", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List auction bids (admin)
// @Description Full ledger for one auction including bidder emails
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Auction ID"
// @Success 200 {array} queries.AdminBidView
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/auctions/{id}/bids [get]
func (h *AdminHandler) ListBids(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid auction id", nil)
		return
	}

	bids, err := h.q.ListBidsAdmin(c.Request.Context(), id)
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

// @Summary Run notification sweep
// @Description Trigger the ending-soon/ended notification sweep immediately
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /admin/sweep [post]
func (h *AdminHandler) RunSweep(c *gin.Context) {
	if err := h.sweep.RunSweep(c.Request.Context(), h.clock.Now()); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Sweep failed", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sweep completed"})
}
