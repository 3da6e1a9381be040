package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zolta/internal/domain/auction"
	reqdto "zolta/internal/handler/dto/request"
	resdto "zolta/internal/handler/dto/response"
	"zolta/internal/handler/httperr"
	"zolta/internal/pkg/config"
	"zolta/internal/pkg/cookie"
	"zolta/internal/pkg/errs"
	"zolta/internal/pkg/jwt"
	"zolta/internal/usecase/commands"
)

type BidHandler struct {
	cmds      commands.BidCommands
	tokens    *jwt.Service
	cookieCfg config.CookieConfig
}

func NewBidHandler(cmds commands.BidCommands, tokens *jwt.Service, cookieCfg config.CookieConfig) *BidHandler {
	return &BidHandler{cmds: cmds, tokens: tokens, cookieCfg: cookieCfg}
}

// @Summary Place bid
// @Description Submit a bid on an auction; may require email confirmation
// @Tags bids
// @Accept json
// @Produce json
// @Param id path string true "Auction ID"
// @Param request body reqdto.PlaceBidRequest true "Bid"
// @Success 201 {object} resdto.PlaceBidResponse
// @Success 202 {object} resdto.PlaceBidResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /auctions/{id}/bids [post]
func (h *BidHandler) Place(c *gin.Context) {
	auctionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid auction id", nil)
		return
	}

	var req reqdto.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Name, email, and bid amount are required.", nil)
		return
	}

	result, err := h.cmds.PlaceBid(c.Request.Context(), commands.PlaceBidInput{
		AuctionID:              auctionID,
		Name:                   req.Name,
		Email:                  req.Email,
		Amount:                 req.Amount,
		RememberedVerification: cookie.GetRememberedVerification(c),
	})
	if err != nil {
		h.abortPlaceErr(c, err)
		return
	}

	// Identity recall so the bid form is pre-filled next visit.
	cookie.SetBidderIdentityCookies(c, h.cookieCfg, req.Name, req.Email)

	switch result.Status {
	case commands.PlaceBidConfirmationRequired:
		c.JSON(http.StatusAccepted, resdto.PlaceBidResponse{
			Status:  string(result.Status),
			Message: "Check your email to confirm your bid.",
		})
	default:
		if result.RememberedVerification != "" {
			cookie.SetRememberedVerificationCookie(c, h.cookieCfg, result.RememberedVerification, h.tokens.RememberWindow())
		}
		c.JSON(http.StatusCreated, resdto.PlaceBidResponse{
			Status:  string(result.Status),
			Message: "Your bid has been placed.",
			BidID:   result.BidID,
		})
	}
}

// @Summary Confirm bid
// @Description Confirm a parked bid via the emailed one-time token
// @Tags bids
// @Produce json
// @Param token path string true "Confirmation token"
// @Success 200 {object} resdto.ConfirmBidResponse
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /bids/confirm/{token} [get]
func (h *BidHandler) Confirm(c *gin.Context) {
	token := c.Param("token")

	result, err := h.cmds.ConfirmBid(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, errs.ErrTokenNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Confirmation link is invalid.", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to confirm bid", nil)
		return
	}

	if result.RememberedVerification != "" {
		cookie.SetRememberedVerificationCookie(c, h.cookieCfg, result.RememberedVerification, h.tokens.RememberWindow())
	}

	resp := resdto.ConfirmBidResponse{
		Status:    string(result.Status),
		AuctionID: result.AuctionID,
	}
	switch result.Status {
	case commands.ConfirmAccepted:
		resp.Message = "Your bid has been confirmed."
		c.JSON(http.StatusOK, resp)
	case commands.ConfirmRejected:
		resp.Message = result.Rejection.Error()
		c.JSON(http.StatusOK, resp)
	case commands.ConfirmAlreadyUsed:
		resp.Message = "This confirmation link has already been used."
		c.JSON(http.StatusOK, resp)
	case commands.ConfirmExpired:
		resp.Message = "This confirmation link has expired. Please place your bid again."
		c.JSON(http.StatusGone, resp)
	}
}

func (h *BidHandler) abortPlaceErr(c *gin.Context, err error) {
	var rej *auction.RejectionError
	switch {
	case errors.As(err, &rej):
		httperr.AbortWithError(c, http.StatusBadRequest, err, rej.Error(), gin.H{"code": rej.Code})
	case errors.Is(err, errs.ErrAuctionNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Auction not found", nil)
	case errors.Is(err, errs.ErrConfirmationDeliveryFailed):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Could not send the confirmation email. Please try again later.", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to place bid", nil)
	}
}
