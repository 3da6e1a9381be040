package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	reqdto "zolta/internal/handler/dto/request"
	resdto "zolta/internal/handler/dto/response"
	"zolta/internal/handler/httperr"
	"zolta/internal/handler/middleware"
	"zolta/internal/pkg/config"
	"zolta/internal/pkg/cookie"
	"zolta/internal/pkg/errs"
	"zolta/internal/usecase/commands"
)

type AuthHandler struct {
	cmds      commands.AuthCommands
	cookieCfg config.CookieConfig
	jwtCfg    config.JWTConfig
}

func NewAuthHandler(cmds commands.AuthCommands, cookieCfg config.CookieConfig, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{cmds: cmds, cookieCfg: cookieCfg, jwtCfg: jwtCfg}
}

// @Summary Admin login
// @Description Authenticate an admin and set the access token cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Credentials"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	token, err := h.cmds.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid username or password", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Login failed", nil)
		return
	}

	expiry, err := time.ParseDuration(h.jwtCfg.AccessTokenDuration)
	if err != nil {
		expiry = 24 * time.Hour
	}
	cookie.SetAccessTokenCookie(c, h.cookieCfg, token, expiry)

	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken: token,
		Username:    req.Username,
	})
}

// @Summary Admin logout
// @Description Clear the access token cookie
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearAccessTokenCookie(c, h.cookieCfg)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// @Summary Current admin
// @Description Return the authenticated admin identity
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.MeResponse
// @Failure 401 {object} map[string]string
// @Router /admin/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	username, _ := middleware.GetAdminUsername(c)

	c.JSON(http.StatusOK, resdto.MeResponse{
		AdminID:  adminID.String(),
		Username: username,
	})
}
