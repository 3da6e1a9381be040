package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"zolta/internal/handler/api"
	"zolta/internal/handler/middleware"
	"zolta/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	auctionHandler *api.AuctionHandler,
	bidHandler *api.BidHandler,
	streamHandler *api.StreamHandler,
	authHandler *api.AuthHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, auctionHandler, bidHandler, streamHandler, authHandler, adminHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	auctionHandler *api.AuctionHandler,
	bidHandler *api.BidHandler,
	streamHandler *api.StreamHandler,
	authHandler *api.AuthHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auctions := apiGroup.Group("/auctions")
		{
			addRoutes(auctions, []route{
				{Method: http.MethodGet, Path: "", Handler: auctionHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: auctionHandler.Get},
				{Method: http.MethodGet, Path: "/:id/bids", Handler: auctionHandler.ListBids},
				{Method: http.MethodPost, Path: "/:id/bids", Handler: bidHandler.Place},
				{Method: http.MethodGet, Path: "/:id/stream", Handler: streamHandler.StreamSSE},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/bids/confirm/:token", Handler: bidHandler.Confirm},
		})

		admin := apiGroup.Group("/admin")
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			adminAuthed := admin.Group("")
			adminAuthed.Use(authMiddleware.RequireAdmin())
			addRoutes(adminAuthed, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: authHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
				{Method: http.MethodGet, Path: "/auctions", Handler: adminHandler.List},
				{Method: http.MethodPost, Path: "/auctions", Handler: adminHandler.Create},
				{Method: http.MethodPut, Path: "/auctions/:id", Handler: adminHandler.Update},
				{Method: http.MethodDelete, Path: "/auctions/:id", Handler: adminHandler.Delete},
				{Method: http.MethodGet, Path: "/auctions/:id/bids", Handler: adminHandler.ListBids},
				{Method: http.MethodPost, Path: "/sweep", Handler: adminHandler.RunSweep},
			})
		}
	}

	engine.GET("/ws/auctions/:id", streamHandler.StreamWS)
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
