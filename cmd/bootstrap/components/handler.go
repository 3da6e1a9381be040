package components

import (
	"go.uber.org/fx"

	"zolta/internal/handler"
	"zolta/internal/handler/api"
	"zolta/internal/handler/middleware"
	"zolta/internal/pkg/config"
	"zolta/internal/pkg/jwt"
	"zolta/internal/usecase/commands"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuctionHandler,
		func(cmds commands.BidCommands, tokens *jwt.Service, cfg config.Config) *api.BidHandler {
			return api.NewBidHandler(cmds, tokens, cfg.Cookie)
		},
		api.NewStreamHandler,
		func(cmds commands.AuthCommands, cfg config.Config) *api.AuthHandler {
			return api.NewAuthHandler(cmds, cfg.Cookie, cfg.JWT)
		},
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
