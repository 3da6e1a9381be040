package components

import (
	"go.uber.org/fx"

	"zolta/internal/notification"
	"zolta/internal/pkg/clock"
	"zolta/internal/pkg/config"
	"zolta/internal/pkg/jwt"
	"zolta/internal/realtime"
	"zolta/internal/usecase/commands"
	"zolta/internal/usecase/queries"
	"zolta/internal/usecase/shared"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) notification.Mailer {
		return notification.NewMailer(cfg.SMTP)
	},
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		func(store queries.AuctionReadStore, clk clock.Clock, cfg config.Config) queries.AuctionQueries {
			return queries.NewAuctionQueries(store, clk, cfg.Bidding.RecentBidLimit)
		},
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		func(
			u shared.UnitOfWork,
			q queries.AuctionQueries,
			tokens *jwt.Service,
			mailer notification.Mailer,
			hub *realtime.Hub,
			clk clock.Clock,
			cfg config.Config,
		) commands.BidCommands {
			return commands.NewBidCommands(u, q, tokens, mailer, hub, clk, cfg.App, cfg.Bidding)
		},
		commands.NewAuctionCommands,
		func(u shared.UnitOfWork, mailer notification.Mailer, cfg config.Config) commands.SweepCommands {
			return commands.NewSweepCommands(u, mailer, cfg.App, cfg.Bidding)
		},
		func(u shared.UnitOfWork, tokens *jwt.Service, clk clock.Clock, cfg config.Config) commands.AuthCommands {
			return commands.NewAuthCommands(u, tokens, clk, cfg.Admin)
		},
	),
)
