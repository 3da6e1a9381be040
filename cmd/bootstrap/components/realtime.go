package components

import (
	"context"

	"go.uber.org/fx"

	"zolta/internal/pkg/config"
	"zolta/internal/realtime"
)

var RealtimeModule = fx.Module("realtime",
	fx.Provide(
		NewHub,
		realtime.NewWSHandler,
	),
)

func NewHub(lc fx.Lifecycle, cfg config.Config) *realtime.Hub {
	hub := realtime.NewHub(cfg.Bidding.SubscriberQueue)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			hub.Close()
			return nil
		},
	})

	return hub
}
