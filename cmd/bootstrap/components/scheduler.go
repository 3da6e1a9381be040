package components

import (
	"context"

	"go.uber.org/fx"

	"zolta/internal/pkg/clock"
	"zolta/internal/pkg/config"
	"zolta/internal/scheduler"
	"zolta/internal/usecase/commands"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		NewScheduler,
	),
	fx.Invoke(func(*scheduler.Scheduler) {}),
)

func NewScheduler(lc fx.Lifecycle, sweep commands.SweepCommands, clk clock.Clock, cfg config.Config) *scheduler.Scheduler {
	s := scheduler.New(sweep, clk, cfg.Bidding.SweepInterval)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})

	return s
}
