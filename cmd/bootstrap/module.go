package bootstrap

import (
	"go.uber.org/fx"

	"zolta/cmd/bootstrap/components"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.RealtimeModule,
	components.HandlerModule,
	components.SchedulerModule,
)
