package bootstrap

import (
	"go.uber.org/fx"

	"zolta/internal/pkg/config"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
)
