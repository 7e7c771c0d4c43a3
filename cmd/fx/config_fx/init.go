package config_fx

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"tripbuddy/internal/infra"
)

var Module = fx.Provide(
	infra.LoadConfig, provideLogger)

func provideLogger(cfg *infra.Config) *logrus.Logger {
	return infra.SetupLogger(cfg)
}
