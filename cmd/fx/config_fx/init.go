package config_fx

import (
	"go.uber.org/fx"
	"wanderplan/internal/infra"
	"wanderplan/pkg/utils"
)

var Module = fx.Provide(
	infra.LoadConfig,
	provideTokenIssuer)

func provideTokenIssuer(cfg *infra.AppConfig) (*utils.TokenIssuer, error) {
	return utils.NewTokenIssuer(cfg.JWTSecret)
}
