package db_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"wanderplan/internal/infra"
)

var Module = fx.Provide(
	provideDB)

func provideDB(lc fx.Lifecycle, cfg *infra.AppConfig) (*gorm.DB, error) {
	db := infra.InitPostgresql(cfg)
	if err := infra.Migrate(db); err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db)
			return nil
		},
	})
	return db, nil
}
