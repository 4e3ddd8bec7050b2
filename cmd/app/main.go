package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"wanderplan/cmd/fx/config_fx"
	"wanderplan/cmd/fx/controllers_fx"
	"wanderplan/cmd/fx/db_fx"
	"wanderplan/cmd/fx/itinerary_fx"
	"wanderplan/cmd/fx/llm_fx"
	"wanderplan/cmd/fx/memcache_fx"
	"wanderplan/cmd/fx/weather_fx"
	"wanderplan/internal/api"
	"wanderplan/internal/api/controllers"
	"wanderplan/internal/infra"
	"wanderplan/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		llm_fx.Module,
		memcache_fx.Module,
		weather_fx.Module,
		itinerary_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *infra.AppConfig, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("Starting HTTP server at :%s", cfg.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *infra.AppConfig,
	issuer *utils.TokenIssuer,
	itineraryController *controllers.ItineraryController,
	planController *controllers.PlanController) *gin.Engine {

	return api.NewRouter(cfg.AllowedOrigins, issuer, itineraryController, planController)
}
