package weather_fx

import (
	"go.uber.org/fx"
	"wanderplan/internal/infra"
	"wanderplan/internal/services"
	mem "wanderplan/pkg/memcache"
	"wanderplan/pkg/weather"
)

var Module = fx.Provide(
	provideWeatherProvider,
	services.NewSeasonalEstimator,
	services.NewWeatherService)

func provideWeatherProvider(cfg *infra.AppConfig, cache mem.GeocodeStore) services.WeatherProvider {
	return weather.NewOpenMeteoClient(weather.Config{
		GeocodeURL:        cfg.WeatherGeocodeURL,
		ForecastURL:       cfg.WeatherForecastURL,
		Timeout:           cfg.WeatherTimeout,
		RequestsPerSecond: cfg.WeatherRPS,
		CacheTTL:          cfg.GeocodeCacheTTL,
	}, cache)
}
