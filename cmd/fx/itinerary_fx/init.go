package itinerary_fx

import (
	"go.uber.org/fx"
	"wanderplan/internal/infra"
	"wanderplan/internal/repositories"
	"wanderplan/internal/services"
	"wanderplan/pkg/utils"
)

var Module = fx.Provide(
	repositories.NewItineraryRepository,
	repositories.NewAIAuditRepository,
	repositories.NewSubscriptionRepository,
	repositories.NewPlanRepository,
	services.NewPlanService,
	provideQuotaService,
	provideItineraryService)

func provideQuotaService(
	cfg *infra.AppConfig,
	subRepo repositories.ISubscriptionRepository,
	auditRepo repositories.AIAuditRepository,
) services.QuotaServiceInterface {
	return services.NewQuotaService(subRepo, auditRepo, cfg.FreeTierMonthly)
}

func provideItineraryService(
	cfg *infra.AppConfig,
	repo repositories.ItineraryRepository,
	auditRepo repositories.AIAuditRepository,
	quota services.QuotaServiceInterface,
	llm utils.LLMClientInterface,
	weather services.WeatherServiceInterface,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(repo, auditRepo, quota, llm, weather, cfg.LLMTimeout)
}
