package llm_fx

import (
	"log"

	"go.uber.org/fx"
	"wanderplan/internal/infra"
	"wanderplan/pkg/utils"
)

var Module = fx.Provide(
	ProvideLLMClient)

// ProvideLLMClient creates the chat model client selected by LLM_PROVIDER
func ProvideLLMClient(cfg *infra.AppConfig) (utils.LLMClientInterface, error) {
	if cfg.LLMAPIKey == "" {
		log.Fatalf("API key is required when using the %s provider", cfg.LLMProvider)
	}
	log.Printf("Initializing %s client with model: %s", cfg.LLMProvider, cfg.LLMModel)
	return utils.NewLLMClient(cfg.LLMProvider, cfg.LLMAPIKey, cfg.LLMModel)
}
