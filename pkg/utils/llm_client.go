package utils

import (
	"context"
	"fmt"
	"strings"
)

// LLMResponse is the free text a model produced plus its token usage.
type LLMResponse struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

func (r *LLMResponse) TotalTokens() int {
	return r.PromptTokens + r.CompletionTokens
}

// LLMClientInterface is the upstream model call. Implementations pass a
// "respond as JSON" hint but callers must not rely on getting valid JSON back.
type LLMClientInterface interface {
	GenerateJSON(ctx context.Context, prompt string) (*LLMResponse, error)
	ModelName() string
}

// USD per 1K tokens (prompt, completion)
var modelPricing = map[string][2]float64{
	"gemini-1.5-flash": {0.000075, 0.0003},
	"gemini-1.5-pro":   {0.00125, 0.005},
	"gemini-2.0-flash": {0.0001, 0.0004},
	"gemini-2.5-flash": {0.0003, 0.0025},
	"gpt-4o-mini":      {0.00015, 0.0006},
	"gpt-4o":           {0.0025, 0.01},
	"gpt-4.1-mini":     {0.0004, 0.0016},
}

// EstimateCostUSD derives the cost of one call from token usage. Unknown
// models cost 0 so that audit rows are still written.
func EstimateCostUSD(model string, promptTokens, completionTokens int) float64 {
	m := strings.ToLower(strings.TrimSpace(model))
	price, ok := modelPricing[m]
	if !ok {
		// versioned names like "gpt-4o-mini-2024-07-18"
		best := ""
		for name := range modelPricing {
			if strings.HasPrefix(m, name) && len(name) > len(best) {
				best = name
			}
		}
		if best == "" {
			return 0
		}
		price = modelPricing[best]
	}
	cost := float64(promptTokens)/1000*price[0] + float64(completionTokens)/1000*price[1]
	return float64(int64(cost*1e6+0.5)) / 1e6
}

// NewLLMClient builds the configured provider's client.
func NewLLMClient(provider, apiKey, model string) (LLMClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIClient(apiKey, model), nil
	case "gemini":
		client, err := NewGeminiClient(apiKey, model)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s. Use 'openai' or 'gemini'", provider)
	}
}
