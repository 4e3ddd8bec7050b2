package infra

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig is read once from the environment (and an optional .env file).
type AppConfig struct {
	Port           string
	PostgresURL    string
	JWTSecret      string
	AllowedOrigins []string

	LLMProvider string
	LLMAPIKey   string
	LLMModel    string
	LLMTimeout  time.Duration

	FreeTierMonthly int

	WeatherGeocodeURL  string
	WeatherForecastURL string
	WeatherTimeout     time.Duration
	WeatherRPS         float64
	GeocodeCacheTTL    time.Duration
}

func LoadConfig() *AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	provider := strings.ToLower(getEnvWithDefault("LLM_PROVIDER", "gemini"))
	cfg := &AppConfig{
		Port:               getEnvWithDefault("PORT", "8080"),
		PostgresURL:        os.Getenv("POSTGRES_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AllowedOrigins:     splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		LLMProvider:        provider,
		LLMTimeout:         getDuration("LLM_TIMEOUT", 90*time.Second),
		FreeTierMonthly:    getInt("FREE_TIER_MONTHLY_GENERATIONS", 5),
		WeatherGeocodeURL:  os.Getenv("WEATHER_GEOCODE_URL"),
		WeatherForecastURL: os.Getenv("WEATHER_FORECAST_URL"),
		WeatherTimeout:     getDuration("WEATHER_TIMEOUT", 10*time.Second),
		WeatherRPS:         getFloat("WEATHER_REQUESTS_PER_SECOND", 5),
		GeocodeCacheTTL:    getDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
	}

	switch provider {
	case "openai":
		cfg.LLMAPIKey = os.Getenv("OPENAI_API_KEY")
		cfg.LLMModel = getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini")
	default:
		cfg.LLMAPIKey = os.Getenv("GEMINI_API_KEY")
		cfg.LLMModel = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
	}
	return cfg
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return v
}

func getFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, using %v", key, raw, def)
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid %s=%q, using %s", key, raw, def)
		return def
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
