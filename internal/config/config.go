package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	SiteURL       string
	DatabaseURL   string
	CORSOrigins   []string
	JWTSecret     string
	JWTTTL        time.Duration
	ResetTokenTTL time.Duration

	// Groq chat completions (primary tip model)
	GroqAPIKey    string
	GroqModel     string
	GroqMaxTokens int

	// Gemini fallback model
	GeminiAPIKey string
	GeminiModel  string

	// Payment gateways
	PaystackSecretKey      string
	IntaSendSecretKey      string
	IntaSendPublishableKey string
	Currency               string

	// SendGrid email
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	// Redis (free-tier tip quota)
	RedisAddr      string
	RedisPassword  string
	FreeTipsPerDay int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SiteURL:       strings.TrimRight(getEnv("SITE_URL", "http://localhost:3000"), "/"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		CORSOrigins:   splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTTTL:        getEnvAsDuration("JWT_TTL", 24*time.Hour),
		ResetTokenTTL: getEnvAsDuration("RESET_TOKEN_TTL", time.Hour),

		GroqAPIKey:    getEnv("GROQ_API_KEY", ""),
		GroqModel:     getEnv("GROQ_MODEL", "llama3-8b-8192"),
		GroqMaxTokens: getEnvAsInt("GROQ_MAX_TOKENS", 1000),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		PaystackSecretKey:      getEnv("PAYSTACK_SECRET_KEY", ""),
		IntaSendSecretKey:      getEnv("INTASEND_SECRET_KEY", ""),
		IntaSendPublishableKey: getEnv("INTASEND_PUBLISHABLE_KEY", ""),
		Currency:               getEnv("PAYMENT_CURRENCY", "KES"),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "no-reply@neoncare.ke"),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Neon Care"),

		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		FreeTipsPerDay: getEnvAsInt("FREE_TIPS_PER_DAY", 5),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
