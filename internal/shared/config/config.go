package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port           string
	Env            string
	LogLevel       string
	DatabaseDriver string
	DatabaseURL    string
	AutoMigrate    bool

	// LLM
	LLMProvider string
	LLMModel    string
	OpenAIKey   string
	GeminiKey   string
	GroqKey     string
	DeepSeekKey string
	ClaudeKey   string

	// Email
	EmailProvider string
	EmailFrom     string
	EmailFromName string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string
	ResendAPIKey  string
	BrevoAPIKey   string
	AWSRegion     string
	EmailWorkers  int // 0 disables the retry worker

	// Admin
	AdminEmail    string
	AdminPassword string
	JWTSecret     string

	// Optional infrastructure
	RedisURL     string
	AMQPURL      string
	AMQPExchange string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AutoMigrate:    getBool("DATABASE_AUTO_MIGRATE", false),

		LLMProvider: getEnv("LLM_PROVIDER", "openai"),
		LLMModel:    os.Getenv("LLM_MODEL"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		GroqKey:     os.Getenv("GROQ_API_KEY"),
		DeepSeekKey: os.Getenv("DEEPSEEK_API_KEY"),
		ClaudeKey:   os.Getenv("CLAUDE_API_KEY"),

		EmailProvider: os.Getenv("EMAIL_PROVIDER"),
		EmailFrom:     os.Getenv("FROM_EMAIL"),
		EmailFromName: os.Getenv("FROM_NAME"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getInt("SMTP_PORT", 587),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		BrevoAPIKey:   os.Getenv("BREVO_API_KEY"),
		AWSRegion:     os.Getenv("AWS_REGION"),
		EmailWorkers:  getInt("EMAIL_RETRY_WORKERS", 1),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),

		RedisURL:     os.Getenv("REDIS_URL"),
		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "support"),
	}

	// SQLite needs no server, handy for local runs
	if cfg.DatabaseDriver == "sqlite" && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "file:quote-desk.db?_pragma=busy_timeout(5000)"
	}

	return cfg
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("⚠️ invalid integer, using default")
		return defaultValue
	}
	return parsed
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
