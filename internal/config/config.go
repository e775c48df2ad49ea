package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Webhooks WebhookConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
	ServiceToken       string // shared secret for workflow callbacks
	RoleCacheTTLMin    int
	IngestTopic        string
}

type DatabaseConfig struct {
	Connection string
}

type StorageConfig struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // optional, for S3-compatible stores
}

// WebhookConfig holds the role-selected chat webhooks plus the
// document-processing endpoints of the external workflow system.
type WebhookConfig struct {
	ChatDefaultURL     string // administrator (and fallback for the rest)
	ChatExecutiveURL   string
	ChatBoardURL       string
	ProcessDocumentURL string
	GenerationURL      string
	AuthHeader         string // shared credential sent to every webhook
	TimeoutSeconds     int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			ServiceToken:       getEnv("SERVICE_TOKEN", ""),
			RoleCacheTTLMin:    getEnvAsInt("ROLE_CACHE_TTL_MINUTES", 5),
			IngestTopic:        getEnv("SOURCE_INGEST_TOPIC_NAME", "SOURCE_INGEST"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Storage: StorageConfig{
			Bucket:          getEnv("STORAGE_BUCKET", "policyai-sources"),
			Region:          getEnv("STORAGE_REGION", "us-east-1"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("STORAGE_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("STORAGE_ENDPOINT", ""),
		},
		Webhooks: WebhookConfig{
			ChatDefaultURL:     getEnv("NOTEBOOK_CHAT_URL", ""),
			ChatExecutiveURL:   getEnv("EXECUTIVE_CHAT_URL", ""),
			ChatBoardURL:       getEnv("BOARD_CHAT_URL", ""),
			ProcessDocumentURL: getEnv("PROCESS_DOCUMENT_URL", ""),
			GenerationURL:      getEnv("NOTEBOOK_GENERATION_URL", ""),
			AuthHeader:         getEnv("NOTEBOOK_GENERATION_AUTH", ""),
			TimeoutSeconds:     getEnvAsInt("WEBHOOK_TIMEOUT_SECONDS", 30),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
