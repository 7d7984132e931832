package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`
	AdminUserID      int64  `env:"ADMIN_USER"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"meta-llama/llama-3-70b-instruct"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Transcription
	ReplicateAPIToken    string        `env:"REPLICATE_API_TOKEN"`
	ReplicateModel       string        `env:"WHISPER_REPLICATE_MODEL_NAME" envDefault:"vaibhavs10/incredibly-fast-whisper"`
	ReplicateSizeLimitMB float64       `env:"REPLICATE_API_SIZE_LIMIT" envDefault:"2"`
	ReplicateMinDuration int           `env:"REPLICATE_MIN_DURATION_LIMIT" envDefault:"10"`
	ModelVersionTTL      time.Duration `env:"MODEL_VERSION_TTL" envDefault:"24h"`

	// Storage
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"tgbot"`
	RedisAddr     string `env:"REDIS_ADDR"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH" envDefault:"prompts/system_prompt.txt"`

	// Formatting
	MaxMessageLength int    `env:"MAX_MESSAGE_LENGTH" envDefault:"4096"`
	MessageParseMode string `env:"MESSAGE_PARSE_MODE" envDefault:"HTML"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
