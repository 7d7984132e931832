package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"voice-chatter/internal/auth"
	"voice-chatter/internal/chain"
	"voice-chatter/internal/config"
	"voice-chatter/internal/dialogue"
	"voice-chatter/internal/llm"
	"voice-chatter/internal/scheduler"
	"voice-chatter/internal/store"
	"voice-chatter/internal/telegram"
	"voice-chatter/internal/transcribe"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	ctx := context.Background()

	// One Mongo client for the whole process, injected everywhere
	// storage access is needed.
	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("failed to disconnect mongo: %v", err)
		}
	}()
	db := client.Database(cfg.MongoDatabase)
	recStore := store.NewMongo(db)

	authSvc := auth.New(auth.NewMongoRepository(db))

	llmClient, err := llm.NewFactory(cfg).CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	engine := dialogue.New(llmClient, recStore, readSystemPrompt(cfg.SystemPromptPath), cfg.MaxMessageLength)
	resolver := chain.NewResolver(recStore)

	primary, err := transcribe.NewReplicate(cfg.ReplicateAPIToken, cfg.ReplicateModel, cfg.ModelVersionTTL)
	if err != nil {
		log.Fatalf("failed to create replicate backend: %v", err)
	}
	router := &transcribe.Router{
		SizeLimitMB:    cfg.ReplicateSizeLimitMB,
		MinDurationSec: cfg.ReplicateMinDuration,
		Primary:        primary,
		Secondary:      transcribe.NewWhisper(cfg.OpenAIAPIKey),
	}

	var cache *transcribe.Cache
	if cfg.RedisAddr != "" {
		cache = transcribe.NewCache(cfg.RedisAddr)
	}

	bot, err := telegram.New(
		cfg.TelegramBotToken,
		authSvc,
		resolver,
		engine,
		router,
		cache,
		recStore,
		cfg.MaxMessageLength,
		cfg.MessageParseMode,
		cfg.AdminUserID,
	)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	sched := scheduler.New()
	sched.SetReportFunction(bot.ReportDaily)
	if err := sched.Start(); err != nil {
		log.Printf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	bot.Start(ctx)
}

func readSystemPrompt(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("system prompt file not found or unreadable at %s: %v", path, err)
		return ""
	}
	return string(data)
}
