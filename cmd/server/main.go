package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"adsmith/internal/addoc"
	"adsmith/internal/app"
	"adsmith/internal/config"
	"adsmith/internal/form"
	"adsmith/internal/history"
	"adsmith/internal/persist"
	"adsmith/internal/saved"
	"adsmith/internal/server"
	"adsmith/internal/usertoken"
	"adsmith/internal/util"
	"adsmith/pkg/ai"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	jwtLeeway, err := config.ParseJWTLeeway(cfg.JWTLeeway)
	if err != nil {
		log.Fatalf("failed to parse jwt leeway: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	var saver persist.Saver
	if cfg.RedisAddr != "" {
		saver = persist.NewRedisSaver(cfg.RedisAddr, cfg.RedisPassword)
		slog.Info("store snapshots in redis", "addr", cfg.RedisAddr)
	} else {
		saver = persist.NewMemorySaver()
		slog.Warn("redis not configured, store snapshots are in-memory only")
	}

	var remote addoc.Store
	if cfg.DatabaseURL != "" {
		remote, err = addoc.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to open saved-ad store: %v", err)
		}
	} else {
		remote = addoc.NewMemoryStore()
		slog.Warn("database not configured, saved ads are in-memory only")
	}

	var verifier *usertoken.Verifier
	if cfg.AuthJWKSURL != "" {
		verifier, err = usertoken.NewVerifier(usertoken.Config{
			JWKSURL:  cfg.AuthJWKSURL,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
			Leeway:   jwtLeeway,
		})
		if err != nil {
			log.Fatalf("failed to init token verifier: %v", err)
		}
	} else {
		slog.Warn("jwks not configured, all requests are treated as anonymous")
	}

	generator, err := buildGenerator(cfg)
	if err != nil {
		log.Fatalf("failed to init text generator: %v", err)
	}

	appCore := app.New(app.Config{
		Form:      form.New(saver),
		History:   history.New(saver),
		Saved:     saved.New(remote, saver),
		Generator: generator,
		Templates: app.LoadTemplates(cfg.TemplatesPath, logger),
		Logger:    logger,
	})

	httpServer := server.New(server.Config{
		App:           appCore,
		TokenVerifier: verifier,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}

func buildGenerator(cfg config.FileConfig) (ai.TextGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "", "openai-compat", "openai":
		return ai.NewOpenAICompatGenerator(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, ai.Options{
			Temperature: cfg.OpenAITemperature,
			MaxTokens:   cfg.OpenAIMaxTokens,
		}), nil
	case "ollama":
		client := ai.NewOllamaClient(cfg.OllamaBaseURL)
		return ai.NewOllamaGenerator(client, cfg.OllamaModel), nil
	case "gemini":
		client, err := ai.NewGeminiClient(cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		return ai.NewGeminiGenerator(client, cfg.GeminiModel), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
