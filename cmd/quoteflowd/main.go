package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/quoteflow-app/quoteflow/constants"
	"github.com/quoteflow-app/quoteflow/internal/chat"
	"github.com/quoteflow-app/quoteflow/internal/common"
	"github.com/quoteflow-app/quoteflow/internal/export"
	"github.com/quoteflow-app/quoteflow/internal/llm/openai"
	"github.com/quoteflow-app/quoteflow/internal/repository"
	"github.com/quoteflow-app/quoteflow/internal/server"
	"github.com/quoteflow-app/quoteflow/internal/storage"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(slogger)

	// Env
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// DB pool
	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, slogger)
	if err != nil {
		log.Fatalf("creating DB pool: %v", err)
	}
	defer repository.Close(pool, slogger)

	if err := repository.HealthCheck(ctx, pool, cfg.Database.HealthTimeout); err != nil {
		log.Fatalf("DB health failed: %v", err)
	}
	log.Infow("DB health OK")

	// Extraction model client
	extractor := openai.NewClient(openai.Config{
		APIKey:          cfg.LLM.APIKey,
		BaseURL:         cfg.LLM.BaseURL,
		Model:           cfg.LLM.Model,
		VisionModel:     cfg.LLM.VisionModel,
		Temperature:     cfg.LLM.Temperature,
		MaxTokens:       cfg.LLM.MaxTokens,
		Timeout:         cfg.LLM.Timeout,
		LenientOptional: true,
	}, slogger)

	// Upload bucket is optional; without it source images are discarded
	// after extraction.
	var uploads *storage.Uploads
	if cfg.Storage.Bucket != "" {
		uploads, err = storage.NewUploads(ctx, storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			BaseURL:   cfg.Storage.BaseURL,
		}, slogger)
		if err != nil {
			log.Fatalf("uploads bucket: %v", err)
		}
		log.Infow("uploads bucket ready", "bucket", cfg.Storage.Bucket)
	}

	// Repositories and services
	docsRepo := repository.NewDocumentRepository(pool, slogger)
	clientsRepo := repository.NewClientRepository(pool, slogger)
	profilesRepo := repository.NewProfileRepository(pool, slogger)
	exportSvc := export.NewService(docsRepo, profilesRepo, slogger)
	ambiguous, ok := constants.Canonicalize(cfg.Chat.AmbiguousDocType)
	if !ok || !ambiguous.Creatable() {
		log.Fatalf("CHAT_AMBIGUOUS_DOC_TYPE must be quote or invoice, got %q", cfg.Chat.AmbiguousDocType)
	}
	chatSvc := chat.NewService(slogger, chat.Config{
		AmbiguousDocType: ambiguous,
		DefaultCurrency:  cfg.Chat.DefaultCurrency,
	}, extractor)

	router := server.NewRouter(server.Deps{
		Pool:      pool,
		JWTSecret: cfg.Server.JWTSecret,
		Chat:      server.NewChatHandler(chatSvc, uploads, logger),
		Documents: server.NewDocumentsHandler(docsRepo, clientsRepo, profilesRepo, exportSvc, logger),
		Profile:   server.NewProfileHandler(profilesRepo, logger),
		Clients:   server.NewClientsHandler(clientsRepo),
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	fmt.Println("stopped.")
}
