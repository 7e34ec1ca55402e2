package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/speakfile/speakfile/internal/delivery"
	"github.com/speakfile/speakfile/internal/domain"
	"github.com/speakfile/speakfile/internal/extract"
	"github.com/speakfile/speakfile/internal/infra"
	"github.com/speakfile/speakfile/internal/ports"
	"github.com/speakfile/speakfile/internal/speech"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / DB INIT
	// =========================================================================

	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("db ping failed: %v", err)
	}
	defer db.Close()

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// INFRASTRUCTURE
	// =========================================================================

	artifactStore, err := infra.NewS3Client()
	if err != nil {
		log.Fatalf("failed to init s3: %v", err)
	}

	conversionRepo := infra.NewConversionRepo(db)
	extractor := extract.NewService()

	// =========================================================================
	// CLIENTS (TTS)
	// =========================================================================

	var synth ports.Synthesizer
	switch os.Getenv("TTS_PROVIDER") {
	case "openai":
		synth = speech.NewOpenAIClient()
	default:
		synth = speech.NewGoogleClient()
	}

	defaultVoice := os.Getenv("TTS_DEFAULT_VOICE")
	if defaultVoice == "" {
		defaultVoice = "en-US-Neural2-C"
	}

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	conversionService := domain.NewConversionService(
		extractor,
		synth,
		artifactStore,
		conversionRepo,
		defaultVoice,
		zl,
	)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	conversionHandler := delivery.NewConversionHandler(conversionService, zl)
	delivery.RegisterRoutes(r, conversionHandler)

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "speakfile",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
