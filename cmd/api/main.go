package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"time"

	"market-octopus/internal/classify"
	"market-octopus/internal/config"
	"market-octopus/internal/http"
	"market-octopus/internal/llm"
	"market-octopus/internal/relevance"
	"market-octopus/internal/retriever"
	"market-octopus/internal/scrape"
	"market-octopus/internal/storage"
	"market-octopus/internal/synthesis"
	"market-octopus/internal/translate"
	"market-octopus/internal/vectorstore"
	"market-octopus/internal/websearch"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	historyRepo := storage.NewHistoryRepo(db)

	// Initialize Qdrant vector store
	ctx := context.Background()
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel,
		cfg.EmbeddingVectorSize, cfg.EmbeddingPageSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.EmbeddingVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.EmbeddingVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.EmbeddingVectorSize)

	// External service clients
	chatClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	searchClient := websearch.NewClient(cfg.SearchBaseURL, cfg.SearchAPIKey,
		cfg.SearchEngineDomestic, cfg.SearchEngineForeign)

	var translator translate.Translator = translate.Noop{}
	if cfg.TranslateBaseURL != "" {
		translator = translate.NewClient(cfg.TranslateBaseURL, cfg.TranslateAPIKey)
		slog.Info("Translation client configured", "base_url", cfg.TranslateBaseURL)
	}

	// Retrieval branches
	fetcher := scrape.NewHTTPFetcher(cfg.FetchPerSecond)
	scorer := relevance.NewScorer(embedder, cfg.ChunkSize, cfg.ChunkOverlap)
	newsRetriever := retriever.NewNewsRetriever(searchClient, fetcher, embedder, scorer, translator, retriever.NewsOptions{
		SimilarityThreshold: cfg.NewsSimilarityThreshold,
		TopN:                cfg.NewsTopN,
		Concurrency:         cfg.FetchConcurrency,
		Window:              time.Duration(cfg.SearchWindowDays) * 24 * time.Hour,
	})
	reportRetriever := retriever.NewReportRetriever(vectorStore, embedder, retriever.ReportOptions{
		Namespaces: retriever.ReportNamespaces{
			DomesticAnalyst: cfg.NamespaceDomesticAnalyst,
			ForeignSummary:  cfg.NamespaceForeignSummary,
			ForeignContent:  cfg.NamespaceForeignContent,
			Institutional:   cfg.NamespaceInstitutional,
		},
		ScoreThreshold:   cfg.ReportScoreThreshold,
		SummaryThreshold: cfg.SummaryScoreThreshold,
		TopN:             cfg.ReportTopN,
	})

	// Answer pipeline
	orchestrator := synthesis.NewOrchestrator(
		classify.NewClassifier(chatClient),
		classify.NewExtractor(chatClient),
		newsRetriever,
		reportRetriever,
		chatClient,
		translator,
	)
	slog.Info("Answer pipeline initialized")

	router := http.NewRouter(&http.Deps{
		Orchestrator: orchestrator,
		History:      historyRepo,
		DB:           db,
	})

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
