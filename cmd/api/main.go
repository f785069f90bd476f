package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"hackeval/idea-evaluator/internal/config"
	"hackeval/idea-evaluator/internal/handlers"
	"hackeval/idea-evaluator/internal/repositories"
	"hackeval/idea-evaluator/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	submissionRepo := repositories.NewSubmissionRepository(db)
	evalRepo := repositories.NewEvaluationRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	// Section taxonomy: built-in table unless a YAML override is configured
	taxonomy := services.DefaultTaxonomy()
	if cfg.Evaluator.TaxonomyPath != "" {
		taxonomy, err = services.LoadTaxonomy(cfg.Evaluator.TaxonomyPath)
		if err != nil {
			log.Fatalf("❌ Failed to load taxonomy: %v", err)
		}
		log.Printf("✅ Taxonomy loaded from %s\n", cfg.Evaluator.TaxonomyPath)
	}

	classifier, err := services.NewSectionClassifier(taxonomy)
	if err != nil {
		log.Fatalf("❌ Failed to build section classifier: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	validator := services.NewChunkValidator()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		cfg.Gemini.EmbedModel,
		cfg.Evaluator.MaxRetries,
		cfg.Evaluator.RequestTimeout,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant
	indexService, err := services.NewQdrantIndexService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := indexService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize similarity engine and evaluator
	engine := services.NewSimilarityEngine(geminiService, indexService)
	evaluatorService := services.NewRubricEvaluatorService(geminiService, indexService, engine)
	pipelineService := services.NewPipelineService(pdfParser, classifier, validator, engine, indexService)
	rankingService := services.NewRankingService(evalRepo)
	log.Println("✅ Evaluator service initialized")

	// Initialize worker
	worker := services.NewWorker(evalRepo, evaluatorService, cfg.Worker.Concurrency)
	log.Println("✅ Worker initialized successfully")

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize handlers
	ingestHandler := handlers.NewIngestHandler(submissionRepo, storageService, pipelineService, cfg.Storage.MaxFileSize)
	evaluateHandler := handlers.NewEvaluationHandler(evalRepo, submissionRepo, worker)
	resultHandler := handlers.NewResultHandler(evalRepo)
	similarityHandler := handlers.NewSimilarityHandler(storageService, pipelineService, cfg.Storage.MaxFileSize)
	rankingHandler := handlers.NewRankingHandler(rankingService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Idea Evaluator API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/ingest", ingestHandler.HandleIngest)
	api.Post("/evaluate", evaluateHandler.HandleEvaluate)
	api.Get("/result/:id", resultHandler.HandleGetResult)
	api.Post("/similarity", similarityHandler.HandleSimilarity)
	api.Get("/rankings", rankingHandler.HandleGetRankings)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Idea Evaluator API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/ingest",
				"POST /api/v1/evaluate",
				"GET /api/v1/result/:id",
				"POST /api/v1/similarity",
				"GET /api/v1/rankings",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
