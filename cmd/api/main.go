package main

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studyassist/docs"
	"studyassist/internal/config"
	"studyassist/internal/database"
	"studyassist/internal/database/migration"
	"studyassist/internal/extract"
	handlers "studyassist/internal/http/handler"
	"studyassist/internal/http/middleware"
	"studyassist/internal/llm"
	"studyassist/internal/otel"
	"studyassist/internal/prompt"
	"studyassist/internal/repository"
	"studyassist/internal/repository/postgres"
	"studyassist/internal/service"
	"studyassist/internal/session"
)

// @title Study Assistant API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Tracing is best-effort; a failed exporter degrades to a no-op provider
	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// History store is optional: no DATABASE_URL means the no-op repository
	var db *sql.DB
	history := repository.HistoryRepository(repository.NewDisabledHistory())
	if cfg.HistoryEnabled {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		migCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		if err := migration.EnsureMigrated(migCtx, db); err != nil {
			cancel()
			log.Fatalf("failed to run migrations: %v", err)
		}
		cancel()

		history = postgres.NewHistoryPostgres(db)
	}

	// Wire the pipeline: extractor -> prompt builder -> model client
	extractor := extract.NewPDF()
	builder := prompt.NewBuilder(cfg.MaxContextChars)
	client := llm.NewOpenAI(cfg.OpenAI)
	sessions := session.NewStore(time.Duration(cfg.SessionTTLMin) * time.Minute)

	svc := service.NewStudyService(extractor, builder, client, history, sessions)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    32 << 20, // textbook PDFs
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	prom, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(prom.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, svc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
