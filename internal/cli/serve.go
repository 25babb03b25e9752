package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clauselens/clauselens/internal/api/handlers"
	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/lexical"
	"github.com/clauselens/clauselens/internal/openai"
	"github.com/clauselens/clauselens/internal/repository"
	"github.com/clauselens/clauselens/internal/rules"
	"github.com/clauselens/clauselens/internal/server"
	"github.com/clauselens/clauselens/internal/service"
	"github.com/clauselens/clauselens/internal/telemetry"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the clauselens API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if a DSN is set
	if cfg.SentryDSN != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	// A broken rule table or corpus refuses to start the server
	table, err := loadRuleTable(cfg)
	if err != nil {
		return fmt.Errorf("failed to load rule table: %w", err)
	}
	log.Printf("loaded %d policy rules", table.Len())

	model, err := loadModel(cfg)
	if err != nil {
		return fmt.Errorf("failed to build term-weighting model: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	chunkRepo := repository.NewChunkRepository(pool)
	logRepo := repository.NewAnalysisLogRepository(pool)

	retriever := buildRetriever(cfg, model, chunkRepo)

	engine := rules.NewEngine(table)
	analysisSvc, err := service.NewAnalysisServiceWithConfig(
		engine, model, retriever, logRepo, service.DefaultAnalysisConfig())
	if err != nil {
		return fmt.Errorf("failed to create analysis service: %w", err)
	}
	defer analysisSvc.Close()

	routerCfg := server.RouterConfig{
		AnalyzeHandler:  handlers.NewAnalyzeHandler(analysisSvc),
		RetrieveHandler: handlers.NewRetrieveHandler(retriever),
		RulesHandler:    handlers.NewRulesHandler(table),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func buildRetriever(cfg *config.Config, model *lexical.Model, chunkRepo *repository.ChunkRepository) handlers.RetrieveService {
	if cfg.HasOpenAI() {
		client := openai.NewClient(openai.Config{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.EmbeddingModel,
			Dimensions: cfg.EmbeddingDims,
		})
		log.Println("retrieval: semantic (embedding provider configured)")
		return service.NewRetrievalService(client, chunkRepo)
	}

	log.Println("retrieval: lexical fallback (no embedding provider configured)")
	return service.NewLexicalRetriever(model, chunkRepo)
}

func loadRuleTable(cfg *config.Config) (*rules.Table, error) {
	if cfg.RulesPath != "" {
		return rules.LoadFile(cfg.RulesPath)
	}
	return rules.Load(rules.DefaultTableSpec())
}

func loadModel(cfg *config.Config) (*lexical.Model, error) {
	corpus := rules.DefaultCorpus()
	if cfg.CorpusPath != "" {
		loaded, err := rules.LoadCorpusFile(cfg.CorpusPath)
		if err != nil {
			return nil, err
		}
		corpus = loaded
	}
	return lexical.NewModel(corpus)
}

func runMigrations(databaseURL string) error {
	// golang-migrate needs a database/sql connection
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
