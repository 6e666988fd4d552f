package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/statementkit/statement-intake/internal/domain/categorization"
	"github.com/statementkit/statement-intake/internal/domain/extract"
	"github.com/statementkit/statement-intake/internal/domain/intake"
	"github.com/statementkit/statement-intake/internal/domain/intake/handler"
	"github.com/statementkit/statement-intake/internal/domain/intake/repository"
	"github.com/statementkit/statement-intake/internal/domain/pdf"
	"github.com/statementkit/statement-intake/pkg/config"
	"github.com/statementkit/statement-intake/pkg/cron"
	"github.com/statementkit/statement-intake/pkg/db"
	"github.com/statementkit/statement-intake/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Services
	PDFService     *pdf.Service
	GeminiClient   *extract.Client
	Categorization *categorization.Engine
	HistoryRepo    repository.Repository
	SessionManager *intake.Manager
	FileStorage    storage.Storage
	Scheduler      *cron.Scheduler

	// Handlers
	IntakeHandler *handler.IntakeHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	if err := deps.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase connects the optional history store and runs migrations.
func (d *Dependencies) initDatabase() error {
	if !d.Config.Database.Enabled {
		d.Logger.Info("extraction history disabled, running in-memory only")
		return nil
	}

	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        int32(d.Config.Database.MaxConns),
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.HistoryRepo = repository.NewPostgresRepository(d.DB.Pool)

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() error {
	d.PDFService = pdf.NewService(d.Logger)

	d.GeminiClient = extract.NewClient(extract.Config{
		APIKey: d.Config.Gemini.APIKey,
		Model:  d.Config.Gemini.Model,
	}, d.Logger).WithTextExtractor(d.PDFService)

	d.Categorization = categorization.NewEngine(categorization.DefaultPatterns())

	fileStorage, err := storage.New(&storage.Config{LocalPath: d.Config.Storage.LocalPath})
	if err != nil {
		return fmt.Errorf("failed to init file storage: %w", err)
	}
	d.FileStorage = fileStorage

	uploadDelay := d.Config.Intake.UploadDelay
	d.SessionManager = intake.NewManager(d.Config.Intake.SessionTTL, func(sessionID string) *intake.Controller {
		var extractor intake.Extractor = newEnrichingExtractor(d.GeminiClient, d.Categorization)
		if d.HistoryRepo != nil {
			extractor = newRecordingExtractor(extractor, d.HistoryRepo, sessionID, d.Logger)
		}
		extractor = newInstrumentedExtractor(extractor)

		return intake.NewController(d.PDFService, d.PDFService, extractor, d.Logger,
			intake.WithUploadDelay(uploadDelay))
	})

	d.Scheduler = cron.NewScheduler(d.SessionManager, d.FileStorage, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() error {
	cookieStore := sessions.NewCookieStore([]byte(d.Config.Session.CookieSecret))
	cookieStore.Options.HttpOnly = true
	cookieStore.Options.SameSite = http.SameSiteLaxMode
	cookieStore.MaxAge(int(d.Config.Intake.SessionTTL.Seconds()))

	d.IntakeHandler = handler.NewIntakeHandler(
		d.SessionManager,
		cookieStore,
		d.Config.Session.CookieName,
		d.FileStorage,
		d.Logger,
	).
		WithMaxUploadBytes(d.Config.Intake.MaxUploadBytes).
		WithCurrency(d.Config.Intake.Currency)

	if d.HistoryRepo != nil {
		d.IntakeHandler.WithHistory(d.HistoryRepo)
	}

	d.Logger.Info("handlers initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
