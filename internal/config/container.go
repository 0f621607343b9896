package config

import (
	"context"
	"fmt"

	"pdf-converter/internal/domain"
	"pdf-converter/internal/repository"
	"pdf-converter/internal/service"
	"pdf-converter/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config *AppConfig
	Logger domain.Logger
	Store  *repository.Store

	UserRepository        domain.UserRepository
	DocumentRepository    domain.DocumentRepository
	PricingRepository     domain.PricingRepository
	TransactionRepository domain.TransactionRepository

	Storage         domain.StorageService
	Mailer          domain.Mailer
	UserService     *service.UserService
	BillingService  *service.BillingService
	DocumentService *service.DocumentService
}

// NewContainer loads configuration and wires every dependency. Configuration
// errors abort here, before anything binds a port.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	appLogger := logger.NewLogger(cfg.LogLevel)

	store, err := repository.Open(cfg.DatabaseURL, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	userRepo := repository.NewUserRepository(store)
	docRepo := repository.NewDocumentRepository(store)
	pricingRepo := repository.NewPricingRepository(store)
	txRepo := repository.NewTransactionRepository(store)

	var storage domain.StorageService
	if cfg.S3.Enabled() {
		storage, err = service.NewS3Storage(ctx, cfg.S3, appLogger)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		appLogger.Info("Using S3 media storage", "bucket", cfg.S3.Bucket, "region", cfg.S3.Region)
	} else {
		storage, err = service.NewLocalStorage(cfg.MediaRoot, appLogger)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("init local storage: %w", err)
		}
	}

	mailer := service.NewMailer(cfg.Email, appLogger)
	billing := service.NewBillingService(userRepo, pricingRepo, txRepo, appLogger)
	users := service.NewUserService(userRepo, cfg.Secret, appLogger)
	docs := service.NewDocumentService(docRepo, storage, service.NewConversionEngine(appLogger),
		billing, mailer, cfg.Workers, appLogger)

	return &Container{
		Config: cfg,
		Logger: appLogger,
		Store:  store,

		UserRepository:        userRepo,
		DocumentRepository:    docRepo,
		PricingRepository:     pricingRepo,
		TransactionRepository: txRepo,

		Storage:         storage,
		Mailer:          mailer,
		UserService:     users,
		BillingService:  billing,
		DocumentService: docs,
	}, nil
}

// Close releases everything the container owns: the worker pool first so
// in-flight conversions can still reach the database.
func (c *Container) Close() {
	if c.DocumentService != nil {
		c.DocumentService.Stop()
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			c.Logger.Warn("Failed to close database", "error", err)
		}
	}
}
