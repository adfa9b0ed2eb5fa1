package main

import (
	"context"
	"time"

	_ "github.com/dealerbook/dealerbook/docs/swagger"
	"github.com/dealerbook/dealerbook/internal/api"
	v1 "github.com/dealerbook/dealerbook/internal/api/v1"
	"github.com/dealerbook/dealerbook/internal/cache"
	"github.com/dealerbook/dealerbook/internal/config"
	"github.com/dealerbook/dealerbook/internal/database"
	"github.com/dealerbook/dealerbook/internal/logger"
	"github.com/dealerbook/dealerbook/internal/pubsub"
	"github.com/dealerbook/dealerbook/internal/pubsub/kafka"
	"github.com/dealerbook/dealerbook/internal/pubsub/memory"
	pubsubRouter "github.com/dealerbook/dealerbook/internal/pubsub/router"
	"github.com/dealerbook/dealerbook/internal/repository"
	"github.com/dealerbook/dealerbook/internal/sentry"
	"github.com/dealerbook/dealerbook/internal/service"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title Dealerbook API
// @version 1.0
// @description Dealership ledger and order sequencing service
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Initialize Fx application
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Store
			repository.NewBackend,
			repository.NewClient,

			// Change notifications
			providePubSub,
			providePublisher,
			pubsubRouter.NewRouter,

			// Repositories
			repository.NewSequenceRepository,
			repository.NewCapitalRepository,
			repository.NewTransactionRepository,
			repository.NewInventoryRepository,
			repository.NewPurchaseRepository,
			repository.NewSaleRepository,
			repository.NewPersonRepository,
		),
	)

	// Monitoring
	opts = append(opts, sentry.Module())

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewCoordinator,
			service.NewSequenceService,
			service.NewCapitalService,
			service.NewLedgerService,
			service.NewPersonService,
			service.NewChangeJournalService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func providePubSub(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) (pubsub.PubSub, error) {
	var ps pubsub.PubSub
	switch cfg.Notifications.Driver {
	case types.NotificationDriverKafka:
		var err error
		if ps, err = kafka.NewPubSub(cfg, log); err != nil {
			return nil, err
		}
	default:
		ps = memory.NewPubSub(cfg, log)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("Closing change notification pubsub...")
			return ps.Close()
		},
	})
	return ps, nil
}

func providePublisher(ps pubsub.PubSub) pubsub.Publisher {
	return ps
}

func provideHandlers(
	logger *logger.Logger,
	db database.IClient,
	coordinator service.Coordinator,
	capitalService service.CapitalService,
	ledgerService service.LedgerService,
	personService service.PersonService,
) api.Handlers {
	return api.Handlers{
		Health:      v1.NewHealthHandler(db, logger),
		Order:       v1.NewOrderHandler(coordinator, logger),
		Purchase:    v1.NewPurchaseHandler(coordinator, logger),
		Sale:        v1.NewSaleHandler(coordinator, logger),
		Transfer:    v1.NewTransferHandler(coordinator, logger),
		Account:     v1.NewAccountHandler(capitalService, coordinator, logger),
		Transaction: v1.NewTransactionHandler(ledgerService, coordinator, logger),
		Inventory:   v1.NewInventoryHandler(coordinator, logger),
		Person:      v1.NewPersonHandler(personService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	router *pubsubRouter.Router,
	ps pubsub.PubSub,
	journal service.ChangeJournalService,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
		if cfg.Notifications.Enabled && cfg.Notifications.Journal {
			startMessageRouter(lc, router, ps, journal, cfg, log)
		}
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address, "store", cfg.Database.Driver)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}

func startMessageRouter(
	lc fx.Lifecycle,
	router *pubsubRouter.Router,
	subscriber pubsub.Subscriber,
	journal service.ChangeJournalService,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	// Register handlers before starting the router
	journal.RegisterHandler(router, subscriber, cfg)

	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting message router")
			go func() {
				if err := router.Run(runCtx); err != nil {
					log.Errorw("message router failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping message router")
			cancel()
			return router.Close()
		},
	})
}
