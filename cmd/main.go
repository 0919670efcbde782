package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/referral/config"
	"github.com/Payphone-Digital/referral/internal/audit"
	"github.com/Payphone-Digital/referral/internal/constants"
	"github.com/Payphone-Digital/referral/internal/handler"
	"github.com/Payphone-Digital/referral/internal/middleware"
	"github.com/Payphone-Digital/referral/internal/repository"
	"github.com/Payphone-Digital/referral/internal/repository/memory"
	"github.com/Payphone-Digital/referral/internal/repository/postgres"
	"github.com/Payphone-Digital/referral/internal/router"
	"github.com/Payphone-Digital/referral/internal/service"
	"github.com/Payphone-Digital/referral/pkg/database"
	"github.com/Payphone-Digital/referral/pkg/health"
	"github.com/Payphone-Digital/referral/pkg/logger"
	"github.com/Payphone-Digital/referral/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const healthInterval = 30 * time.Second

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.GetLogger()
	log.Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
		zap.String("storage", config.Storage.Driver),
		zap.String("audit_sink", config.Audit.Sink),
	)

	if config.App.Environment == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	monitor := health.NewMonitor(healthInterval, 5*time.Second, log)

	db, repos, err := openStorage(config)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	if db != nil {
		defer func() {
			if err := database.CloseDB(db); err != nil {
				log.Warn("Failed to close database", zap.Error(err))
			}
		}()
		monitor.Register("database", health.Database(db), true)
	} else {
		monitor.Disable("database")
	}

	revocations := service.NewMemoryRevocationStore()
	if config.Redis.Enabled {
		redisClient, err := redis.NewClient(config)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err), zap.String("address", config.RedisAddress()))
		}
		defer redisClient.Close()
		revocations = service.NewRedisRevocationStore(redisClient)
		monitor.Register("redis", health.Redis(redisClient), false)
		log.Info("Redis token revocation enabled", zap.String("address", config.RedisAddress()))
	} else {
		monitor.Disable("redis")
	}

	sink, err := openSink(config, db, log)
	if err != nil {
		log.Fatal("Failed to initialize audit sink", zap.Error(err))
	}
	if closer, ok := sink.(io.Closer); ok {
		defer closer.Close()
	}

	dispatcher := audit.NewDispatcher(sink, audit.DispatcherConfig{
		QueueSize: config.Audit.QueueSize,
		Workers:   config.Audit.Workers,
		Timeout:   config.Audit.Timeout,
	}, log)
	dispatcher.Start()

	// Services
	tokens := service.NewJWTService(config.JWT.Secret, config.JWT.ExpirationTime, revocations)
	ledger := service.NewLedgerService(repos.User, repos.Ledger, dispatcher)
	identity := service.NewIdentityService(repos.User, ledger, tokens, dispatcher, config.JWT.BcryptCost)
	catalog := service.NewCatalogService(repos.Partner)
	referrals := service.NewReferralService(identity, ledger, catalog)
	submissions := service.NewSubmissionService(repos.Submission, sink, config.Audit.Timeout)

	r := router.NewRouter(
		handler.NewAuthHandler(identity),
		handler.NewReferralHandler(referrals, catalog, identity),
		handler.NewSubmissionHandler(submissions),
		handler.NewHealthHandler(monitor, dispatcher),

		middleware.NewValidationMiddleware(),
		middleware.NewJWTMiddleware(service.NewGate(identity)),
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	monitor.Start()

	go func() {
		log.Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), config.App.Timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	monitor.Stop()

	// Requests are done; flush whatever audit rows are still queued.
	if err := dispatcher.Close(ctx); err != nil {
		log.Warn("Audit queue not fully drained", zap.Error(err))
	}
	stats := dispatcher.Stats()
	log.Info("Server exited",
		zap.Int64("audit_delivered", stats.Delivered),
		zap.Int64("audit_failed", stats.Failed),
		zap.Int64("audit_dropped", stats.Dropped),
	)
}

// openStorage returns the repositories for the configured driver. db is nil
// for the memory driver.
func openStorage(config *configs.Config) (*gorm.DB, *repository.Repositories, error) {
	if config.Storage.Driver == configs.StorageMemory {
		logger.GetLogger().Warn("Using in-memory storage; data is lost on restart")
		return nil, memory.NewRepositories(database.DefaultPartners()), nil
	}

	db, err := database.NewPostgresDB(config)
	if err != nil {
		return nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.CloseDB(db)
		return nil, nil, err
	}
	if err := database.ApplyConstraints(db); err != nil {
		_ = database.CloseDB(db)
		return nil, nil, err
	}
	if err := database.Seed(db); err != nil {
		// Existing rows are left alone; the service can run on them.
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	return db, postgres.NewRepositories(db), nil
}

func openSink(config *configs.Config, db *gorm.DB, log *zap.Logger) (audit.Sink, error) {
	switch config.Audit.Sink {
	case configs.SinkSheets:
		// The client keeps this context for token refreshes, so it must not be cancelled.
		sheets, err := audit.NewSheetsSink(context.Background(), config.Sheets.SpreadsheetID, config.Sheets.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return sheets, nil
	case configs.SinkDatabase:
		return audit.NewDatabaseSink(db), nil
	case configs.SinkAMQP:
		mq, err := audit.NewAMQPSink(config.AMQP.URL, config.AMQP.Exchange)
		if err != nil {
			return nil, err
		}
		return mq, nil
	default:
		return audit.NewLogSink(log), nil
	}
}
