package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gridfs_adapter "github.com/aatrips/Verified-land-marketplace/internal/adapters/gridfs"
	logger_adapter "github.com/aatrips/Verified-land-marketplace/internal/adapters/logger"
	postgres_adapter "github.com/aatrips/Verified-land-marketplace/internal/adapters/postgres"
	rabbitmq_adapter "github.com/aatrips/Verified-land-marketplace/internal/adapters/rabbitmq"
	redis_adapter "github.com/aatrips/Verified-land-marketplace/internal/adapters/redis"
	"github.com/aatrips/Verified-land-marketplace/internal/adapters/rest"
	token_adapter "github.com/aatrips/Verified-land-marketplace/internal/adapters/token"
	"github.com/aatrips/Verified-land-marketplace/internal/configs"
	"github.com/aatrips/Verified-land-marketplace/internal/constants"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/policy"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port/usecases_port"
	"github.com/aatrips/Verified-land-marketplace/internal/core/usecase"
	fluentlogger "github.com/aatrips/Verified-land-marketplace/pkg/fluent_logger"
	"github.com/aatrips/Verified-land-marketplace/pkg/mongodb"
	"github.com/aatrips/Verified-land-marketplace/pkg/postgres"
	"github.com/aatrips/Verified-land-marketplace/pkg/rabbitmq/rabbitmq_common"
	"github.com/aatrips/Verified-land-marketplace/pkg/rabbitmq/rabbitmq_producer"
	redisclient "github.com/aatrips/Verified-land-marketplace/pkg/redis"

	"github.com/fluent/fluent-logger-golang/fluent"
	goredis "github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	mongo     *mongo.Client
	redis     *goredis.Client
	rabbit    *rabbitmq_common.ConnectionManager
	producer  *rabbitmq_producer.Publisher
	apiServer *rest.Server

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ЛОГГЕРЫ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.IsProduction(),
		UseColor: !appConfig.IsProduction(),
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
		"env":          appConfig.Env,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	app := &App{
		config:       appConfig,
		fluentClient: fluentClient,
		logger:       appLogger,
	}
	// при ошибке ниже закрываем все, что успели открыть
	fail := func(msg string, err error) (*App, error) {
		appLogger.Error(msg, err, nil)
		app.close()
		return nil, fmt.Errorf("%s: %w", msg, err)
	}

	// --- 2. ХРАНИЛИЩА ---
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	app.dbPool, err = postgres.NewClient(startupCtx, postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		return fail("failed to connect to PostgreSQL", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	propertyRepo, err := postgres_adapter.NewPostgresPropertyRepository(app.dbPool)
	if err != nil {
		return fail("failed to create property repository", err)
	}
	imageRepo, err := postgres_adapter.NewPostgresPropertyImageRepository(app.dbPool)
	if err != nil {
		return fail("failed to create property image repository", err)
	}
	leadRepo, err := postgres_adapter.NewPostgresLeadRepository(app.dbPool)
	if err != nil {
		return fail("failed to create lead repository", err)
	}

	var mongoDB *mongo.Database
	app.mongo, mongoDB, err = mongodb.NewClient(startupCtx, mongodb.Config{
		URI:      appConfig.Mongo.URI,
		Database: appConfig.Mongo.Database,
	})
	if err != nil {
		return fail("failed to connect to MongoDB", err)
	}
	appLogger.Info("Successfully connected to MongoDB!", port.Fields{"database": appConfig.Mongo.Database})

	blobStorage, err := gridfs_adapter.NewGridFSBlobStorage(mongoDB, appConfig.Storage.Bucket, appConfig.Storage.PublicBaseURL)
	if err != nil {
		return fail("failed to create blob storage", err)
	}

	// --- 3. СОБЫТИЯ ---
	var events port.EventPublisherPort = rabbitmq_adapter.NoopEventPublisher{}
	if appConfig.RabbitMQ.Enabled {
		rabbitLogger := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq"}))

		app.rabbit, err = rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, rabbitLogger)
		if err != nil {
			return fail("failed to connect to RabbitMQ", err)
		}

		app.producer, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			ExchangeName:             constants.ListingEventsExchange,
			ExchangeType:             constants.ListingEventsExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitLogger,
		}, app.rabbit)
		if err != nil {
			return fail("failed to create event producer", err)
		}

		events, err = rabbitmq_adapter.NewRabbitMQEventPublisher(app.producer)
		if err != nil {
			return fail("failed to create event publisher", err)
		}
		appLogger.Info("RabbitMQ Event Producer initialized.", port.Fields{"exchange": constants.ListingEventsExchange})
	} else {
		appLogger.Info("RabbitMQ disabled, domain events are dropped.", nil)
	}

	// --- 4. ДОСТУП К OPS-ПАНЕЛИ ---
	var (
		accessPolicy port.AccessPolicyPort
		loginUC      usecases_port.OpsLoginUseCasePort
		logoutUC     usecases_port.OpsLogoutUseCasePort
	)
	switch appConfig.Ops.AuthMode {
	case configs.OpsAuthModeSession:
		app.redis, err = redisclient.NewClient(startupCtx, redisclient.Config{
			Addr:     appConfig.Redis.Addr,
			Password: appConfig.Redis.Password,
			DB:       appConfig.Redis.DB,
		})
		if err != nil {
			return fail("failed to connect to Redis", err)
		}
		appLogger.Info("Successfully connected to Redis!", nil)

		sessionStore, err := redis_adapter.NewRedisSessionStore(app.redis)
		if err != nil {
			return fail("failed to create session store", err)
		}
		tokenService, err := token_adapter.NewSessionTokenService(appConfig.Ops.JWTSecret)
		if err != nil {
			return fail("failed to create session token service", err)
		}
		opsUserRepo, err := postgres_adapter.NewPostgresOpsUserRepository(app.dbPool)
		if err != nil {
			return fail("failed to create ops user repository", err)
		}

		allowList := domain.NewEmailAllowList(appConfig.Ops.AdminEmails)
		accessPolicy = policy.NewSessionAllowListPolicy(tokenService, sessionStore, allowList)
		loginUC = usecase.NewOpsLoginUseCase(opsUserRepo, tokenService, sessionStore, allowList, appConfig.Ops.SessionTTL)
		logoutUC = usecase.NewOpsLogoutUseCase(tokenService, sessionStore)
		appLogger.Info("Ops access uses sessions with admin allow-list", port.Fields{"admins": allowList.Len()})
	default:
		secretPolicy := policy.NewSharedSecretPolicy(appConfig.Ops.SharedSecret, appConfig.IsProduction())
		if secretPolicy.DevBypass() {
			appLogger.Warn("Ops key check is bypassed outside production", nil)
		}
		accessPolicy = secretPolicy
	}

	// --- 5. USE CASES ---
	maxImageSize := appConfig.Storage.MaxImageSize
	uploadImageUC := usecase.NewUploadPropertyImageUseCase(propertyRepo, imageRepo, blobStorage, events, maxImageSize)
	uploadHeroUC := usecase.NewUploadHeroImageUseCase(blobStorage, maxImageSize)
	submitListingUC := usecase.NewSubmitListingUseCase(propertyRepo, uploadImageUC, events, maxImageSize)
	findPropertiesUC := usecase.NewFindPropertiesUseCase(propertyRepo)
	detailsUC := usecase.NewGetPropertyDetailsUseCase(propertyRepo, imageRepo, blobStorage)
	listImagesUC := usecase.NewListPropertyImagesUseCase(propertyRepo, imageRepo, blobStorage)
	captureLeadUC := usecase.NewCaptureLeadUseCase(leadRepo, events)
	listLeadsUC := usecase.NewListLeadsUseCase(leadRepo, propertyRepo, appConfig.Ops.LeadsLimit)
	setVerificationUC := usecase.NewSetVerificationUseCase(propertyRepo, events)

	// --- 6. REST ---
	handlers := rest.Handlers{
		Properties: rest.NewPropertyHandler(findPropertiesUC, detailsUC, listImagesUC, submitListingUC, maxImageSize),
		Images:     rest.NewImageHandler(uploadImageUC, uploadHeroUC, maxImageSize),
		Leads:      rest.NewLeadHandler(captureLeadUC),
		Ops: rest.NewOpsHandler(listLeadsUC, findPropertiesUC, setVerificationUC, loginUC, logoutUC, rest.OpsHandlerConfig{
			AuthMode:     accessPolicy.Mode(),
			Env:          appConfig.Env,
			SecureCookie: appConfig.IsProduction(),
		}),
		Media: rest.NewMediaHandler(blobStorage),
	}
	app.apiServer = rest.NewServer(rest.ServerConfig{
		Port:               appConfig.Rest.PORT,
		CORSAllowedOrigins: appConfig.Rest.CORSAllowedOrigins,
	}, handlers, accessPolicy, baseLogger)
	appLogger.Info("REST API server configured.", port.Fields{"ops_auth_mode": accessPolicy.Mode()})

	return app, nil
}

// Run запускает HTTP-сервер и ждет сигнала завершения.
func (a *App) Run() error {
	defer a.close()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("Server failed, shutting down", err, nil)
		runErr = err
	}
	return runErr
}

// close останавливает компоненты в обратном порядке: сервер, брокер, хранилища, логгер.
func (a *App) close() {
	a.logger.Info("Shutdown sequence initiated...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.apiServer != nil {
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ producer", err, nil)
		}
	}
	if a.rabbit != nil {
		if err := a.rabbit.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Error closing Redis client", err, nil)
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			a.logger.Error("Error disconnecting MongoDB client", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent может быть уже недоступен
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}
