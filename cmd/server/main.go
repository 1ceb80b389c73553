package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-ledger/internal/config"
	"github.com/ignatzorin/freelance-ledger/internal/db"
	"github.com/ignatzorin/freelance-ledger/internal/export"
	"github.com/ignatzorin/freelance-ledger/internal/goroutine"
	httpHandlers "github.com/ignatzorin/freelance-ledger/internal/http/handlers"
	"github.com/ignatzorin/freelance-ledger/internal/http/middleware"
	httpRouter "github.com/ignatzorin/freelance-ledger/internal/http/router"
	"github.com/ignatzorin/freelance-ledger/internal/logger"
	"github.com/ignatzorin/freelance-ledger/internal/observability"
	"github.com/ignatzorin/freelance-ledger/internal/repository"
	"github.com/ignatzorin/freelance-ledger/internal/service"
	"github.com/ignatzorin/freelance-ledger/internal/ws"
	"github.com/ignatzorin/freelance-ledger/migrations"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка загрузки конфигурации")
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}

	if err := run(ctx, cfg); err != nil {
		logger.Log.WithError(err).Error("main: сервер завершился с ошибкой")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.OtelServiceName,
		Environment: cfg.Env,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    cfg.OtelInsecure,
		SampleRatio: cfg.OtelSampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Log.WithError(err).Warn("main: ошибка остановки трассировки")
		}
	}()

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer safeClose(dbConn)

	applied, err := db.RunMigrations(ctx, dbConn, migrations.FS)
	if err != nil {
		return err
	}
	logger.Log.WithField("applied", applied).Info("main: миграции применены")

	limitStore, closeLimitStore, err := middleware.NewLimiterStore(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLimitStore() }()

	// Хаб уведомлений живёт до отмены ctx.
	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, "ws-hub", hub.Run)

	// Репозитории.
	txRunner := db.NewTxRunner(dbConn, cfg.TxMaxAttempts)
	profileRepo := repository.NewProfileRepository(dbConn)
	contractRepo := repository.NewContractRepository(dbConn)
	jobRepo := repository.NewJobRepository(dbConn)
	reportRepo := repository.NewReportRepository(dbConn)

	// Сервисы.
	profileService := service.NewProfileService(profileRepo)
	contractService := service.NewContractService(contractRepo, profileRepo, txRunner)
	jobService := service.NewJobService(jobRepo, contractRepo, profileRepo, txRunner, hub)
	balanceService := service.NewBalanceService(profileRepo, jobRepo, txRunner, hub)
	reportService := service.NewReportService(reportRepo)
	reportService.RegisterRenderer("xlsx", export.NewExcelRenderer())
	reportService.RegisterRenderer("pdf", export.NewPDFRenderer())

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Profile:  httpHandlers.NewProfileHandler(profileService),
		Contract: httpHandlers.NewContractHandler(contractService),
		Job:      httpHandlers.NewJobHandler(jobService),
		Balance:  httpHandlers.NewBalanceHandler(balanceService),
		Report:   httpHandlers.NewReportHandler(reportService),
		Health:   httpHandlers.NewHealthHandler(dbConn),
		WS:       httpHandlers.NewWSHandler(hub, cfg.AllowedOrigins),
	}, profileService, limitStore)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGo("http-shutdown", func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	})

	logger.Log.WithField("port", cfg.HTTPPort).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Log.Info("main: сервер остановлен")
	return nil
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		logger.Log.WithError(err).Error("main: ошибка закрытия базы")
	}
}
