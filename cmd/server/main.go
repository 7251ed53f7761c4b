package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/application/settlement"
	"github.com/pawnshop/backend/internal/infrastructure/config"
	"github.com/pawnshop/backend/internal/infrastructure/logger"
	"github.com/pawnshop/backend/internal/infrastructure/persistence"
	"github.com/pawnshop/backend/internal/interfaces/http/handler"
	"github.com/pawnshop/backend/internal/interfaces/http/middleware"
	"github.com/pawnshop/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// defaultCompanyID is the development company seeded at startup
var defaultCompanyID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Pawnshop Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := persistence.AutoMigrate(db.DB); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	if err := persistence.SeedChartOfAccounts(context.Background(), db.DB, defaultCompanyID); err != nil {
		log.Fatal("Failed to seed chart of accounts", zap.Error(err))
	}

	// Application services
	uow := persistence.NewGormUnitOfWork(db.DB)
	posting := settlement.NewPostingService(log)
	pledgeService := settlement.NewPledgeService(uow, posting, log)
	paymentService := settlement.NewPaymentService(uow, posting, log)
	multiPaymentService := settlement.NewMultiPaymentService(uow, paymentService, log)
	quoteService := settlement.NewQuoteService(uow)
	ledgerService := settlement.NewLedgerService(uow)

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.NewRouter(engine).
		Register(handler.NewPledgeHandler(pledgeService, quoteService)).
		Register(handler.NewPaymentHandler(paymentService, multiPaymentService)).
		Register(handler.NewLedgerHandler(ledgerService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()
	log.Info("HTTP server listening", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
