package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpadp "credit-preapproval/internal/adapter/http"
	"credit-preapproval/internal/adapter/loanapi"
	idemp "credit-preapproval/internal/adapter/middleware"
	"credit-preapproval/internal/adapter/repository/mysql"
	"credit-preapproval/internal/adapter/repository/redisstore"
	"credit-preapproval/internal/config"
	"credit-preapproval/internal/infrastructure/cache"
	"credit-preapproval/internal/infrastructure/db"
	"credit-preapproval/internal/infrastructure/logger"
	lenderuc "credit-preapproval/internal/usecase/lender"
	preuc "credit-preapproval/internal/usecase/preapproval"
	sessionuc "credit-preapproval/internal/usecase/session"
	"credit-preapproval/internal/usecase/status"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	gdb, err := db.OpenGorm(cfg)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatal("database handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := db.Migrate(gdb); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}
	rdb, err := cache.OpenRedis(context.Background(), cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal("open redis", zap.Error(err))
	}
	defer rdb.Close()

	lenders := mysql.NewLenderRepository(gdb)
	history := mysql.NewApplicationRepository(gdb)
	sessions := redisstore.NewSessionStore(rdb, cfg.SessionTTL())
	flows := redisstore.NewFlowStore(rdb, cfg.FlowTTL(), cfg.FlowLockTTL())
	loans := loanapi.NewClient(cfg.LoanAPIBaseURL, cfg.LoanAPITimeout(), log)

	lenderUC := lenderuc.NewUsecase(lenders)
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	n, err := lenderUC.Seed(seedCtx)
	cancelSeed()
	if err != nil {
		log.Fatal("seed lenders", zap.Error(err))
	}
	log.Info("lender catalog ready", zap.Int("lenders", n))

	preUC := preuc.NewUsecase(preuc.Params{
		Flows:    flows,
		Sessions: sessions,
		Lenders:  lenders,
		History:  history,
		Loans:    loans,
		LoanTerm: cfg.LoanTermMonths,
		Log:      log,
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger(), middleware.Recover())

	// routes
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	checks := map[string]httpadp.Check{
		"db":    sqlDB.PingContext,
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
	sessionUC := sessionuc.NewUsecase(sessions)
	statusUC := status.NewUsecase(sessions, loans)
	httpadp.Register(e, httpadp.Handlers{
		Health:       httpadp.NewHandler(checks),
		Lenders:      httpadp.NewLenderHandler(lenderUC, log),
		Preapprovals: httpadp.NewPreapprovalHandler(preUC, log),
		Sessions:     httpadp.NewSessionHandler(sessionUC, preUC, statusUC, log),
	}, idemp.Idempotency(rdb, idemp.IdempotencyConfig{
		TTL:     cfg.IdempotencyTTL(),
		LockTTL: cfg.FlowLockTTL(),
		Log:     log,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.FlowLockTTL())
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
