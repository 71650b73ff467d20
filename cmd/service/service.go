package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "medtrack/docs" // 引入 swag 產出的 docs

	"medtrack/internal/cache"
	"medtrack/internal/config"
	"medtrack/internal/database"
	"medtrack/internal/logger"
	"medtrack/internal/middleware"
	"medtrack/internal/router"
	"medtrack/internal/validation"
	"medtrack/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackAllFn   = database.RollbackAll
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool   = worker.NewPool
	exitFunc        = os.Exit
)

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	zerolog.DefaultContextLogger = &log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := newPgxPool(ctx, cfg.DatabaseURL, cfg.DBStatementTimeout)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	if cfg.DBResetOnStart {
		log.Warn().Msg("DB_RESET_ON_START 已開啟，退回所有 migration")
		if err := rollbackAllFn(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("RollbackAll 失敗: %w", err)
		}
	}
	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	// 未設定 REDIS_ADDR 時不啟用快取
	var cch cache.Cache
	if cfg.CacheEnabled() {
		cch, err = newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("Redis 連線失敗: %w", err)
		}
		defer func() {
			if err := cch.Close(); err != nil {
				log.Warn().Err(err).Msg("關閉 Redis 連線失敗")
			}
		}()
	} else {
		log.Info().Msg("REDIS_ADDR 未設定，停用清單快取")
	}

	wp := newWorkerPool(cfg.WorkerCount, log)
	defer wp.Stop()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.NewValidator()
	e.Server.ReadTimeout = cfg.ServerReadTimeout
	e.Server.WriteTimeout = cfg.ServerWriteTimeout
	middleware.Setup(e, cfg, log)
	router.Setup(e, db, cch, cfg.CacheTTL, wp)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server started")
		errCh <- startServer(e, cfg.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP 服務啟動失敗: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP 服務關閉失敗: %w", err)
	}
	return nil
}
