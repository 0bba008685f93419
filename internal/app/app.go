package app

import (
	"fmt"

	"go-employee/internal/config"
	"go-employee/internal/employee"
	"go-employee/internal/middleware"
	"go-employee/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the infrastructure selected by cfg and mounts every
// module on router. The returned cleanup closes those connections.
func BuildApp(router *gin.Engine, cfg *config.Config, logger *zap.Logger) (func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	repo, err := buildEmployeeRepository(cfg, logger, &closers)
	if err != nil {
		cleanup()
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.Redis, logger)
		if err != nil {
			cleanup()
			return nil, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
	} else {
		logger.Info("REDIS_ADDR not set, idempotent POSTs disabled")
	}

	router.MaxMultipartMemory = cfg.Upload.MaxUploadBytes
	router.Use(middleware.RequestID())

	if err := registerModules(router, repo, cfg.Upload, rdb, logger); err != nil {
		cleanup()
		return nil, err
	}

	return cleanup, nil
}

func buildEmployeeRepository(cfg *config.Config, logger *zap.Logger, closers *[]func()) (employee.Repository, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory employee store, data is lost on restart")
		return employee.NewMemoryRepository(), nil
	case config.StoreDriverPostgres:
		db, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func() { closeGORM(db, logger) })
		if err := db.AutoMigrate(&employee.Employee{}); err != nil {
			return nil, fmt.Errorf("migrate employees: %w", err)
		}
		return employee.NewRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func closeGORM(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database failed", zap.Error(err))
	}
}
