package app

import (
	"context"

	"hris-payroll/internal/config"
	"hris-payroll/internal/middleware"
	"hris-payroll/internal/shared/connection"
	"hris-payroll/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and mounts every module on router.
// The returned cleanup closes the connections it opened.
func BuildApp(router *gin.Engine, cfg *config.Config) (func(), error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, logger)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	var store storage.ObjectStore
	if cfg.Storage.Bucket != "" {
		s3Store, err := storage.NewS3Store(context.Background(), cfg.Storage)
		if err != nil {
			sqlDB.Close()
			rdb.Close()
			return nil, err
		}
		store = s3Store
		logger.Info("payslip archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	router.Use(middleware.ContextLogger(zap.L()))

	if err := registerModules(router, modules{
		cfg:    cfg,
		db:     sqlDB,
		gormDB: gormDB,
		rdb:    rdb,
		store:  store,
		logger: zap.L(),
	}); err != nil {
		sqlDB.Close()
		rdb.Close()
		return nil, err
	}

	return func() {
		rdb.Close()
		sqlDB.Close()
	}, nil
}
