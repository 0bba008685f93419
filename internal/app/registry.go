package app

import (
	"go-employee/internal/config"
	"go-employee/internal/employee"
	"go-employee/internal/photo"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func registerModules(
	router *gin.Engine,
	employeeRepo employee.Repository,
	upload config.UploadConfig,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Storage ---
	photos, err := photo.NewDiskStorage(upload.ImagesDir(), logger)
	if err != nil {
		return err
	}

	// --- Validation ---
	if err := employee.RegisterValidations(); err != nil {
		return err
	}

	// --- Services ---
	employeeService := employee.NewService(employeeRepo, photos, logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, logger)

	// --- Routes Registration ---
	router.Static(employee.ImagesURLPrefix, photos.Dir())
	employee.RegisterRoutes(router, employeeHandler, rdb, logger)

	return nil
}
