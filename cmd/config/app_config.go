package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"Tray-Validation-Backend/internal/api/handlers"
	"Tray-Validation-Backend/internal/api/routes"
	"Tray-Validation-Backend/internal/middleware"
	"Tray-Validation-Backend/internal/utils"
	"Tray-Validation-Backend/internal/utils/storage"
	"Tray-Validation-Backend/pkg/annotation"
	"Tray-Validation-Backend/pkg/item"
	"Tray-Validation-Backend/pkg/jwt"
	"Tray-Validation-Backend/pkg/recognition"
	"Tray-Validation-Backend/pkg/user"
	"Tray-Validation-Backend/pkg/worklog"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	recognitionRepository := recognition.NewRecognitionRepository(db)
	workLogRepository := worklog.NewWorkLogRepository(db)
	itemRepository := item.NewItemRepository(db)
	annotationRepository := annotation.NewAnnotationRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	recognitionService := recognition.NewRecognitionService(recognitionRepository, s3)
	workLogService := worklog.NewWorkLogService(workLogRepository, userRepository)
	itemService := item.NewItemService(itemRepository, workLogRepository)
	annotationService := annotation.NewAnnotationService(annotationRepository, itemRepository, workLogRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	recognitionHandler := handlers.NewRecognitionHandler(recognitionService, validator)
	workLogHandler := handlers.NewWorkLogHandler(workLogService, validator)
	itemHandler := handlers.NewItemHandler(itemService, validator)
	annotationHandler := handlers.NewAnnotationHandler(annotationService, validator)

	// stale work log expiry: the unload beacon is best effort, so the
	// server sweeps in-progress logs on an interval
	staleMinutes, err := strconv.Atoi(utils.GetConfig("STALE_WORKLOG_MINUTES"))
	if err != nil || staleMinutes <= 0 {
		staleMinutes = 120
	}
	go expireStaleWorkLogs(workLogService, time.Duration(staleMinutes)*time.Minute)

	// routes
	routesConfig := routes.Config{
		App:                app,
		UserHandler:        userHandler,
		RecognitionHandler: recognitionHandler,
		WorkLogHandler:     workLogHandler,
		ItemHandler:        itemHandler,
		AnnotationHandler:  annotationHandler,
		Middleware:         middlewares,
		JWTService:         jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

func expireStaleWorkLogs(workLogService worklog.WorkLogService, staleAfter time.Duration) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if _, err := workLogService.ExpireStaleWorkLogs(context.Background(), staleAfter); err != nil {
			log.Errorf("expiring stale work logs: %v", err)
		}
	}
}
