package routes

import (
	"github.com/gofiber/fiber/v2"

	"Tray-Validation-Backend/internal/api/handlers"
	"Tray-Validation-Backend/internal/middleware"
	"Tray-Validation-Backend/pkg/jwt"
)

type Config struct {
	App                *fiber.App
	UserHandler        handlers.UserHandler
	RecognitionHandler handlers.RecognitionHandler
	WorkLogHandler     handlers.WorkLogHandler
	ItemHandler        handlers.ItemHandler
	AnnotationHandler  handlers.AnnotationHandler
	Middleware         middleware.Middleware
	JWTService         jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Recognitions()
	c.WorkLogs()
	c.WorkItems()
	c.WorkAnnotations()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Recognitions() {
	recognitions := c.App.Group("/api/v1/recognitions", c.Middleware.AuthMiddleware(c.JWTService))

	recognitions.Get("/next-task", c.RecognitionHandler.GetNextTask)
	recognitions.Get("", c.RecognitionHandler.GetRecognitions)
	recognitions.Get("/:id", c.RecognitionHandler.GetRecognitionDetail)
	recognitions.Post("/capture", c.RecognitionHandler.UploadCapture)
}

func (c *Config) WorkLogs() {
	// The abandon beacon carries no auth: the browser fires it on
	// unload and cannot attach headers.
	c.App.Post("/api/v1/work-logs/abandon-beacon", c.WorkLogHandler.AbandonBeacon)

	workLogs := c.App.Group("/api/v1/work-logs", c.Middleware.AuthMiddleware(c.JWTService))

	workLogs.Post("", c.WorkLogHandler.StartValidation)
	workLogs.Post("/:id/complete", c.WorkLogHandler.CompleteWorkLog)
	workLogs.Post("/:id/abandon", c.WorkLogHandler.AbandonWorkLog)
	workLogs.Post("/:id/reset", c.WorkLogHandler.ResetWorkLog)
	workLogs.Post("/:id/finish-step", c.WorkLogHandler.FinishStep)
}

func (c *Config) WorkItems() {
	items := c.App.Group("/api/v1/work-items", c.Middleware.AuthMiddleware(c.JWTService))

	items.Post("", c.ItemHandler.CreateWorkItem)
	items.Get("", c.ItemHandler.GetWorkItems)
	items.Patch("/:id", c.ItemHandler.UpdateWorkItem)
	items.Delete("/:id", c.ItemHandler.DeleteWorkItem)
}

func (c *Config) WorkAnnotations() {
	annotations := c.App.Group("/api/v1/work-annotations", c.Middleware.AuthMiddleware(c.JWTService))

	annotations.Post("", c.AnnotationHandler.CreateAnnotation)
	annotations.Get("", c.AnnotationHandler.GetAnnotations)
	annotations.Patch("/:id", c.AnnotationHandler.UpdateAnnotation)
	annotations.Delete("/:id", c.AnnotationHandler.DeleteAnnotation)
}
