package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/backend/internal/config"
	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/core/services"
	"github.com/taskhive/backend/internal/infrastructure/db"
	"github.com/taskhive/backend/internal/infrastructure/logger"
	"github.com/taskhive/backend/internal/transport/http/handlers"
	httpmw "github.com/taskhive/backend/internal/transport/http/middleware"
	"gorm.io/gorm"
)

type RouterConfig struct {
	DB       *gorm.DB
	Logger   *logger.Logger
	Config   *config.Config
	Notifier ports.Notifier
}

// SetupRoutes wires repositories, services and handlers, and returns the
// task repository so the caller can hand it to the reminder sweep.
func SetupRoutes(app *fiber.App, cfg RouterConfig) ports.TaskRepository {
	// Initialize repositories
	taskRepo := db.NewTaskRepository(cfg.DB, cfg.Logger)
	historyRepo := db.NewHistoryRepository(cfg.DB, cfg.Logger)
	commentRepo := db.NewCommentRepository(cfg.DB, cfg.Logger)
	userRepo := db.NewUserRepository(cfg.DB, cfg.Logger)

	// Initialize services
	historyService := services.NewHistoryService(services.HistoryServiceConfig{
		Repository: historyRepo,
		TaskRepo:   taskRepo,
		Logger:     cfg.Logger,
	})
	lifecycleService := services.NewLifecycleService(services.LifecycleServiceConfig{
		Repository: taskRepo,
		History:    historyService,
		Notifier:   cfg.Notifier,
		Logger:     cfg.Logger,
	})
	bulkService := services.NewBulkImportService(services.BulkImportServiceConfig{
		Lifecycle: lifecycleService,
		Logger:    cfg.Logger,
	})
	commentService := services.NewCommentService(services.CommentServiceConfig{
		Repository: commentRepo,
		TaskRepo:   taskRepo,
		History:    historyService,
		Logger:     cfg.Logger,
	})
	authService := services.NewAuthService(services.AuthServiceConfig{
		Repository: userRepo,
		Logger:     cfg.Logger,
		JWTSecret:  cfg.Config.Auth.JWTSecret,
		TokenTTL:   cfg.Config.Auth.TokenTTL,
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(lifecycleService, historyService, cfg.Logger)
	historyHandler := handlers.NewHistoryHandler(historyService)
	commentHandler := handlers.NewCommentHandler(commentService)
	bulkHandler := handlers.NewBulkHandler(bulkService)
	eventsHandler := handlers.NewEventsHandler(historyService, cfg.Logger)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	authed := api.Group("", httpmw.RequireAuth(authService))

	authed.Get("/activity", historyHandler.Recent)

	tasks := authed.Group("/tasks")
	tasks.Get("/", taskHandler.List)
	tasks.Post("/", taskHandler.Create)
	tasks.Post("/bulk-status", taskHandler.BulkStatus)
	tasks.Get("/:id", taskHandler.Get)
	tasks.Patch("/:id", taskHandler.Update)
	tasks.Delete("/:id", taskHandler.Delete)
	tasks.Post("/:id/complete", taskHandler.MarkCompleted)
	tasks.Post("/:id/pending", taskHandler.MarkPending)
	tasks.Post("/:id/approve", taskHandler.AdminApprove)
	tasks.Post("/:id/reject", taskHandler.AdminReject)
	tasks.Post("/:id/permanent-approval", taskHandler.PermanentApprove)
	tasks.Delete("/:id/permanent-approval", taskHandler.RemovePermanentApproval)
	tasks.Post("/:id/reassign", taskHandler.Reassign)
	tasks.Get("/:id/history", historyHandler.GetForTask)
	tasks.Get("/:id/comments", commentHandler.List)
	tasks.Post("/:id/comments", commentHandler.Add)
	tasks.Delete("/:id/comments/:commentId", commentHandler.Delete)

	bulk := authed.Group("/bulk-import/sessions")
	bulk.Post("/", bulkHandler.CreateSession)
	bulk.Get("/:id/drafts", bulkHandler.ListDrafts)
	bulk.Post("/:id/titles", bulkHandler.AddTitles)
	bulk.Post("/:id/apply-all", bulkHandler.ApplyAll)
	bulk.Patch("/:id/drafts/:rowNumber", bulkHandler.UpdateDraft)
	bulk.Delete("/:id/drafts/:rowNumber", bulkHandler.RemoveDraft)
	bulk.Post("/:id/submit", bulkHandler.Submit)

	events := authed.Group("/events")
	events.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	events.Get("/ws", websocket.New(eventsHandler.Handle))

	return taskRepo
}
