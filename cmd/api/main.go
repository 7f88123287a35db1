package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"streamforms/internal/config"
	"streamforms/internal/handlers"
	"streamforms/internal/repositories"
	"streamforms/internal/services"
	"streamforms/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Env)
	defer logger.Log.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Sugar.Fatalf("Failed to initialize database: %v", err)
	}
	logger.Sugar.Info("Database connected and migrated")

	// Repositories
	streamRepo := repositories.NewStreamRepository(db)
	templateRepo := repositories.NewTemplateRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)

	// Services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		logger.Sugar.Fatalf("Failed to create upload directory: %v", err)
	}

	placeholderService := services.NewPlaceholderService()
	fillerService := services.NewFillerService(cfg.Template.Engine)
	logger.Sugar.Infow("Filler initialized", "engine", cfg.Template.Engine)

	templateService := services.NewTemplateService(templateRepo, placeholderService, fillerService)
	documentService := services.NewDocumentService(documentRepo, templateRepo, templateService)

	// Handlers
	streamHandler := handlers.NewStreamHandler(streamRepo)
	templateHandler := handlers.NewTemplateHandler(templateRepo, templateService, storageService, cfg.Storage.MaxFileSize)
	documentHandler := handlers.NewDocumentHandler(documentRepo, documentService)
	viewerHandler := handlers.NewViewerHandler(streamRepo)

	engine := html.New("./views", ".html")

	app := fiber.New(fiber.Config{
		AppName:      "StreamForms API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		Views:        engine,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Get("/streams", streamHandler.HandleList)
	api.Post("/streams", streamHandler.HandleCreate)
	api.Get("/streams/:id", streamHandler.HandleGet)
	api.Put("/streams/:id", streamHandler.HandleUpdate)
	api.Delete("/streams/:id", streamHandler.HandleDelete)

	api.Post("/templates", templateHandler.HandleUpload)
	api.Get("/templates", templateHandler.HandleList)
	api.Get("/templates/:id", templateHandler.HandleGet)
	api.Put("/templates/:id", templateHandler.HandleUpdate)
	api.Delete("/templates/:id", templateHandler.HandleDelete)
	api.Post("/templates/:id/refresh", templateHandler.HandleRefresh)
	api.Post("/templates/:id/render", templateHandler.HandleRender)

	api.Post("/templates/:id/documents", documentHandler.HandleCreate)
	api.Get("/templates/:id/documents", documentHandler.HandleListByTemplate)
	api.Get("/documents/:id", documentHandler.HandleGet)
	api.Delete("/documents/:id", documentHandler.HandleDelete)
	api.Get("/documents/:id/render", documentHandler.HandleRender)

	// Viewer pages
	app.Get("/viewer", viewerHandler.HandleIndex)
	app.Get("/viewer/gate/:id", viewerHandler.HandleGate)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Sugar.Info("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			logger.Sugar.Errorf("Server forced to shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Sugar.Infof("Server starting on %s", addr)

	if err := app.Listen(addr); err != nil {
		logger.Sugar.Fatalf("Failed to start server: %v", err)
	}
}
