package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"

	"github.com/realtydesk/realtydesk/internal/config"
	"github.com/realtydesk/realtydesk/internal/database"
	"github.com/realtydesk/realtydesk/internal/handlers"
	"github.com/realtydesk/realtydesk/internal/middleware"
	"github.com/realtydesk/realtydesk/internal/token"
	"github.com/realtydesk/realtydesk/internal/types"
	"github.com/realtydesk/realtydesk/web"

	_ "github.com/realtydesk/realtydesk/docs/api" // Swagger docs
)

// @title RealtyDesk API
// @version 1.0.0
// @description CRM service for real-estate agents: property listings, clients, and sales leads
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/realtydesk/realtydesk
// @contact.email info@realtydesk.dev

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	tokens := token.NewService(cfg.JWTSecret, time.Duration(cfg.JWTExpiryDays)*24*time.Hour)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("realtydesk")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	authHandler := &handlers.AuthHandler{DB: db, Tokens: tokens}
	propertyHandler := &handlers.PropertyHandler{DB: db}
	clientHandler := &handlers.ClientHandler{DB: db}
	leadHandler := &handlers.LeadHandler{DB: db}

	bearer := middleware.Auth(db, tokens)
	agent := middleware.Agent()

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", bearer, authHandler.Me)
	auth.Put("/profile", bearer, authHandler.UpdateProfile)
	auth.Post("/change-password", bearer, authHandler.ChangePassword)
	auth.Post("/logout", bearer, authHandler.Logout)

	// Property routes (public reads, agent writes).
	// Fixed paths register before /:id so the param route cannot shadow them.
	properties := api.Group("/properties")
	properties.Get("/", propertyHandler.ListProperties)
	properties.Get("/search", propertyHandler.SearchProperties)
	properties.Get("/agent/properties", bearer, agent, propertyHandler.ListAgentProperties)
	properties.Get("/:id", propertyHandler.GetProperty)
	properties.Post("/", bearer, agent, propertyHandler.CreateProperty)
	properties.Put("/:id", bearer, agent, propertyHandler.UpdateProperty)
	properties.Delete("/:id", bearer, agent, propertyHandler.DeleteProperty)
	properties.Post("/:id/favorite", bearer, propertyHandler.FavoriteProperty)

	// Client routes (all behind bearer auth, writes behind agent role)
	clients := api.Group("/clients", bearer)
	clients.Get("/", clientHandler.ListClients)
	clients.Get("/search", clientHandler.SearchClients)
	clients.Get("/agent", agent, clientHandler.ListAgentClients)
	clients.Get("/:id", clientHandler.GetClient)
	clients.Post("/", agent, clientHandler.CreateClient)
	clients.Put("/:id", agent, clientHandler.UpdateClient)
	clients.Delete("/:id", agent, clientHandler.DeleteClient)
	clients.Post("/:id/notes", agent, clientHandler.AddClientNote)
	clients.Post("/:id/documents", agent, clientHandler.AddClientDocument)

	// Lead routes (all behind bearer auth, writes behind agent role)
	leads := api.Group("/leads", bearer)
	leads.Get("/", leadHandler.ListLeads)
	leads.Get("/search", leadHandler.SearchLeads)
	leads.Get("/agent", agent, leadHandler.ListAgentLeads)
	leads.Get("/:id", leadHandler.GetLead)
	leads.Post("/", agent, leadHandler.CreateLead)
	leads.Put("/:id", agent, leadHandler.UpdateLead)
	leads.Delete("/:id", agent, leadHandler.DeleteLead)
	leads.Post("/:id/notes", agent, leadHandler.AddLeadNote)
	leads.Post("/:id/convert", agent, leadHandler.ConvertLead)

	// Embedded front-end
	app.Use("/", filesystem.New(filesystem.Config{
		Root:       http.FS(web.Public),
		PathPrefix: "public",
		Index:      "index.html",
	}))

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var custom *types.CustomError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &custom):
		code = custom.Code
		message = custom.Message
		errorType = custom.Type
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
