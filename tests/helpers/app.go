// app.go
//
// A CRM service for real-estate agents: property listings, clients, and sales leads
// Copyright (c) 2026 RealtyDesk <info@realtydesk.dev> (https://www.realtydesk.dev), RealtyDesk LLC
//
// This file is part of realtydesk.
// realtydesk is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// realtydesk is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with realtydesk.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 RealtyDesk <info@realtydesk.dev> (https://www.realtydesk.dev), RealtyDesk LLC"
//    in this material, copies, or source code of derived works.

package helpers

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/realtydesk/realtydesk/internal/database"
	"github.com/realtydesk/realtydesk/internal/handlers"
	"github.com/realtydesk/realtydesk/internal/middleware"
	"github.com/realtydesk/realtydesk/internal/token"
	"github.com/realtydesk/realtydesk/internal/types"
)

// SetupTestDB creates an in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// NewTestApp builds a Fiber app with the full API route table against an
// in-memory database, mirroring the server wiring.
func NewTestApp(t *testing.T) (*fiber.App, *gorm.DB, *token.Service) {
	t.Helper()
	db := SetupTestDB(t)
	tokens := token.NewService("unit-test-secret", 30*24*time.Hour)

	app := fiber.New(fiber.Config{
		ErrorHandler: testErrorHandler,
	})

	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	authHandler := &handlers.AuthHandler{DB: db, Tokens: tokens}
	propertyHandler := &handlers.PropertyHandler{DB: db}
	clientHandler := &handlers.ClientHandler{DB: db}
	leadHandler := &handlers.LeadHandler{DB: db}

	bearer := middleware.Auth(db, tokens)
	agent := middleware.Agent()

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", bearer, authHandler.Me)
	auth.Put("/profile", bearer, authHandler.UpdateProfile)
	auth.Post("/change-password", bearer, authHandler.ChangePassword)
	auth.Post("/logout", bearer, authHandler.Logout)

	properties := api.Group("/properties")
	properties.Get("/", propertyHandler.ListProperties)
	properties.Get("/search", propertyHandler.SearchProperties)
	properties.Get("/agent/properties", bearer, agent, propertyHandler.ListAgentProperties)
	properties.Get("/:id", propertyHandler.GetProperty)
	properties.Post("/", bearer, agent, propertyHandler.CreateProperty)
	properties.Put("/:id", bearer, agent, propertyHandler.UpdateProperty)
	properties.Delete("/:id", bearer, agent, propertyHandler.DeleteProperty)
	properties.Post("/:id/favorite", bearer, propertyHandler.FavoriteProperty)

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

	return app, db, tokens
}

// testErrorHandler mirrors the server's central error handler
func testErrorHandler(c *fiber.Ctx, err error) error {
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
