// clients.go
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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/realtydesk/realtydesk/internal/models"
	"github.com/realtydesk/realtydesk/internal/services"
	"github.com/realtydesk/realtydesk/internal/utils"
)

// ClientHandler handles client record routes
type ClientHandler struct {
	DB *gorm.DB
}

type noteRequest struct {
	Content string `json:"content"`
}

type documentRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// ListClients handles GET /api/clients
// @Summary List clients
// @Description Get all client records, newest first
// @Tags Clients
// @Produce json
// @Success 200 {array} models.Client
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /clients [get]
func (h *ClientHandler) ListClients(c *fiber.Ctx) error {
	clients, err := services.ListClients(h.DB)
	if err != nil {
		return serviceError(c, err, "listClients")
	}
	return utils.SuccessResponse(c, clients, fiber.StatusOK)
}

// SearchClients handles GET /api/clients/search
// @Summary Search clients
// @Description Filter clients by name or email substring and exact type or status
// @Tags Clients
// @Produce json
// @Param name query string false "Name substring, case-insensitive"
// @Param email query string false "Email substring, case-insensitive"
// @Param type query string false "Contact type"
// @Param status query string false "Client status"
// @Success 200 {array} models.Client
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /clients/search [get]
func (h *ClientHandler) SearchClients(c *fiber.Ctx) error {
	search := services.ClientSearch{
		Name:   c.Query("name"),
		Email:  c.Query("email"),
		Type:   c.Query("type"),
		Status: c.Query("status"),
	}

	clients, err := services.SearchClients(h.DB, search)
	if err != nil {
		return serviceError(c, err, "searchClients")
	}
	return utils.SuccessResponse(c, clients, fiber.StatusOK)
}

// ListAgentClients handles GET /api/clients/agent
// @Summary List own clients
// @Description Get the clients assigned to the authenticated agent
// @Tags Clients
// @Produce json
// @Success 200 {array} models.Client
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /clients/agent [get]
func (h *ClientHandler) ListAgentClients(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "agentClients")
	}

	clients, err := services.ListAgentClients(h.DB, user.ID)
	if err != nil {
		return serviceError(c, err, "agentClients")
	}
	return utils.SuccessResponse(c, clients, fiber.StatusOK)
}

// GetClient handles GET /api/clients/:id
// @Summary Get a client
// @Description Get a single client record by id
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} models.Client
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /clients/{id} [get]
func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	client, err := services.GetClient(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "getClient")
	}
	return utils.SuccessResponse(c, client, fiber.StatusOK)
}

// CreateClient handles POST /api/clients
// @Summary Create a client
// @Description Create a client record assigned to the authenticated agent
// @Tags Clients
// @Accept json
// @Produce json
// @Param body body models.Client true "Client fields"
// @Success 201 {object} models.Client
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /clients [post]
func (h *ClientHandler) CreateClient(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "createClient")
	}

	var client models.Client
	if err := c.BodyParser(&client); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "createClient")
	}

	if err := services.CreateClient(h.DB, user, &client); err != nil {
		return serviceError(c, err, "createClient")
	}
	return utils.SuccessResponse(c, &client, fiber.StatusCreated)
}

// UpdateClient handles PUT /api/clients/:id
// @Summary Update a client
// @Description Apply allow-listed client fields; the whole request fails on any unknown field
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param body body map[string]interface{} true "Fields to update"
// @Success 200 {object} models.Client
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "updateClient")
	}

	updates, err := parseUpdates(c)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "updateClient")
	}

	client, err := services.UpdateClient(h.DB, user, c.Params("id"), updates)
	if err != nil {
		return serviceError(c, err, "updateClient")
	}
	return utils.SuccessResponse(c, client, fiber.StatusOK)
}

// DeleteClient handles DELETE /api/clients/:id
// @Summary Delete a client
// @Description Remove a client record assigned to the authenticated agent
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "deleteClient")
	}

	if err := services.DeleteClient(h.DB, user, c.Params("id")); err != nil {
		return serviceError(c, err, "deleteClient")
	}
	return utils.MessageResponse(c, "Client removed", fiber.StatusOK)
}

// AddClientNote handles POST /api/clients/:id/notes
// @Summary Add a client note
// @Description Append a timestamped note authored by the authenticated agent
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param body body noteRequest true "Note content"
// @Success 200 {object} models.Client
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /clients/{id}/notes [post]
func (h *ClientHandler) AddClientNote(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "addClientNote")
	}

	var req noteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "addClientNote")
	}

	client, err := services.AddClientNote(h.DB, user, c.Params("id"), req.Content)
	if err != nil {
		return serviceError(c, err, "addClientNote")
	}
	return utils.SuccessResponse(c, client, fiber.StatusOK)
}

// AddClientDocument handles POST /api/clients/:id/documents
// @Summary Add a client document
// @Description Append a document reference to the client record
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param body body documentRequest true "Document reference"
// @Success 200 {object} models.Client
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /clients/{id}/documents [post]
func (h *ClientHandler) AddClientDocument(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "addClientDocument")
	}

	var req documentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "addClientDocument")
	}

	client, err := services.AddClientDocument(h.DB, user, c.Params("id"), req.Name, req.URL, req.Type)
	if err != nil {
		return serviceError(c, err, "addClientDocument")
	}
	return utils.SuccessResponse(c, client, fiber.StatusOK)
}
