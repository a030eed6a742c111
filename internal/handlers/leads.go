// leads.go
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

// LeadHandler handles sales lead routes
type LeadHandler struct {
	DB *gorm.DB
}

type convertResponse struct {
	Lead   *models.Lead   `json:"lead"`
	Client *models.Client `json:"client"`
}

// ListLeads handles GET /api/leads
// @Summary List leads
// @Description Get all sales leads, newest first
// @Tags Leads
// @Produce json
// @Success 200 {array} models.Lead
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /leads [get]
func (h *LeadHandler) ListLeads(c *fiber.Ctx) error {
	leads, err := services.ListLeads(h.DB)
	if err != nil {
		return serviceError(c, err, "listLeads")
	}
	return utils.SuccessResponse(c, leads, fiber.StatusOK)
}

// SearchLeads handles GET /api/leads/search
// @Summary Search leads
// @Description Filter leads by name or email substring and exact source, status or type
// @Tags Leads
// @Produce json
// @Param name query string false "Name substring, case-insensitive"
// @Param email query string false "Email substring, case-insensitive"
// @Param source query string false "Lead source"
// @Param status query string false "Lead status"
// @Param type query string false "Contact type"
// @Success 200 {array} models.Lead
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /leads/search [get]
func (h *LeadHandler) SearchLeads(c *fiber.Ctx) error {
	search := services.LeadSearch{
		Name:   c.Query("name"),
		Email:  c.Query("email"),
		Source: c.Query("source"),
		Status: c.Query("status"),
		Type:   c.Query("type"),
	}

	leads, err := services.SearchLeads(h.DB, search)
	if err != nil {
		return serviceError(c, err, "searchLeads")
	}
	return utils.SuccessResponse(c, leads, fiber.StatusOK)
}

// ListAgentLeads handles GET /api/leads/agent
// @Summary List own leads
// @Description Get the leads assigned to the authenticated agent
// @Tags Leads
// @Produce json
// @Success 200 {array} models.Lead
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /leads/agent [get]
func (h *LeadHandler) ListAgentLeads(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "agentLeads")
	}

	leads, err := services.ListAgentLeads(h.DB, user.ID)
	if err != nil {
		return serviceError(c, err, "agentLeads")
	}
	return utils.SuccessResponse(c, leads, fiber.StatusOK)
}

// GetLead handles GET /api/leads/:id
// @Summary Get a lead
// @Description Get a single sales lead by id
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} models.Lead
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /leads/{id} [get]
func (h *LeadHandler) GetLead(c *fiber.Ctx) error {
	lead, err := services.GetLead(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "getLead")
	}
	return utils.SuccessResponse(c, lead, fiber.StatusOK)
}

// CreateLead handles POST /api/leads
// @Summary Create a lead
// @Description Create a sales lead assigned to the authenticated agent
// @Tags Leads
// @Accept json
// @Produce json
// @Param body body models.Lead true "Lead fields"
// @Success 201 {object} models.Lead
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /leads [post]
func (h *LeadHandler) CreateLead(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "createLead")
	}

	var lead models.Lead
	if err := c.BodyParser(&lead); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "createLead")
	}

	if err := services.CreateLead(h.DB, user, &lead); err != nil {
		return serviceError(c, err, "createLead")
	}
	return utils.SuccessResponse(c, &lead, fiber.StatusCreated)
}

// UpdateLead handles PUT /api/leads/:id
// @Summary Update a lead
// @Description Apply allow-listed lead fields; the whole request fails on any unknown field
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param body body map[string]interface{} true "Fields to update"
// @Success 200 {object} models.Lead
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /leads/{id} [put]
func (h *LeadHandler) UpdateLead(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "updateLead")
	}

	updates, err := parseUpdates(c)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "updateLead")
	}

	lead, err := services.UpdateLead(h.DB, user, c.Params("id"), updates)
	if err != nil {
		return serviceError(c, err, "updateLead")
	}
	return utils.SuccessResponse(c, lead, fiber.StatusOK)
}

// DeleteLead handles DELETE /api/leads/:id
// @Summary Delete a lead
// @Description Remove a sales lead assigned to the authenticated agent
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /leads/{id} [delete]
func (h *LeadHandler) DeleteLead(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "deleteLead")
	}

	if err := services.DeleteLead(h.DB, user, c.Params("id")); err != nil {
		return serviceError(c, err, "deleteLead")
	}
	return utils.MessageResponse(c, "Lead removed", fiber.StatusOK)
}

// AddLeadNote handles POST /api/leads/:id/notes
// @Summary Add a lead note
// @Description Append a timestamped note authored by the authenticated agent
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param body body noteRequest true "Note content"
// @Success 200 {object} models.Lead
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /leads/{id}/notes [post]
func (h *LeadHandler) AddLeadNote(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "addLeadNote")
	}

	var req noteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "addLeadNote")
	}

	lead, err := services.AddLeadNote(h.DB, user, c.Params("id"), req.Content)
	if err != nil {
		return serviceError(c, err, "addLeadNote")
	}
	return utils.SuccessResponse(c, lead, fiber.StatusOK)
}

// ConvertLead handles POST /api/leads/:id/convert
// @Summary Convert a lead
// @Description Create a client record from the lead, then mark the lead converted
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} convertResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /leads/{id}/convert [post]
func (h *LeadHandler) ConvertLead(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "convertLead")
	}

	lead, client, err := services.ConvertLead(h.DB, user, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "convertLead")
	}
	return utils.SuccessResponse(c, convertResponse{Lead: lead, Client: client}, fiber.StatusOK)
}
