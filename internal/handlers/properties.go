// properties.go
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
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/realtydesk/realtydesk/internal/models"
	"github.com/realtydesk/realtydesk/internal/services"
	"github.com/realtydesk/realtydesk/internal/utils"
)

// PropertyHandler handles property listing routes
type PropertyHandler struct {
	DB *gorm.DB
}

// ListProperties handles GET /api/properties
// @Summary List properties
// @Description Get all property listings, newest first
// @Tags Properties
// @Produce json
// @Success 200 {array} models.Property
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /properties [get]
func (h *PropertyHandler) ListProperties(c *fiber.Ctx) error {
	properties, err := services.ListProperties(h.DB)
	if err != nil {
		return serviceError(c, err, "listProperties")
	}
	return utils.SuccessResponse(c, properties, fiber.StatusOK)
}

// SearchProperties handles GET /api/properties/search
// @Summary Search properties
// @Description Filter listings by type, status, location and numeric ranges; all filters combine with AND
// @Tags Properties
// @Produce json
// @Param type query string false "Property type"
// @Param status query string false "Listing status"
// @Param city query string false "City substring, case-insensitive"
// @Param state query string false "State substring, case-insensitive"
// @Param minPrice query number false "Minimum price, inclusive"
// @Param maxPrice query number false "Maximum price, inclusive"
// @Param minBedrooms query integer false "Minimum bedroom count, inclusive"
// @Param minBathrooms query number false "Minimum bathroom count, inclusive"
// @Success 200 {array} models.Property
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /properties/search [get]
func (h *PropertyHandler) SearchProperties(c *fiber.Ctx) error {
	search := services.PropertySearch{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		City:   c.Query("city"),
		State:  c.Query("state"),
	}

	var bad string
	search.MinPrice, bad = queryFloat(c, "minPrice", bad)
	search.MaxPrice, bad = queryFloat(c, "maxPrice", bad)
	search.MinBathrooms, bad = queryFloat(c, "minBathrooms", bad)
	search.MinBedrooms, bad = queryUint(c, "minBedrooms", bad)
	if bad != "" {
		return utils.ErrorResponse(c, "Invalid numeric value for "+bad, fiber.StatusBadRequest, "searchProperties")
	}

	properties, err := services.SearchProperties(h.DB, search)
	if err != nil {
		return serviceError(c, err, "searchProperties")
	}
	return utils.SuccessResponse(c, properties, fiber.StatusOK)
}

// GetProperty handles GET /api/properties/:id
// @Summary Get a property
// @Description Get a single listing by id, counting the view
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} models.Property
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /properties/{id} [get]
func (h *PropertyHandler) GetProperty(c *fiber.Ctx) error {
	property, err := services.GetProperty(h.DB, c.Params("id"), true)
	if err != nil {
		return serviceError(c, err, "getProperty")
	}
	return utils.SuccessResponse(c, property, fiber.StatusOK)
}

// CreateProperty handles POST /api/properties
// @Summary Create a property
// @Description Create a listing owned by the authenticated agent
// @Tags Properties
// @Accept json
// @Produce json
// @Param body body models.Property true "Listing fields"
// @Success 201 {object} models.Property
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /properties [post]
func (h *PropertyHandler) CreateProperty(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "createProperty")
	}

	var property models.Property
	if err := c.BodyParser(&property); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "createProperty")
	}

	if err := services.CreateProperty(h.DB, user, &property); err != nil {
		return serviceError(c, err, "createProperty")
	}
	return utils.SuccessResponse(c, &property, fiber.StatusCreated)
}

// UpdateProperty handles PUT /api/properties/:id
// @Summary Update a property
// @Description Apply allow-listed listing fields; the whole request fails on any unknown field
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param body body map[string]interface{} true "Fields to update"
// @Success 200 {object} models.Property
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /properties/{id} [put]
func (h *PropertyHandler) UpdateProperty(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "updateProperty")
	}

	updates, err := parseUpdates(c)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "updateProperty")
	}

	property, err := services.UpdateProperty(h.DB, user, c.Params("id"), updates)
	if err != nil {
		return serviceError(c, err, "updateProperty")
	}
	return utils.SuccessResponse(c, property, fiber.StatusOK)
}

// DeleteProperty handles DELETE /api/properties/:id
// @Summary Delete a property
// @Description Remove a listing owned by the authenticated agent
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /properties/{id} [delete]
func (h *PropertyHandler) DeleteProperty(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "deleteProperty")
	}

	if err := services.DeleteProperty(h.DB, user, c.Params("id")); err != nil {
		return serviceError(c, err, "deleteProperty")
	}
	return utils.MessageResponse(c, "Property removed", fiber.StatusOK)
}

// ListAgentProperties handles GET /api/properties/agent/properties
// @Summary List own listings
// @Description Get the listings owned by the authenticated agent
// @Tags Properties
// @Produce json
// @Success 200 {array} models.Property
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /properties/agent/properties [get]
func (h *PropertyHandler) ListAgentProperties(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "agentProperties")
	}

	properties, err := services.ListAgentProperties(h.DB, user.ID)
	if err != nil {
		return serviceError(c, err, "agentProperties")
	}
	return utils.SuccessResponse(c, properties, fiber.StatusOK)
}

// FavoriteProperty handles POST /api/properties/:id/favorite
// @Summary Favorite a property
// @Description Increment the favorite counter on a listing
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} models.Property
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /properties/{id}/favorite [post]
func (h *PropertyHandler) FavoriteProperty(c *fiber.Ctx) error {
	property, err := services.FavoriteProperty(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err, "favoriteProperty")
	}
	return utils.SuccessResponse(c, property, fiber.StatusOK)
}

// queryFloat parses an optional float query parameter, passing through the
// name of the first parameter that failed to parse.
func queryFloat(c *fiber.Ctx, name, bad string) (*float64, string) {
	raw := c.Query(name)
	if raw == "" {
		return nil, bad
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if bad == "" {
			bad = name
		}
		return nil, bad
	}
	return &v, bad
}

// queryUint parses an optional unsigned integer query parameter.
func queryUint(c *fiber.Ctx, name, bad string) (*uint64, string) {
	raw := c.Query(name)
	if raw == "" {
		return nil, bad
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		if bad == "" {
			bad = name
		}
		return nil, bad
	}
	return &v, bad
}
