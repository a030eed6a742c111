// common.go
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
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/realtydesk/realtydesk/internal/models"
	"github.com/realtydesk/realtydesk/internal/services"
	"github.com/realtydesk/realtydesk/internal/utils"
)

// currentUser returns the authenticated user placed in context by the
// auth middleware.
func currentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return nil, errors.New("no authenticated user in context")
	}
	return user, nil
}

// parseUpdates decodes an update request body into a field map, keeping
// values as raw JSON so they apply to the entity exactly as sent.
func parseUpdates(c *fiber.Ctx) (map[string]json.RawMessage, error) {
	updates := make(map[string]json.RawMessage)
	if err := json.Unmarshal(c.Body(), &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// serviceError maps service failures onto the HTTP error taxonomy.
// Unrecognized errors become 500s carrying the underlying message.
func serviceError(c *fiber.Ctx, err error, errorType string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, "Resource not found")
	case errors.Is(err, services.ErrForbidden):
		return utils.ErrorResponse(c, "Access denied: you do not own this resource", fiber.StatusForbidden, errorType)
	case errors.Is(err, services.ErrInvalidUpdate),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrDuplicate):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, errorType)
	case errors.Is(err, services.ErrBadCredentials):
		return utils.ErrorResponse(c, "Invalid credentials", fiber.StatusUnauthorized, errorType)
	default:
		return utils.ServerErrorResponse(c, err)
	}
}
