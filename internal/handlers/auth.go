// auth.go
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
	"github.com/realtydesk/realtydesk/internal/token"
	"github.com/realtydesk/realtydesk/internal/utils"
)

// AuthHandler handles registration, login and profile routes
type AuthHandler struct {
	DB     *gorm.DB
	Tokens *token.Service
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /api/auth/register
// @Summary Register a new user
// @Description Create a user account and return a bearer token for it
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "Registration fields"
// @Success 201 {object} tokenResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "register")
	}

	user, err := services.RegisterUser(h.DB, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return serviceError(c, err, "register")
	}

	signed, err := h.Tokens.Issue(user.ID)
	if err != nil {
		return utils.ServerErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, tokenResponse{Token: signed, User: user}, fiber.StatusCreated)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Verify credentials and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "login")
	}

	user, err := services.LoginUser(h.DB, req.Email, req.Password)
	if err != nil {
		return serviceError(c, err, "login")
	}

	signed, err := h.Tokens.Issue(user.ID)
	if err != nil {
		return utils.ServerErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, tokenResponse{Token: signed, User: user}, fiber.StatusOK)
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Description Return the profile of the authenticated user
// @Tags Auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "me")
	}
	return utils.SuccessResponse(c, user, fiber.StatusOK)
}

// UpdateProfile handles PUT /api/auth/profile
// @Summary Update profile
// @Description Apply allow-listed profile fields, rejecting the whole request on any unknown field
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body map[string]interface{} true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "profile")
	}

	updates, err := parseUpdates(c)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "profile")
	}

	if err := services.UpdateProfile(h.DB, user, updates); err != nil {
		return serviceError(c, err, "profile")
	}

	return utils.SuccessResponse(c, user, fiber.StatusOK)
}

// ChangePassword handles POST /api/auth/change-password
// @Summary Change password
// @Description Verify the current password and replace it with a new one
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body changePasswordRequest true "Current and new password"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, "No authentication token, access denied", fiber.StatusUnauthorized, "changePassword")
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "changePassword")
	}

	if err := services.ChangePassword(h.DB, user, req.CurrentPassword, req.NewPassword); err != nil {
		return serviceError(c, err, "changePassword")
	}

	return utils.MessageResponse(c, "Password updated", fiber.StatusOK)
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Acknowledge logout; bearer tokens are stateless so the client discards its copy
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.MessageResponseStruct
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return utils.MessageResponse(c, "Logged out", fiber.StatusOK)
}
