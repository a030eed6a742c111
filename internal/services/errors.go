package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/realtydesk/realtydesk/internal/models"
)

// Sentinel failures mapped by the handlers onto the HTTP error taxonomy.
var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("not authorized")
	ErrInvalidUpdate  = errors.New("invalid updates")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicate      = errors.New("already exists")
	ErrBadCredentials = errors.New("invalid credentials")
)

// violationError folds entity validation failures into an ErrInvalidInput.
func violationError(violations []models.Violation) error {
	if len(violations) == 0 {
		return nil
	}
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.String()
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

// authorizeOwner enforces the ownership-or-admin rule. It is always called
// after the resource has been loaded, so a missing resource surfaces as
// ErrNotFound before any ownership decision.
func authorizeOwner(requester *models.User, ownerID string) error {
	if requester.IsAdmin() || requester.ID == ownerID {
		return nil
	}
	return ErrForbidden
}
