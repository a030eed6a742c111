package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/realtydesk/realtydesk/internal/models"
	"github.com/realtydesk/realtydesk/internal/password"
)

// profileUpdatable is the allow-list for PUT /api/auth/profile.
var profileUpdatable = []string{"name", "email", "phone", "company", "profileImage"}

// RegisterUser creates a new account with a hashed password.
func RegisterUser(db *gorm.DB, name, email, plainPassword, role string) (*models.User, error) {
	if plainPassword == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	user := models.User{Name: name, Email: email, Role: role}
	user.Normalize()
	if err := violationError(user.Validate()); err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: user with email %s", ErrDuplicate, user.Email)
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user with email %s", ErrDuplicate, user.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// LoginUser verifies credentials and stamps the last-login time.
func LoginUser(db *gorm.DB, email, plainPassword string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := password.Verify(plainPassword, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrBadCredentials
	}

	user.TouchLogin(time.Now())
	if err := db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}

	return &user, nil
}

// UpdateProfile applies an allow-listed self-update to the authenticated user.
func UpdateProfile(db *gorm.DB, user *models.User, updates map[string]json.RawMessage) error {
	if err := applyUpdates(user, updates, profileUpdatable); err != nil {
		return err
	}

	user.Normalize()
	if err := violationError(user.Validate()); err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("email = ? AND id <> ?", user.Email, user.ID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: user with email %s", ErrDuplicate, user.Email)
	}

	if err := db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// ChangePassword verifies the current password and replaces it.
func ChangePassword(db *gorm.DB, user *models.User, current, next string) error {
	ok, err := password.Verify(current, user.PasswordHash)
	if err != nil || !ok {
		return ErrBadCredentials
	}
	if next == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidInput)
	}

	hash, err := password.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// GetActiveUser loads a user by id, requiring the account to be active.
func GetActiveUser(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.Where("id = ? AND is_active = ?", id, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}
