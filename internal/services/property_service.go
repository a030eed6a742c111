package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"

	"github.com/realtydesk/realtydesk/internal/models"
)

// propertyUpdatable is the allow-list for PUT /api/properties/:id.
var propertyUpdatable = []string{
	"title", "description", "type", "status", "price",
	"address", "features", "amenities", "images", "owner",
}

// PropertySearch holds the optional, independently combinable listing
// filters. Nil numeric bounds mean unfiltered.
type PropertySearch struct {
	Type         string
	Status       string
	City         string
	State        string
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *uint64
	MinBathrooms *float64
}

// ListProperties returns all listings, newest first.
func ListProperties(db *gorm.DB) ([]models.Property, error) {
	var properties []models.Property
	err := db.Preload("Agent").Order("created_at DESC").Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

// GetProperty loads a listing by id. When countView is set the view
// counter is bumped and persisted, so public reads tally exposure.
func GetProperty(db *gorm.DB, id string, countView bool) (*models.Property, error) {
	var property models.Property
	err := db.Preload("Agent").Where("id = ?", id).First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load property: %w", err)
	}

	if countView {
		property.IncrementViews()
		if err := db.Model(&property).UpdateColumn("views", property.Views).Error; err != nil {
			return nil, fmt.Errorf("failed to record view: %w", err)
		}
	}

	return &property, nil
}

// CreateProperty persists a new listing owned by the requesting agent.
func CreateProperty(db *gorm.DB, requester *models.User, property *models.Property) error {
	property.AgentID = requester.ID
	property.Normalize()
	if err := violationError(property.Validate()); err != nil {
		return err
	}

	if err := db.Omit(clause.Associations).Create(property).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// UpdateProperty applies an allow-listed update after the ownership check
// and stamps lastUpdated.
func UpdateProperty(db *gorm.DB, requester *models.User, id string, updates map[string]json.RawMessage) (*models.Property, error) {
	property, err := GetProperty(db, id, false)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(requester, property.AgentID); err != nil {
		return nil, err
	}

	if err := applyUpdates(property, updates, propertyUpdatable); err != nil {
		return nil, err
	}
	property.LastUpdated = time.Now()
	property.Normalize()
	if err := violationError(property.Validate()); err != nil {
		return nil, err
	}

	if err := db.Omit(clause.Associations).Save(property).Error; err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	return property, nil
}

// DeleteProperty removes a listing after the ownership check.
func DeleteProperty(db *gorm.DB, requester *models.User, id string) error {
	property, err := GetProperty(db, id, false)
	if err != nil {
		return err
	}
	if err := authorizeOwner(requester, property.AgentID); err != nil {
		return err
	}

	if err := db.Delete(property).Error; err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return nil
}

// SearchProperties applies the optional filters, ANDed together. Range
// bounds are inclusive.
func SearchProperties(db *gorm.DB, search PropertySearch) ([]models.Property, error) {
	query := db.Preload("Agent").Order("created_at DESC")

	if (search.MinPrice != nil || search.MaxPrice != nil) && db.Dialector.Name() == "mysql" {
		query = query.Clauses(hints.UseIndex("idx_properties_price"))
	}

	if search.Type != "" {
		query = query.Where("type = ?", search.Type)
	}
	if search.Status != "" {
		query = query.Where("status = ?", search.Status)
	}
	if search.City != "" {
		query = query.Where("lower(address_city) LIKE ?", "%"+strings.ToLower(search.City)+"%")
	}
	if search.State != "" {
		query = query.Where("lower(address_state) LIKE ?", "%"+strings.ToLower(search.State)+"%")
	}
	if search.MinPrice != nil {
		query = query.Where("price >= ?", *search.MinPrice)
	}
	if search.MaxPrice != nil {
		query = query.Where("price <= ?", *search.MaxPrice)
	}
	if search.MinBedrooms != nil {
		query = query.Where("feature_bedrooms >= ?", *search.MinBedrooms)
	}
	if search.MinBathrooms != nil {
		query = query.Where("feature_bathrooms >= ?", *search.MinBathrooms)
	}

	var properties []models.Property
	if err := query.Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	return properties, nil
}

// ListAgentProperties returns the listings owned by one agent, newest first.
func ListAgentProperties(db *gorm.DB, agentID string) ([]models.Property, error) {
	var properties []models.Property
	err := db.Where("agent_id = ?", agentID).Order("created_at DESC").Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list agent properties: %w", err)
	}
	return properties, nil
}

// FavoriteProperty bumps the favorite counter. Authentication is required
// by the route; ownership is not.
func FavoriteProperty(db *gorm.DB, id string) (*models.Property, error) {
	property, err := GetProperty(db, id, false)
	if err != nil {
		return nil, err
	}

	property.IncrementFavorites()
	if err := db.Model(property).UpdateColumn("favorites", property.Favorites).Error; err != nil {
		return nil, fmt.Errorf("failed to record favorite: %w", err)
	}
	return property, nil
}
