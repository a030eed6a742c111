package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/realtydesk/realtydesk/internal/models"
)

// clientUpdatable is the allow-list for PUT /api/clients/:id.
var clientUpdatable = []string{"name", "email", "phone", "type", "status", "preferences", "notes", "documents"}

// ClientSearch holds the optional, independently combinable client filters.
type ClientSearch struct {
	Name   string
	Email  string
	Type   string
	Status string
}

// ListClients returns all clients, newest first.
func ListClients(db *gorm.DB) ([]models.Client, error) {
	var clients []models.Client
	err := db.Preload("Agent").Order("created_at DESC").Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// GetClient loads a single client by id.
func GetClient(db *gorm.DB, id string) (*models.Client, error) {
	var client models.Client
	err := db.Preload("Agent").Where("id = ?", id).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	return &client, nil
}

// CreateClient persists a new client assigned to the requesting agent.
func CreateClient(db *gorm.DB, requester *models.User, client *models.Client) error {
	client.AssignedAgentID = requester.ID
	client.Normalize()
	if err := violationError(client.Validate()); err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.Client{}).Where("email = ?", client.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing client: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: client with email %s", ErrDuplicate, client.Email)
	}

	if err := db.Omit(clause.Associations).Create(client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: client with email %s", ErrDuplicate, client.Email)
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// UpdateClient applies an allow-listed update after the ownership check.
func UpdateClient(db *gorm.DB, requester *models.User, id string, updates map[string]json.RawMessage) (*models.Client, error) {
	client, err := GetClient(db, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(requester, client.AssignedAgentID); err != nil {
		return nil, err
	}

	if err := applyUpdates(client, updates, clientUpdatable); err != nil {
		return nil, err
	}
	client.Normalize()
	if err := violationError(client.Validate()); err != nil {
		return nil, err
	}

	if err := db.Omit(clause.Associations).Save(client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: client with email %s", ErrDuplicate, client.Email)
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

// DeleteClient removes a client after the ownership check.
func DeleteClient(db *gorm.DB, requester *models.User, id string) error {
	client, err := GetClient(db, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(requester, client.AssignedAgentID); err != nil {
		return err
	}

	if err := db.Delete(client).Error; err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// AddClientNote appends a note sub-document after the ownership check.
func AddClientNote(db *gorm.DB, requester *models.User, id, content string) (*models.Client, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: note content is required", ErrInvalidInput)
	}

	client, err := GetClient(db, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(requester, client.AssignedAgentID); err != nil {
		return nil, err
	}

	client.AddNote(content, requester.ID, time.Now())
	if err := db.Omit(clause.Associations).Save(client).Error; err != nil {
		return nil, fmt.Errorf("failed to add note: %w", err)
	}
	return client, nil
}

// AddClientDocument appends a document descriptor after the ownership check.
func AddClientDocument(db *gorm.DB, requester *models.User, id, name, url, docType string) (*models.Client, error) {
	if name == "" || url == "" {
		return nil, fmt.Errorf("%w: document name and url are required", ErrInvalidInput)
	}

	client, err := GetClient(db, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(requester, client.AssignedAgentID); err != nil {
		return nil, err
	}

	client.AddDocument(name, url, docType, time.Now())
	if err := db.Omit(clause.Associations).Save(client).Error; err != nil {
		return nil, fmt.Errorf("failed to add document: %w", err)
	}
	return client, nil
}

// ListAgentClients returns the clients assigned to one agent, newest first.
func ListAgentClients(db *gorm.DB, agentID string) ([]models.Client, error) {
	var clients []models.Client
	err := db.Where("assigned_agent_id = ?", agentID).Order("created_at DESC").Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list agent clients: %w", err)
	}
	return clients, nil
}

// SearchClients applies the optional filters, ANDed together.
func SearchClients(db *gorm.DB, search ClientSearch) ([]models.Client, error) {
	query := db.Preload("Agent").Order("created_at DESC")

	if search.Name != "" {
		query = query.Where("lower(name) LIKE ?", "%"+strings.ToLower(search.Name)+"%")
	}
	if search.Email != "" {
		query = query.Where("lower(email) LIKE ?", "%"+strings.ToLower(search.Email)+"%")
	}
	if search.Type != "" {
		query = query.Where("type = ?", search.Type)
	}
	if search.Status != "" {
		query = query.Where("status = ?", search.Status)
	}

	var clients []models.Client
	if err := query.Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	return clients, nil
}
