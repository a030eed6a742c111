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

// leadUpdatable is the allow-list for PUT /api/leads/:id.
var leadUpdatable = []string{"name", "email", "phone", "source", "status", "type", "preferences", "notes", "followUpDate"}

// LeadSearch holds the optional, independently combinable lead filters.
type LeadSearch struct {
	Name   string
	Email  string
	Source string
	Status string
	Type   string
}

// ListLeads returns all leads, newest first.
func ListLeads(db *gorm.DB) ([]models.Lead, error) {
	var leads []models.Lead
	err := db.Preload("Agent").Order("created_at DESC").Find(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// GetLead loads a single lead by id.
func GetLead(db *gorm.DB, id string) (*models.Lead, error) {
	var lead models.Lead
	err := db.Preload("Agent").Where("id = ?", id).First(&lead).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load lead: %w", err)
	}
	return &lead, nil
}

// CreateLead persists a new lead assigned to the requesting agent.
func CreateLead(db *gorm.DB, requester *models.User, lead *models.Lead) error {
	lead.AssignedAgentID = requester.ID
	lead.Normalize()
	if err := violationError(lead.Validate()); err != nil {
		return err
	}

	if err := db.Omit(clause.Associations).Create(lead).Error; err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

// UpdateLead applies an allow-listed update after the ownership check.
func UpdateLead(db *gorm.DB, requester *models.User, id string, updates map[string]json.RawMessage) (*models.Lead, error) {
	lead, err := GetLead(db, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(requester, lead.AssignedAgentID); err != nil {
		return nil, err
	}

	if err := applyUpdates(lead, updates, leadUpdatable); err != nil {
		return nil, err
	}
	lead.Normalize()
	if err := violationError(lead.Validate()); err != nil {
		return nil, err
	}

	if err := db.Omit(clause.Associations).Save(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}
	return lead, nil
}

// DeleteLead removes a lead after the ownership check.
func DeleteLead(db *gorm.DB, requester *models.User, id string) error {
	lead, err := GetLead(db, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(requester, lead.AssignedAgentID); err != nil {
		return err
	}

	if err := db.Delete(lead).Error; err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	return nil
}

// AddLeadNote appends a note sub-document after the ownership check.
func AddLeadNote(db *gorm.DB, requester *models.User, id, content string) (*models.Lead, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: note content is required", ErrInvalidInput)
	}

	lead, err := GetLead(db, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(requester, lead.AssignedAgentID); err != nil {
		return nil, err
	}

	lead.AddNote(content, requester.ID, time.Now())
	if err := db.Omit(clause.Associations).Save(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to add note: %w", err)
	}
	return lead, nil
}

// ConvertLead runs the lead conversion workflow: create a client copied
// from the lead, then mark the lead converted and link the client.
//
// The two writes are independent; there is no compensation if the second
// fails, and a lead already converted is not guarded against re-conversion.
func ConvertLead(db *gorm.DB, requester *models.User, id string) (*models.Lead, *models.Client, error) {
	lead, err := GetLead(db, id)
	if err != nil {
		return nil, nil, err
	}
	if err := authorizeOwner(requester, lead.AssignedAgentID); err != nil {
		return nil, nil, err
	}

	client := &models.Client{
		Name:            lead.Name,
		Email:           lead.Email,
		Phone:           lead.Phone,
		Type:            lead.Type,
		AssignedAgentID: lead.AssignedAgentID,
		Preferences:     lead.Preferences,
		Source:          lead.Source,
	}
	client.Normalize()

	if err := db.Omit(clause.Associations).Create(client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, fmt.Errorf("%w: client with email %s", ErrDuplicate, client.Email)
		}
		return nil, nil, fmt.Errorf("failed to create client from lead: %w", err)
	}

	lead.Convert(client.ID, time.Now())
	if err := db.Omit(clause.Associations).Save(lead).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to mark lead converted: %w", err)
	}

	return lead, client, nil
}

// ListAgentLeads returns the leads assigned to one agent, newest first.
func ListAgentLeads(db *gorm.DB, agentID string) ([]models.Lead, error) {
	var leads []models.Lead
	err := db.Where("assigned_agent_id = ?", agentID).Order("created_at DESC").Find(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list agent leads: %w", err)
	}
	return leads, nil
}

// SearchLeads applies the optional filters, ANDed together.
func SearchLeads(db *gorm.DB, search LeadSearch) ([]models.Lead, error) {
	query := db.Preload("Agent").Order("created_at DESC")

	if search.Name != "" {
		query = query.Where("lower(name) LIKE ?", "%"+strings.ToLower(search.Name)+"%")
	}
	if search.Email != "" {
		query = query.Where("lower(email) LIKE ?", "%"+strings.ToLower(search.Email)+"%")
	}
	if search.Source != "" {
		query = query.Where("source = ?", search.Source)
	}
	if search.Status != "" {
		query = query.Where("status = ?", search.Status)
	}
	if search.Type != "" {
		query = query.Where("type = ?", search.Type)
	}

	var leads []models.Lead
	if err := query.Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to search leads: %w", err)
	}
	return leads, nil
}
