package models

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Client enums.
const (
	ContactBuyer  = "buyer"
	ContactSeller = "seller"
	ContactBoth   = "both"

	ClientStatusActive   = "active"
	ClientStatusInactive = "inactive"
	ClientStatusClosed   = "closed"
)

// Contact sources shared by clients and leads.
const (
	SourceWebsite     = "website"
	SourceReferral    = "referral"
	SourceWalkIn      = "walk-in"
	SourceSocialMedia = "social-media"
	SourceZillow      = "zillow"
	SourceRealtor     = "realtor"
	SourceOther       = "other"
)

// Note is an embedded sub-document recording a dated remark by a user.
type Note struct {
	Content   string    `json:"content"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notes is a JSON column holding the note sub-documents.
type Notes []Note

func (n Notes) Value() (driver.Value, error) { return jsonValue(n) }
func (n *Notes) Scan(value interface{}) error { return jsonScan(n, value) }
func (Notes) GormDBDataType(db *gorm.DB, f *schema.Field) string { return jsonDBDataType(db, f) }

// Document is an embedded sub-document describing an uploaded file.
type Document struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Documents is a JSON column holding the document sub-documents.
type Documents []Document

func (d Documents) Value() (driver.Value, error) { return jsonValue(d) }
func (d *Documents) Scan(value interface{}) error { return jsonScan(d, value) }
func (Documents) GormDBDataType(db *gorm.DB, f *schema.Field) string { return jsonDBDataType(db, f) }

// StringList is a JSON column holding a plain list of strings (id refs).
type StringList []string

func (s StringList) Value() (driver.Value, error) { return jsonValue(s) }
func (s *StringList) Scan(value interface{}) error { return jsonScan(s, value) }
func (StringList) GormDBDataType(db *gorm.DB, f *schema.Field) string { return jsonDBDataType(db, f) }

// Client is a formalized contact owned by exactly one agent.
type Client struct {
	ID              string         `gorm:"type:char(36);primaryKey" json:"id"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Email           string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone           string         `gorm:"size:32" json:"phone,omitempty"`
	Type            string         `gorm:"size:16;not null;index" json:"type"`
	Status          string         `gorm:"size:16;not null;default:active;index" json:"status"`
	Preferences     datatypes.JSON `json:"preferences,omitempty"`
	Notes           Notes          `json:"notes"`
	AssignedAgentID string         `gorm:"type:char(36);not null;index" json:"assignedAgent"`
	Agent           *User          `gorm:"foreignKey:AssignedAgentID" json:"agent,omitempty"`
	Source          string         `gorm:"size:32;not null;default:website" json:"source"`
	LastContact     time.Time      `json:"lastContact"`
	Properties      StringList     `json:"properties"`
	Documents       Documents      `json:"documents"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// TableName overrides the table name for Client
func (Client) TableName() string {
	return "clients"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (c *Client) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.LastContact.IsZero() {
		c.LastContact = time.Now()
	}
	return nil
}

// AddNote appends a note sub-document. The caller persists.
func (c *Client) AddNote(content, userID string, now time.Time) {
	c.Notes = append(c.Notes, Note{Content: content, CreatedBy: userID, CreatedAt: now})
}

// AddDocument appends a document descriptor. The caller persists.
func (c *Client) AddDocument(name, url, docType string, now time.Time) {
	c.Documents = append(c.Documents, Document{Name: name, URL: url, Type: docType, UploadedAt: now})
}

// AddProperty links a property id once. The caller persists.
func (c *Client) AddProperty(propertyID string) {
	for _, id := range c.Properties {
		if id == propertyID {
			return
		}
	}
	c.Properties = append(c.Properties, propertyID)
}

// TouchContact stamps the last-contact time. The caller persists.
func (c *Client) TouchContact(now time.Time) {
	c.LastContact = now
}

// Normalize trims and lowercases the declaratively-constrained fields.
func (c *Client) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	if c.Status == "" {
		c.Status = ClientStatusActive
	}
	if c.Source == "" {
		c.Source = SourceWebsite
	}
}

// Validate returns the list of constraint violations, empty when valid.
func (c *Client) Validate() []Violation {
	var v []Violation
	v = required(v, "name", c.Name)
	v = required(v, "email", c.Email)
	v = required(v, "type", c.Type)
	v = oneOf(v, "type", c.Type, ContactBuyer, ContactSeller, ContactBoth)
	v = oneOf(v, "status", c.Status, ClientStatusActive, ClientStatusInactive, ClientStatusClosed)
	v = oneOf(v, "source", c.Source,
		SourceWebsite, SourceReferral, SourceWalkIn, SourceSocialMedia, SourceZillow, SourceRealtor, SourceOther)
	v = required(v, "assignedAgent", c.AssignedAgentID)
	return v
}
