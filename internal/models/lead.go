package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lead statuses. A lead that reaches converted stays converted.
const (
	LeadStatusNew         = "new"
	LeadStatusContacted   = "contacted"
	LeadStatusQualified   = "qualified"
	LeadStatusUnqualified = "unqualified"
	LeadStatusConverted   = "converted"
	LeadStatusLost        = "lost"
)

// Lead is a prospective contact not yet formalized as a Client.
type Lead struct {
	ID              string         `gorm:"type:char(36);primaryKey" json:"id"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Email           string         `gorm:"size:255;not null;index" json:"email"`
	Phone           string         `gorm:"size:32" json:"phone,omitempty"`
	Source          string         `gorm:"size:32;not null" json:"source"`
	Status          string         `gorm:"size:16;not null;default:new;index" json:"status"`
	Type            string         `gorm:"size:16;not null" json:"type"`
	AssignedAgentID string         `gorm:"type:char(36);index" json:"assignedAgent"`
	Agent           *User          `gorm:"foreignKey:AssignedAgentID" json:"agent,omitempty"`
	Notes           Notes          `json:"notes"`
	FollowUpDate    *time.Time     `gorm:"index" json:"followUpDate,omitempty"`
	LastContact     time.Time      `json:"lastContact"`
	Preferences     datatypes.JSON `json:"preferences,omitempty"`
	ConversionDate  *time.Time     `json:"conversionDate,omitempty"`
	ConvertedTo     *string        `gorm:"type:char(36)" json:"convertedTo,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// TableName overrides the table name for Lead
func (Lead) TableName() string {
	return "leads"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (l *Lead) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.LastContact.IsZero() {
		l.LastContact = time.Now()
	}
	return nil
}

// AddNote appends a note sub-document. The caller persists.
func (l *Lead) AddNote(content, userID string, now time.Time) {
	l.Notes = append(l.Notes, Note{Content: content, CreatedBy: userID, CreatedAt: now})
}

// SetStatus moves the lead to a new status, stamping the conversion date
// when the status becomes converted. The caller persists.
func (l *Lead) SetStatus(status string, now time.Time) {
	l.Status = status
	if status == LeadStatusConverted {
		l.ConversionDate = &now
	}
}

// ScheduleFollowUp records the next follow-up date. The caller persists.
func (l *Lead) ScheduleFollowUp(date time.Time) {
	l.FollowUpDate = &date
}

// TouchContact stamps the last-contact time. The caller persists.
func (l *Lead) TouchContact(now time.Time) {
	l.LastContact = now
}

// Convert marks the lead converted and links the created client.
// The caller persists.
func (l *Lead) Convert(clientID string, now time.Time) {
	l.Status = LeadStatusConverted
	l.ConversionDate = &now
	l.ConvertedTo = &clientID
}

// Converted reports whether the lead has already been converted.
func (l *Lead) Converted() bool {
	return l.Status == LeadStatusConverted
}

// Normalize trims and lowercases the declaratively-constrained fields.
func (l *Lead) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = strings.ToLower(strings.TrimSpace(l.Email))
	l.Phone = strings.TrimSpace(l.Phone)
	if l.Status == "" {
		l.Status = LeadStatusNew
	}
}

// Validate returns the list of constraint violations, empty when valid.
func (l *Lead) Validate() []Violation {
	var v []Violation
	v = required(v, "name", l.Name)
	v = required(v, "email", l.Email)
	v = required(v, "source", l.Source)
	v = oneOf(v, "source", l.Source,
		SourceWebsite, SourceReferral, SourceSocialMedia, SourceZillow, SourceRealtor, SourceOther)
	v = oneOf(v, "status", l.Status,
		LeadStatusNew, LeadStatusContacted, LeadStatusQualified,
		LeadStatusUnqualified, LeadStatusConverted, LeadStatusLost)
	v = required(v, "type", l.Type)
	v = oneOf(v, "type", l.Type, ContactBuyer, ContactSeller, ContactBoth)
	return v
}
