package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/realtydesk/realtydesk/internal/types"
)

// Property enums.
const (
	PropertyResidential = "residential"
	PropertyCommercial  = "commercial"
	PropertyLand        = "land"
	PropertyIndustrial  = "industrial"

	PropertyStatusAvailable = "available"
	PropertyStatusPending   = "pending"
	PropertyStatusSold      = "sold"
	PropertyStatusOffMarket = "off-market"
)

// Address holds the listing location. Stored as discrete columns so that
// city/state searches stay plain SQL.
type Address struct {
	Street  string `gorm:"size:255;not null" json:"street"`
	City    string `gorm:"size:128;not null;index:idx_properties_city_state" json:"city"`
	State   string `gorm:"size:64;not null;index:idx_properties_city_state" json:"state"`
	ZipCode string `gorm:"size:16;not null" json:"zipCode"`
	Country string `gorm:"size:64;not null;default:USA" json:"country"`
}

// Features holds the numeric listing attributes. Discrete columns keep the
// minimum-bedrooms/bathrooms range filters in SQL.
type Features struct {
	Bedrooms   types.FlexUint64 `json:"bedrooms"`
	Bathrooms  float64          `json:"bathrooms"`
	SquareFeet types.FlexUint64 `json:"squareFeet"`
	LotSize    float64          `json:"lotSize"`
	YearBuilt  types.FlexUint64 `json:"yearBuilt"`
	Parking    types.FlexUint64 `json:"parking"`
}

// Property is a listing owned by exactly one agent.
type Property struct {
	ID          string         `gorm:"type:char(36);primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Type        string         `gorm:"size:16;not null;index:idx_properties_type_status" json:"type"`
	Status      string         `gorm:"size:16;not null;default:available;index:idx_properties_type_status" json:"status"`
	Price       float64        `gorm:"not null;index:idx_properties_price" json:"price"`
	Address     Address        `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Features    Features       `gorm:"embedded;embeddedPrefix:feature_" json:"features"`
	Amenities   datatypes.JSON `json:"amenities,omitempty"`
	Images      datatypes.JSON `json:"images,omitempty"`
	AgentID     string         `gorm:"type:char(36);not null;index" json:"agent"`
	Agent       *User          `gorm:"foreignKey:AgentID" json:"agentProfile,omitempty"`
	Owner       datatypes.JSON `json:"owner,omitempty"`
	ListingDate time.Time      `json:"listingDate"`
	LastUpdated time.Time      `json:"lastUpdated"`
	Views       uint64         `gorm:"not null;default:0" json:"views"`
	Favorites   uint64         `gorm:"not null;default:0" json:"favorites"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// TableName overrides the table name for Property
func (Property) TableName() string {
	return "properties"
}

// BeforeCreate assigns a UUID primary key and listing timestamps.
func (p *Property) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	if p.ListingDate.IsZero() {
		p.ListingDate = now
	}
	if p.LastUpdated.IsZero() {
		p.LastUpdated = now
	}
	return nil
}

// IncrementViews bumps the view counter. The caller persists.
func (p *Property) IncrementViews() {
	p.Views++
}

// IncrementFavorites bumps the favorite counter. The caller persists.
func (p *Property) IncrementFavorites() {
	p.Favorites++
}

// FullAddress renders the street address on one line.
func (p *Property) FullAddress() string {
	return p.Address.Street + ", " + p.Address.City + ", " + p.Address.State + " " + p.Address.ZipCode
}

// Normalize trims the declaratively-constrained fields.
func (p *Property) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Address.Street = strings.TrimSpace(p.Address.Street)
	p.Address.City = strings.TrimSpace(p.Address.City)
	p.Address.State = strings.TrimSpace(p.Address.State)
	p.Address.ZipCode = strings.TrimSpace(p.Address.ZipCode)
	if p.Address.Country == "" {
		p.Address.Country = "USA"
	}
	if p.Status == "" {
		p.Status = PropertyStatusAvailable
	}
}

// Validate returns the list of constraint violations, empty when valid.
func (p *Property) Validate() []Violation {
	var v []Violation
	v = required(v, "title", p.Title)
	v = required(v, "description", p.Description)
	v = required(v, "type", p.Type)
	v = oneOf(v, "type", p.Type, PropertyResidential, PropertyCommercial, PropertyLand, PropertyIndustrial)
	v = oneOf(v, "status", p.Status,
		PropertyStatusAvailable, PropertyStatusPending, PropertyStatusSold, PropertyStatusOffMarket)
	v = nonNegative(v, "price", p.Price)
	v = required(v, "address.street", p.Address.Street)
	v = required(v, "address.city", p.Address.City)
	v = required(v, "address.state", p.Address.State)
	v = required(v, "address.zipCode", p.Address.ZipCode)
	v = nonNegative(v, "features.bathrooms", p.Features.Bathrooms)
	v = nonNegative(v, "features.lotSize", p.Features.LotSize)
	v = required(v, "agent", p.AgentID)
	return v
}
