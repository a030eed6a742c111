package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
	RoleAdmin = "admin"
)

// User is an account in the CRM. Agents own the clients, leads, and
// properties they create; admins may act on any resource.
type User struct {
	ID           string     `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Phone        string     `gorm:"size:32" json:"phone,omitempty"`
	Company      string     `gorm:"size:255" json:"company,omitempty"`
	ProfileImage string     `gorm:"size:512" json:"profileImage,omitempty"`
	Role         string     `gorm:"size:16;not null;default:user;index" json:"role"`
	IsActive     bool       `gorm:"not null;default:true" json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsAgent reports whether the user may own CRM resources. Admins count.
func (u *User) IsAgent() bool {
	return u.Role == RoleAgent || u.Role == RoleAdmin
}

// TouchLogin stamps the last-login time. The caller persists.
func (u *User) TouchLogin(now time.Time) {
	u.LastLogin = &now
}

// Normalize trims and lowercases the declaratively-constrained fields.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = RoleUser
	}
}

// Validate returns the list of constraint violations, empty when valid.
func (u *User) Validate() []Violation {
	var v []Violation
	v = required(v, "name", u.Name)
	v = required(v, "email", u.Email)
	v = oneOf(v, "role", u.Role, RoleUser, RoleAgent, RoleAdmin)
	return v
}
