// data.go
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

package helpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/realtydesk/realtydesk/internal/models"
	"github.com/realtydesk/realtydesk/internal/types"
)

// CreateTestProperty creates a listing owned by the given agent
func CreateTestProperty(t *testing.T, db *gorm.DB, agentID, title string, price float64) *models.Property {
	t.Helper()
	property := models.Property{
		Title:       title,
		Description: "Test listing " + title,
		Type:        models.PropertyResidential,
		Status:      models.PropertyStatusAvailable,
		Price:       price,
		Address: models.Address{
			Street:  "123 Main St",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62701",
			Country: "USA",
		},
		Features: models.Features{
			Bedrooms:   types.FlexUint64(3),
			Bathrooms:  2,
			SquareFeet: types.FlexUint64(1600),
		},
		AgentID: agentID,
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("Failed to create property: %v", err)
	}
	return &property
}

// CreateTestClient creates a client record assigned to the given agent
func CreateTestClient(t *testing.T, db *gorm.DB, agentID, name, email string) *models.Client {
	t.Helper()
	client := models.Client{
		Name:            name,
		Email:           email,
		Type:            models.ContactBuyer,
		Status:          models.ClientStatusActive,
		AssignedAgentID: agentID,
		Source:          models.SourceWebsite,
	}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return &client
}

// CreateTestLead creates a sales lead assigned to the given agent
func CreateTestLead(t *testing.T, db *gorm.DB, agentID, name, email string) *models.Lead {
	t.Helper()
	lead := models.Lead{
		Name:            name,
		Email:           email,
		Source:          models.SourceWebsite,
		Status:          models.LeadStatusNew,
		Type:            models.ContactBuyer,
		AssignedAgentID: agentID,
	}
	if err := db.Create(&lead).Error; err != nil {
		t.Fatalf("Failed to create lead: %v", err)
	}
	return &lead
}
