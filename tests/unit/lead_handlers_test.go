package handlers_test

import (
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/realtydesk/realtydesk/internal/models"
	"github.com/realtydesk/realtydesk/tests/helpers"
)

// TestConvertLead tests the POST /api/leads/:id/convert endpoint
func TestConvertLead(t *testing.T) {
	app, db, _ := helpers.NewTestApp(t)
	agent := helpers.AcquireAccount(t, app, "Agent", "convert-agent@example.com", "agent")
	lead := helpers.CreateTestLead(t, db, agent.User.ID, "Lena Lead", "lena@example.com")

	resp, err := app.Test(helpers.AuthedRequest("POST", "/api/leads/"+lead.ID+"/convert", nil, agent.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusOK)

	var result struct {
		Lead   *models.Lead   `json:"lead"`
		Client *models.Client `json:"client"`
	}
	helpers.ParseJSON(t, resp, &result)

	if result.Client == nil || result.Lead == nil {
		t.Fatal("Expected both lead and client in the convert response")
	}

	// The client copies the lead's contact fields
	if result.Client.Name != "Lena Lead" || result.Client.Email != "lena@example.com" {
		t.Errorf("Expected client to copy lead contact fields, got %+v", result.Client)
	}
	if result.Client.AssignedAgentID != agent.User.ID {
		t.Errorf("Expected client assigned to %s, got %s", agent.User.ID, result.Client.AssignedAgentID)
	}

	// The lead records the conversion
	if result.Lead.Status != models.LeadStatusConverted {
		t.Errorf("Expected lead status converted, got %s", result.Lead.Status)
	}
	if result.Lead.ConvertedTo == nil || *result.Lead.ConvertedTo != result.Client.ID {
		t.Error("Expected lead.convertedTo to reference the new client")
	}
	if result.Lead.ConversionDate == nil {
		t.Error("Expected lead.conversionDate to be set")
	}

	// Both writes persisted
	var storedClient models.Client
	if err := db.First(&storedClient, "id = ?", result.Client.ID).Error; err != nil {
		t.Fatalf("Failed to load converted client: %v", err)
	}
	var storedLead models.Lead
	if err := db.First(&storedLead, "id = ?", lead.ID).Error; err != nil {
		t.Fatalf("Failed to reload lead: %v", err)
	}
	if storedLead.Status != models.LeadStatusConverted {
		t.Errorf("Expected persisted lead status converted, got %s", storedLead.Status)
	}
}

// TestConvertLeadNoGuard tests that conversion carries no idempotence guard:
// a converted lead converts again once the email is free
func TestConvertLeadNoGuard(t *testing.T) {
	app, db, _ := helpers.NewTestApp(t)
	agent := helpers.AcquireAccount(t, app, "Agent", "reconvert-agent@example.com", "agent")
	lead := helpers.CreateTestLead(t, db, agent.User.ID, "Rena Lead", "rena@example.com")

	resp, err := app.Test(helpers.AuthedRequest("POST", "/api/leads/"+lead.ID+"/convert", nil, agent.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusOK)

	var first struct {
		Client *models.Client `json:"client"`
	}
	helpers.ParseJSON(t, resp, &first)

	// Remove the client so the unique email is free again
	resp, err = app.Test(helpers.AuthedRequest("DELETE", "/api/clients/"+first.Client.ID, nil, agent.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusOK)

	// The already-converted lead converts again without complaint
	resp, err = app.Test(helpers.AuthedRequest("POST", "/api/leads/"+lead.ID+"/convert", nil, agent.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusOK)

	var second struct {
		Client *models.Client `json:"client"`
	}
	helpers.ParseJSON(t, resp, &second)
	if second.Client.ID == first.Client.ID {
		t.Error("Expected a fresh client record on the second conversion")
	}

	var count int64
	db.Model(&models.Client{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 client after delete and re-convert, got %d", count)
	}
}

// TestConvertLeadOwnership tests the ownership guard on conversion
func TestConvertLeadOwnership(t *testing.T) {
	app, db, _ := helpers.NewTestApp(t)
	agentA := helpers.AcquireAccount(t, app, "Agent A", "conv-own-a@example.com", "agent")
	agentB := helpers.AcquireAccount(t, app, "Agent B", "conv-own-b@example.com", "agent")
	lead := helpers.CreateTestLead(t, db, agentA.User.ID, "Owned Lead", "owned-lead@example.com")

	resp, err := app.Test(helpers.AuthedRequest("POST", "/api/leads/"+lead.ID+"/convert", nil, agentB.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusForbidden)

	// A missing lead is 404 regardless of ownership
	resp, err = app.Test(helpers.AuthedRequest("POST", "/api/leads/00000000-0000-0000-0000-000000000000/convert", nil, agentB.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusNotFound)
}

// TestUpdateLeadAllowList tests that unknown lead fields reject the whole update
func TestUpdateLeadAllowList(t *testing.T) {
	app, db, _ := helpers.NewTestApp(t)
	agent := helpers.AcquireAccount(t, app, "Agent", "lead-allow@example.com", "agent")
	lead := helpers.CreateTestLead(t, db, agent.User.ID, "Allow Lead", "allow-lead@example.com")

	update, _ := json.Marshal(map[string]interface{}{
		"status":      "contacted",
		"convertedTo": "forged-client-id",
	})
	resp, err := app.Test(helpers.AuthedRequest("PUT", "/api/leads/"+lead.ID, update, agent.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusBadRequest)

	var current models.Lead
	if err := db.First(&current, "id = ?", lead.ID).Error; err != nil {
		t.Fatalf("Failed to reload lead: %v", err)
	}
	if current.Status != models.LeadStatusNew {
		t.Errorf("Expected status unchanged at new, got %s", current.Status)
	}
	if current.ConvertedTo != nil {
		t.Error("Expected convertedTo unchanged")
	}

	// Allowed fields alone apply
	update, _ = json.Marshal(map[string]string{"status": "contacted"})
	resp, err = app.Test(helpers.AuthedRequest("PUT", "/api/leads/"+lead.ID, update, agent.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusOK)

	var updated models.Lead
	helpers.ParseJSON(t, resp, &updated)
	if updated.Status != models.LeadStatusContacted {
		t.Errorf("Expected status contacted, got %s", updated.Status)
	}
}

// TestLeadNotes tests the POST /api/leads/:id/notes endpoint
func TestLeadNotes(t *testing.T) {
	app, db, _ := helpers.NewTestApp(t)
	agent := helpers.AcquireAccount(t, app, "Agent", "lead-notes@example.com", "agent")
	lead := helpers.CreateTestLead(t, db, agent.User.ID, "Note Lead", "note-lead@example.com")

	body, _ := json.Marshal(map[string]string{"content": "Left a voicemail"})
	resp, err := app.Test(helpers.AuthedRequest("POST", "/api/leads/"+lead.ID+"/notes", body, agent.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusOK)

	var updated models.Lead
	helpers.ParseJSON(t, resp, &updated)
	if len(updated.Notes) != 1 || updated.Notes[0].Content != "Left a voicemail" {
		t.Errorf("Expected the note appended, got %+v", updated.Notes)
	}

	// Empty content is rejected
	body, _ = json.Marshal(map[string]string{"content": "   "})
	resp, err = app.Test(helpers.AuthedRequest("POST", "/api/leads/"+lead.ID+"/notes", body, agent.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusBadRequest)
}

// TestSearchLeads tests the GET /api/leads/search endpoint
func TestSearchLeads(t *testing.T) {
	app, db, _ := helpers.NewTestApp(t)
	agent := helpers.AcquireAccount(t, app, "Agent", "lead-search@example.com", "agent")

	helpers.CreateTestLead(t, db, agent.User.ID, "Web Lead", "web-lead@example.com")
	referral := helpers.CreateTestLead(t, db, agent.User.ID, "Ref Lead", "ref-lead@example.com")
	referral.Source = models.SourceReferral
	if err := db.Save(referral).Error; err != nil {
		t.Fatalf("Failed to update lead source: %v", err)
	}

	resp, err := app.Test(helpers.AuthedRequest("GET", "/api/leads/search?source=referral", nil, agent.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusOK)

	var results []models.Lead
	helpers.ParseJSON(t, resp, &results)
	if len(results) != 1 || results[0].ID != referral.ID {
		t.Errorf("Expected only the referral lead, got %d results", len(results))
	}
}
