package handlers_test

import (
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/realtydesk/realtydesk/internal/models"
	"github.com/realtydesk/realtydesk/tests/helpers"
)

// TestCreateClientAssignsAgent tests that POST /api/clients assigns the requesting agent
func TestCreateClientAssignsAgent(t *testing.T) {
	app, _, _ := helpers.NewTestApp(t)
	agent := helpers.AcquireAccount(t, app, "Agent", "client-agent@example.com", "agent")

	body, _ := json.Marshal(map[string]string{
		"name":  "Casey Client",
		"email": "casey@example.com",
		"type":  "buyer",
	})
	resp, err := app.Test(helpers.AuthedRequest("POST", "/api/clients", body, agent.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusCreated)

	var created models.Client
	helpers.ParseJSON(t, resp, &created)
	if created.AssignedAgentID != agent.User.ID {
		t.Errorf("Expected client assigned to %s, got %s", agent.User.ID, created.AssignedAgentID)
	}
	if created.Status != "active" {
		t.Errorf("Expected default status active, got %s", created.Status)
	}
	if created.Source != "website" {
		t.Errorf("Expected default source website, got %s", created.Source)
	}
}

// TestClientNotes tests the POST /api/clients/:id/notes endpoint
func TestClientNotes(t *testing.T) {
	app, db, _ := helpers.NewTestApp(t)
	agent := helpers.AcquireAccount(t, app, "Agent", "notes-agent@example.com", "agent")
	client := helpers.CreateTestClient(t, db, agent.User.ID, "Note Client", "note-client@example.com")

	body, _ := json.Marshal(map[string]string{"content": "Called about the Main St listing"})
	resp, err := app.Test(helpers.AuthedRequest("POST", "/api/clients/"+client.ID+"/notes", body, agent.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusOK)

	var updated models.Client
	helpers.ParseJSON(t, resp, &updated)
	if len(updated.Notes) != 1 {
		t.Fatalf("Expected 1 note, got %d", len(updated.Notes))
	}
	if updated.Notes[0].Content != "Called about the Main St listing" {
		t.Errorf("Unexpected note content: %s", updated.Notes[0].Content)
	}
	if updated.Notes[0].CreatedBy != agent.User.ID {
		t.Errorf("Expected note author %s, got %s", agent.User.ID, updated.Notes[0].CreatedBy)
	}
	if updated.Notes[0].CreatedAt.IsZero() {
		t.Error("Expected note timestamp to be set")
	}

	// A second note appends
	body, _ = json.Marshal(map[string]string{"content": "Scheduled a showing"})
	resp, err = app.Test(helpers.AuthedRequest("POST", "/api/clients/"+client.ID+"/notes", body, agent.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.ParseJSON(t, resp, &updated)
	if len(updated.Notes) != 2 {
		t.Errorf("Expected 2 notes, got %d", len(updated.Notes))
	}
}

// TestClientDocuments tests the POST /api/clients/:id/documents endpoint
func TestClientDocuments(t *testing.T) {
	app, db, _ := helpers.NewTestApp(t)
	agent := helpers.AcquireAccount(t, app, "Agent", "docs-agent@example.com", "agent")
	client := helpers.CreateTestClient(t, db, agent.User.ID, "Doc Client", "doc-client@example.com")

	body, _ := json.Marshal(map[string]string{
		"name": "Pre-approval letter",
		"url":  "https://files.example.com/pre-approval.pdf",
		"type": "pdf",
	})
	resp, err := app.Test(helpers.AuthedRequest("POST", "/api/clients/"+client.ID+"/documents", body, agent.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusOK)

	var updated models.Client
	helpers.ParseJSON(t, resp, &updated)
	if len(updated.Documents) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(updated.Documents))
	}
	if updated.Documents[0].Name != "Pre-approval letter" {
		t.Errorf("Unexpected document name: %s", updated.Documents[0].Name)
	}
	if updated.Documents[0].UploadedAt.IsZero() {
		t.Error("Expected document timestamp to be set")
	}
}

// TestClientOwnership tests that another agent cannot modify a client record
func TestClientOwnership(t *testing.T) {
	app, db, _ := helpers.NewTestApp(t)
	agentA := helpers.AcquireAccount(t, app, "Agent A", "own-a@example.com", "agent")
	agentB := helpers.AcquireAccount(t, app, "Agent B", "own-b@example.com", "agent")
	client := helpers.CreateTestClient(t, db, agentA.User.ID, "Owned Client", "owned@example.com")

	update, _ := json.Marshal(map[string]string{"status": "inactive"})
	resp, err := app.Test(helpers.AuthedRequest("PUT", "/api/clients/"+client.ID, update, agentB.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusForbidden)

	resp, err = app.Test(helpers.AuthedRequest("DELETE", "/api/clients/"+client.ID, nil, agentB.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusForbidden)

	// Reads are open to any authenticated user
	resp, err = app.Test(helpers.AuthedRequest("GET", "/api/clients/"+client.ID, nil, agentB.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusOK)
}

// TestSearchClients tests the GET /api/clients/search endpoint
func TestSearchClients(t *testing.T) {
	app, db, _ := helpers.NewTestApp(t)
	agent := helpers.AcquireAccount(t, app, "Agent", "search-agent@example.com", "agent")

	helpers.CreateTestClient(t, db, agent.User.ID, "Alice Anderson", "alice@example.com")
	helpers.CreateTestClient(t, db, agent.User.ID, "Bob Brown", "bob@example.com")

	resp, err := app.Test(helpers.AuthedRequest("GET", "/api/clients/search?name=ali", nil, agent.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusOK)

	var results []models.Client
	helpers.ParseJSON(t, resp, &results)
	if len(results) != 1 || results[0].Name != "Alice Anderson" {
		t.Errorf("Expected only Alice Anderson, got %d results", len(results))
	}

	// Exact enum filters combine with substring filters
	resp, err = app.Test(helpers.AuthedRequest("GET", "/api/clients/search?type=seller&name=ali", nil, agent.Token))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.ParseJSON(t, resp, &results)
	if len(results) != 0 {
		t.Errorf("Expected no sellers named ali, got %d", len(results))
	}
}

// TestListClientsRequiresAuth tests the bearer guard on the client routes
func TestListClientsRequiresAuth(t *testing.T) {
	app, _, _ := helpers.NewTestApp(t)

	resp, err := app.Test(helpers.AuthedRequest("GET", "/api/clients", nil, ""))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, fiber.StatusUnauthorized)
}
