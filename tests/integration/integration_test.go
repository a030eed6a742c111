package integration_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/realtydesk/realtydesk/internal/config"
	"github.com/realtydesk/realtydesk/internal/database"
	"github.com/realtydesk/realtydesk/internal/models"
	"github.com/realtydesk/realtydesk/internal/services"
)

// TestWithMariaDB tests the service with a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start MariaDB container
	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        os.Getenv("DB_IMAGE"),
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	// Get container host and port
	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	// Create config
	cfg := &config.Config{
		DBType:            "mysql",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	// Wait for database to be ready
	time.Sleep(5 * time.Second)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	runDomainTests(t, db)

	t.Run("HealthCheck", func(t *testing.T) {
		result := services.HealthCheck(cfg, db)
		if result.Database != "ok" {
			t.Errorf("Expected database to be ok, got: %s", result.Database)
		}
		if result.Status != "healthy" {
			t.Errorf("Expected status to be healthy, got: %s", result.Status)
		}
	})
}

// TestWithPostgreSQL tests the service with a real PostgreSQL container
func TestWithPostgreSQL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start PostgreSQL container
	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        os.Getenv("POSTGRES_IMAGE"),
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_USER":     "testuser",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}()

	// Get container host and port
	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgresContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	// Create config
	cfg := &config.Config{
		DBType:            "postgres",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	// Wait for database to be ready
	time.Sleep(2 * time.Second)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	runDomainTests(t, db)
}

// runDomainTests runs the service-level scenarios against a live database
func runDomainTests(t *testing.T, db *gorm.DB) {
	t.Run("RegisterAndAuthenticate", func(t *testing.T) {
		testRegisterAndAuthenticate(t, db)
	})

	t.Run("LeadConversion", func(t *testing.T) {
		testLeadConversion(t, db)
	})

	t.Run("OwnershipEnforcement", func(t *testing.T) {
		testOwnershipEnforcement(t, db)
	})

	t.Run("PropertySearch", func(t *testing.T) {
		testPropertySearch(t, db)
	})
}

// testRegisterAndAuthenticate tests the credential round trip on a real database
func testRegisterAndAuthenticate(t *testing.T, db *gorm.DB) {
	user, err := services.RegisterUser(db, "Integration User", "int-user@example.com", "S3cret!pass", "agent")
	if err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	loggedIn, err := services.LoginUser(db, "int-user@example.com", "S3cret!pass")
	if err != nil {
		t.Fatalf("Failed to login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("Expected the registered user back, got %s", loggedIn.ID)
	}
	if loggedIn.LastLogin == nil {
		t.Error("Expected last login to be stamped")
	}

	if _, err := services.LoginUser(db, "int-user@example.com", "wrong"); err == nil {
		t.Error("Expected wrong password to fail")
	}
}

// testLeadConversion tests the conversion workflow on a real database
func testLeadConversion(t *testing.T, db *gorm.DB) {
	agent, err := services.RegisterUser(db, "Conversion Agent", "int-conv@example.com", "S3cret!pass", "agent")
	if err != nil {
		t.Fatalf("Failed to register agent: %v", err)
	}

	lead := &models.Lead{
		Name:   "Integration Lead",
		Email:  "int-lead@example.com",
		Source: models.SourceReferral,
		Type:   models.ContactBuyer,
	}
	if err := services.CreateLead(db, agent, lead); err != nil {
		t.Fatalf("Failed to create lead: %v", err)
	}

	converted, client, err := services.ConvertLead(db, agent, lead.ID)
	if err != nil {
		t.Fatalf("Failed to convert lead: %v", err)
	}
	if converted.ConvertedTo == nil || *converted.ConvertedTo != client.ID {
		t.Error("Expected the lead to reference the created client")
	}
	if client.Source != models.SourceReferral {
		t.Errorf("Expected the client to keep the lead source, got %s", client.Source)
	}

	// The unique client email blocks an immediate second conversion
	if _, _, err := services.ConvertLead(db, agent, lead.ID); err == nil {
		t.Error("Expected duplicate email to block the second conversion")
	}
}

// testOwnershipEnforcement tests that service writes check ownership after load
func testOwnershipEnforcement(t *testing.T, db *gorm.DB) {
	owner, err := services.RegisterUser(db, "Owner", "int-owner@example.com", "S3cret!pass", "agent")
	if err != nil {
		t.Fatalf("Failed to register owner: %v", err)
	}
	other, err := services.RegisterUser(db, "Other", "int-other@example.com", "S3cret!pass", "agent")
	if err != nil {
		t.Fatalf("Failed to register other: %v", err)
	}

	client := &models.Client{
		Name:  "Guarded Client",
		Email: "int-guarded@example.com",
		Type:  models.ContactSeller,
	}
	if err := services.CreateClient(db, owner, client); err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	if err := services.DeleteClient(db, other, client.ID); err != services.ErrForbidden {
		t.Errorf("Expected ErrForbidden for the non-owner, got %v", err)
	}

	// A missing record reports not found before any ownership decision
	if err := services.DeleteClient(db, other, "00000000-0000-0000-0000-000000000000"); err != services.ErrNotFound {
		t.Errorf("Expected ErrNotFound for a missing client, got %v", err)
	}

	if err := services.DeleteClient(db, owner, client.ID); err != nil {
		t.Errorf("Expected the owner delete to succeed, got %v", err)
	}
}

// testPropertySearch tests the combined search filters on a real database
func testPropertySearch(t *testing.T, db *gorm.DB) {
	agent, err := services.RegisterUser(db, "Search Agent", "int-search@example.com", "S3cret!pass", "agent")
	if err != nil {
		t.Fatalf("Failed to register agent: %v", err)
	}

	for _, p := range []struct {
		title string
		city  string
		price float64
	}{
		{"Downtown Loft", "Chicago", 450000},
		{"Suburban Home", "Naperville", 350000},
		{"Lake House", "Chicago", 800000},
	} {
		property := &models.Property{
			Title:       p.title,
			Description: "Integration listing",
			Type:        models.PropertyResidential,
			Price:       p.price,
			Address: models.Address{
				Street: "1 Test Way", City: p.city, State: "IL", ZipCode: "60601",
			},
		}
		if err := services.CreateProperty(db, agent, property); err != nil {
			t.Fatalf("Failed to create property %s: %v", p.title, err)
		}
	}

	maxPrice := 450000.0
	results, err := services.SearchProperties(db, services.PropertySearch{
		City:     "chic",
		MaxPrice: &maxPrice,
	})
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Downtown Loft" {
		t.Errorf("Expected only Downtown Loft, got %d results", len(results))
	}
}
