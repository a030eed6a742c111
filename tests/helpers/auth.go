package helpers

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/realtydesk/realtydesk/internal/models"
)

func randInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// GeneratePassword generates a 10 character password with a capital and special char
func GeneratePassword() string {
	const (
		lower   = "abcdefghijklmnopqrstuvwxyz"
		upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		special = "!@#$%^&*"
		numbers = "0123456789"
		all     = lower + upper + special + numbers
	)

	password := make([]byte, 10)
	password[0] = upper[randInt(len(upper))]
	password[1] = special[randInt(len(special))]
	password[2] = numbers[randInt(len(numbers))]

	for i := 3; i < 10; i++ {
		password[i] = all[randInt(len(all))]
	}

	for i := range password {
		j := randInt(len(password))
		password[i], password[j] = password[j], password[i]
	}

	return string(password)
}

// Account is a registered test user together with its bearer token
type Account struct {
	User  *models.User
	Token string
}

// AcquireAccount registers a user through the API and returns its bearer token
func AcquireAccount(t *testing.T, app *fiber.App, name, email, role string) Account {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"name":     name,
		"email":    email,
		"password": GeneratePassword(),
		"role":     role,
	})
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute register request: %v", err)
	}
	AssertStatus(t, resp, fiber.StatusCreated)

	var result struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	ParseJSON(t, resp, &result)

	if result.Token == "" {
		t.Fatal("Register returned an empty token")
	}

	return Account{User: result.User, Token: result.Token}
}

// AuthedRequest builds a JSON request carrying the account's bearer token
func AuthedRequest(method, target string, body []byte, token string) *http.Request {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}
