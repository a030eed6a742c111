package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserSerializationHidesPassword(t *testing.T) {
	u := User{ID: "u1", Name: "Jo Agent", Email: "jo@example.com", PasswordHash: "$argon2id$...", Role: RoleAgent}

	out, err := json.Marshal(&u)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "argon2id")
	assert.NotContains(t, string(out), "password")
}

func TestUserValidate(t *testing.T) {
	u := User{Name: "Jo", Email: "jo@example.com", Role: "superuser"}
	violations := u.Validate()
	require.Len(t, violations, 1)
	assert.Equal(t, "role", violations[0].Field)

	u.Role = RoleAgent
	assert.Empty(t, u.Validate())
}

func TestClientNormalizeLowercasesEmail(t *testing.T) {
	c := Client{Name: "  Pat Buyer ", Email: " Pat@Example.COM ", Type: ContactBuyer, AssignedAgentID: "a1"}
	c.Normalize()

	assert.Equal(t, "Pat Buyer", c.Name)
	assert.Equal(t, "pat@example.com", c.Email)
	assert.Equal(t, ClientStatusActive, c.Status)
	assert.Equal(t, SourceWebsite, c.Source)
	assert.Empty(t, c.Validate())
}

func TestClientAddNoteAndDocument(t *testing.T) {
	now := time.Now()
	c := Client{}

	c.AddNote("called about the lake house", "u1", now)
	c.AddDocument("contract.pdf", "https://files/contract.pdf", "contract", now)

	require.Len(t, c.Notes, 1)
	assert.Equal(t, "u1", c.Notes[0].CreatedBy)
	assert.Equal(t, now, c.Notes[0].CreatedAt)
	require.Len(t, c.Documents, 1)
	assert.Equal(t, "contract.pdf", c.Documents[0].Name)
}

func TestClientAddPropertyIsIdempotent(t *testing.T) {
	c := Client{}
	c.AddProperty("p1")
	c.AddProperty("p1")
	c.AddProperty("p2")
	assert.Equal(t, StringList{"p1", "p2"}, c.Properties)
}

func TestLeadConvert(t *testing.T) {
	now := time.Now()
	l := Lead{Status: LeadStatusQualified}

	l.Convert("client-1", now)

	assert.Equal(t, LeadStatusConverted, l.Status)
	assert.True(t, l.Converted())
	require.NotNil(t, l.ConvertedTo)
	assert.Equal(t, "client-1", *l.ConvertedTo)
	require.NotNil(t, l.ConversionDate)
	assert.Equal(t, now, *l.ConversionDate)
}

func TestLeadSetStatusStampsConversionDate(t *testing.T) {
	now := time.Now()
	l := Lead{Status: LeadStatusNew}

	l.SetStatus(LeadStatusContacted, now)
	assert.Nil(t, l.ConversionDate)

	l.SetStatus(LeadStatusConverted, now)
	require.NotNil(t, l.ConversionDate)
}

func TestLeadValidateEnums(t *testing.T) {
	l := Lead{Name: "A Lead", Email: "lead@example.com", Source: "billboard", Status: LeadStatusNew, Type: ContactBuyer}
	violations := l.Validate()
	require.Len(t, violations, 1)
	assert.Equal(t, "source", violations[0].Field)
}

func TestPropertyCounters(t *testing.T) {
	p := Property{}
	p.IncrementViews()
	p.IncrementViews()
	p.IncrementFavorites()
	assert.Equal(t, uint64(2), p.Views)
	assert.Equal(t, uint64(1), p.Favorites)
}

func TestPropertyValidateRejectsNegativePrice(t *testing.T) {
	p := Property{
		Title:       "Test Listing",
		Description: "desc",
		Type:        PropertyResidential,
		Status:      PropertyStatusAvailable,
		Price:       -1,
		Address:     Address{Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "USA"},
		AgentID:     "a1",
	}
	violations := p.Validate()
	require.Len(t, violations, 1)
	assert.Equal(t, "price", violations[0].Field)
}

func TestFeaturesAcceptStringNumbers(t *testing.T) {
	var f Features
	err := json.Unmarshal([]byte(`{"bedrooms":"3","bathrooms":2.5,"squareFeet":1800}`), &f)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), f.Bedrooms.Uint64())
	assert.Equal(t, 2.5, f.Bathrooms)
	assert.Equal(t, uint64(1800), f.SquareFeet.Uint64())
}
