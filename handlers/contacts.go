// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements find_contacts and shared contact output shaping
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/rolodex/db"
	"github.com/harperreed/rolodex/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ContactHandlers struct {
	db *sql.DB
}

func NewContactHandlers(database *sql.DB) *ContactHandlers {
	return &ContactHandlers{db: database}
}

type ContactOutput struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name,omitempty"`
	PrimaryEmail   string `json:"primary_email,omitempty"`
	SecondaryEmail string `json:"secondary_email,omitempty"`
	PrimaryPhone   string `json:"primary_phone,omitempty"`
	SecondaryPhone string `json:"secondary_phone,omitempty"`
	Title          string `json:"title,omitempty"`
	Company        string `json:"company,omitempty"`
	LinkedinURL    string `json:"linkedin_url,omitempty"`
	WebsiteURL     string `json:"website_url,omitempty"`
	StreetAddress  string `json:"street_address,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	ZipCode        string `json:"zip_code,omitempty"`
	Country        string `json:"country,omitempty"`
	ReferredBy     string `json:"referred_by,omitempty"`
	Notes          string `json:"notes,omitempty"`
	Expertise      string `json:"expertise,omitempty"`
	Interests      string `json:"interests,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type FindContactsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query (searches name, email, and company)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *ContactHandlers) FindContacts(_ context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	contacts, err := db.FindContacts(h.db, input.Query, limit)
	if err != nil {
		return nil, FindContactsOutput{}, fmt.Errorf("failed to find contacts: %w", err)
	}

	result := make([]ContactOutput, len(contacts))
	for i, contact := range contacts {
		result[i] = contactToOutput(&contact)
	}

	return nil, FindContactsOutput{Contacts: result}, nil
}

func contactToOutput(contact *models.Contact) ContactOutput {
	return ContactOutput{
		ID:             contact.ID.String(),
		FirstName:      contact.FirstName,
		LastName:       contact.LastName,
		PrimaryEmail:   contact.PrimaryEmail,
		SecondaryEmail: contact.SecondaryEmail,
		PrimaryPhone:   contact.PrimaryPhone,
		SecondaryPhone: contact.SecondaryPhone,
		Title:          contact.Title,
		Company:        contact.Company,
		LinkedinURL:    contact.LinkedinURL,
		WebsiteURL:     contact.WebsiteURL,
		StreetAddress:  contact.StreetAddress,
		City:           contact.City,
		State:          contact.State,
		ZipCode:        contact.ZipCode,
		Country:        contact.Country,
		ReferredBy:     contact.ReferredBy,
		Notes:          contact.Notes,
		Expertise:      contact.Expertise,
		Interests:      contact.Interests,
		CreatedAt:      contact.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      contact.UpdatedAt.Format(time.RFC3339),
	}
}
