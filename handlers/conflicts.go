// ABOUTME: Conflict MCP tool handlers
// ABOUTME: Implements detect_conflicts, list_conflicts, and resolve_conflict tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/rolodex/db"
	"github.com/harperreed/rolodex/importer"
	"github.com/harperreed/rolodex/models"
	"github.com/harperreed/rolodex/phone"
	"github.com/harperreed/rolodex/reconcile"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ConflictHandlers struct {
	db     *sql.DB
	phones *phone.Normalizer
}

func NewConflictHandlers(database *sql.DB, phones *phone.Normalizer) *ConflictHandlers {
	return &ConflictHandlers{db: database, phones: phones}
}

type DetectConflictsInput struct {
	ContactID string            `json:"contact_id" jsonschema:"Existing contact ID (required)"`
	Incoming  map[string]string `json:"incoming" jsonschema:"Incoming record as field name to value (e.g. company, primary_phone)"`
}

type DetectConflictsOutput struct {
	Conflicts []models.FieldConflict `json:"conflicts"`
}

func (h *ConflictHandlers) DetectConflicts(_ context.Context, request *mcp.CallToolRequest, input DetectConflictsInput) (*mcp.CallToolResult, DetectConflictsOutput, error) {
	if input.ContactID == "" {
		return nil, DetectConflictsOutput{}, fmt.Errorf("contact_id is required")
	}

	contactID, err := uuid.Parse(input.ContactID)
	if err != nil {
		return nil, DetectConflictsOutput{}, fmt.Errorf("invalid contact_id: %w", err)
	}

	existing, err := db.GetContact(h.db, contactID)
	if err != nil {
		return nil, DetectConflictsOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if existing == nil {
		return nil, DetectConflictsOutput{}, fmt.Errorf("contact not found")
	}

	incoming := &models.ParsedContact{}
	for name, value := range input.Incoming {
		field, err := models.ParseField(name)
		if err != nil {
			return nil, DetectConflictsOutput{}, err
		}
		incoming.Set(field, value)
	}

	conflicts := reconcile.NewDetector(h.phones).Detect(incoming, existing)
	return nil, DetectConflictsOutput{Conflicts: conflicts}, nil
}

type ConflictOutput struct {
	ID            string `json:"id"`
	BatchID       string `json:"batch_id"`
	ContactID     string `json:"contact_id"`
	Field         string `json:"field"`
	ExistingValue string `json:"existing_value"`
	IncomingValue string `json:"incoming_value"`
	Status        string `json:"status"`
}

type ListConflictsInput struct {
	BatchID string `json:"batch_id,omitempty" jsonschema:"Only conflicts from this import batch"`
	Status  string `json:"status,omitempty" jsonschema:"pending, accepted, or rejected (default pending)"`
}

type ListConflictsOutput struct {
	Conflicts []ConflictOutput `json:"conflicts"`
}

func (h *ConflictHandlers) ListConflicts(_ context.Context, request *mcp.CallToolRequest, input ListConflictsInput) (*mcp.CallToolResult, ListConflictsOutput, error) {
	status := input.Status
	if status == "" {
		status = models.ConflictPending
	}

	conflicts, err := db.ListConflicts(h.db, input.BatchID, status)
	if err != nil {
		return nil, ListConflictsOutput{}, err
	}

	out := make([]ConflictOutput, len(conflicts))
	for i, c := range conflicts {
		out[i] = ConflictOutput{
			ID:            c.ID.String(),
			BatchID:       c.BatchID,
			ContactID:     c.ContactID.String(),
			Field:         string(c.Field),
			ExistingValue: c.ExistingValue,
			IncomingValue: c.IncomingValue,
			Status:        c.Status,
		}
	}

	return nil, ListConflictsOutput{Conflicts: out}, nil
}

type ResolveConflictInput struct {
	ConflictID string `json:"conflict_id" jsonschema:"Conflict ID (required)"`
	Accept     bool   `json:"accept" jsonschema:"true applies the incoming value, false keeps the existing one"`
}

func (h *ConflictHandlers) ResolveConflict(ctx context.Context, request *mcp.CallToolRequest, input ResolveConflictInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ConflictID == "" {
		return nil, ContactOutput{}, fmt.Errorf("conflict_id is required")
	}

	conflictID, err := uuid.Parse(input.ConflictID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("invalid conflict_id: %w", err)
	}

	contact, err := importer.New(h.db, h.phones, importer.Options{}).Resolve(ctx, conflictID, input.Accept)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to resolve conflict: %w", err)
	}

	return nil, contactToOutput(contact), nil
}
