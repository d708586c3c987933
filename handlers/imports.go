// ABOUTME: Import MCP tool handlers
// ABOUTME: Implements import_vcard, analyze_csv, and import_csv tools
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harperreed/rolodex/csvimport"
	"github.com/harperreed/rolodex/importer"
	"github.com/harperreed/rolodex/models"
	"github.com/harperreed/rolodex/phone"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ImportHandlers struct {
	db           *sql.DB
	phones       *phone.Normalizer
	foldUnmapped bool
}

// NewImportHandlers creates import tools. foldUnmapped is the default when a
// call does not set fold_unmapped.
func NewImportHandlers(database *sql.DB, phones *phone.Normalizer, foldUnmapped bool) *ImportHandlers {
	return &ImportHandlers{db: database, phones: phones, foldUnmapped: foldUnmapped}
}

type ContactConflictsOutput struct {
	ContactID   string                 `json:"contact_id"`
	TempID      string                 `json:"temp_id"`
	DisplayName string                 `json:"display_name"`
	Conflicts   []models.FieldConflict `json:"conflicts"`
}

type ImportOutput struct {
	BatchID     string                   `json:"batch_id,omitempty"`
	Source      string                   `json:"source"`
	Filename    string                   `json:"filename,omitempty"`
	TotalInFile int                      `json:"total_in_file"`
	Created     int                      `json:"created"`
	Updated     int                      `json:"updated"`
	Unchanged   int                      `json:"unchanged"`
	DryRun      bool                     `json:"dry_run,omitempty"`
	Skipped     []models.SkippedEntry    `json:"skipped"`
	Conflicts   []ContactConflictsOutput `json:"conflicts"`
}

type ImportVCardInput struct {
	Path        string `json:"path,omitempty" jsonschema:"Path to a .vcf file (use this or content)"`
	Content     string `json:"content,omitempty" jsonschema:"Raw vCard text (use this or path)"`
	Filename    string `json:"filename,omitempty" jsonschema:"Filename to record with the import"`
	DryRun      bool   `json:"dry_run,omitempty" jsonschema:"Report what would change without writing"`
	MatchByName bool   `json:"match_by_name,omitempty" jsonschema:"Match existing contacts by normalized name when no email matches"`
}

func (h *ImportHandlers) ImportVCard(ctx context.Context, request *mcp.CallToolRequest, input ImportVCardInput) (*mcp.CallToolResult, ImportOutput, error) {
	data, filename, err := loadSource(input.Path, input.Content, input.Filename)
	if err != nil {
		return nil, ImportOutput{}, err
	}

	im := importer.New(h.db, h.phones, importer.Options{DryRun: input.DryRun, MatchByName: input.MatchByName})
	summary, err := im.ImportVCard(ctx, data, filename)
	if err != nil {
		return nil, ImportOutput{}, fmt.Errorf("failed to import vcard: %w", err)
	}

	return nil, summaryToOutput(summary), nil
}

type AnalyzeCSVInput struct {
	Path    string `json:"path,omitempty" jsonschema:"Path to a .csv file (use this or content)"`
	Content string `json:"content,omitempty" jsonschema:"Raw CSV text (use this or path)"`
}

type AnalyzeCSVOutput struct {
	TotalRows       int                     `json:"total_rows"`
	Columns         []models.ColumnAnalysis `json:"columns"`
	MappedColumns   []models.ColumnAnalysis `json:"mapped_columns"`
	UnmappedColumns []models.ColumnAnalysis `json:"unmapped_columns"`
	EmptyColumns    []models.ColumnAnalysis `json:"empty_columns"`
}

func (h *ImportHandlers) AnalyzeCSV(_ context.Context, request *mcp.CallToolRequest, input AnalyzeCSVInput) (*mcp.CallToolResult, AnalyzeCSVOutput, error) {
	data, _, err := loadSource(input.Path, input.Content, "")
	if err != nil {
		return nil, AnalyzeCSVOutput{}, err
	}

	header, rows, err := csvimport.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, AnalyzeCSVOutput{}, err
	}

	a := csvimport.AnalyzeColumns(header, rows)
	return nil, AnalyzeCSVOutput{
		TotalRows:       a.TotalRows,
		Columns:         a.Columns,
		MappedColumns:   a.MappedColumns,
		UnmappedColumns: a.UnmappedColumns,
		EmptyColumns:    a.EmptyColumns,
	}, nil
}

type ImportCSVInput struct {
	Path         string            `json:"path,omitempty" jsonschema:"Path to a .csv file (use this or content)"`
	Content      string            `json:"content,omitempty" jsonschema:"Raw CSV text (use this or path)"`
	Filename     string            `json:"filename,omitempty" jsonschema:"Filename to record with the import"`
	Mapping      map[string]string `json:"mapping,omitempty" jsonschema:"Column overrides: column index or header name to field name (empty or none unmaps)"`
	FoldUnmapped *bool             `json:"fold_unmapped,omitempty" jsonschema:"Append unmapped columns to notes as [Header: value]"`
	DryRun       bool              `json:"dry_run,omitempty" jsonschema:"Report what would change without writing"`
	MatchByName  bool              `json:"match_by_name,omitempty" jsonschema:"Match existing contacts by normalized name when no email matches"`
}

func (h *ImportHandlers) ImportCSV(ctx context.Context, request *mcp.CallToolRequest, input ImportCSVInput) (*mcp.CallToolResult, ImportOutput, error) {
	data, filename, err := loadSource(input.Path, input.Content, input.Filename)
	if err != nil {
		return nil, ImportOutput{}, err
	}

	fold := h.foldUnmapped
	if input.FoldUnmapped != nil {
		fold = *input.FoldUnmapped
	}

	im := importer.New(h.db, h.phones, importer.Options{DryRun: input.DryRun, MatchByName: input.MatchByName})
	summary, err := im.ImportCSV(ctx, bytes.NewReader(data), filename, input.Mapping, csvimport.Options{FoldUnmapped: fold})
	if err != nil {
		return nil, ImportOutput{}, fmt.Errorf("failed to import csv: %w", err)
	}

	return nil, summaryToOutput(summary), nil
}

// loadSource reads path or returns content. Exactly one must be set.
func loadSource(path, content, filename string) ([]byte, string, error) {
	switch {
	case path != "" && content != "":
		return nil, "", fmt.Errorf("provide either path or content, not both")
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		if filename == "" {
			filename = filepath.Base(path)
		}
		return data, filename, nil
	case content != "":
		return []byte(content), filename, nil
	default:
		return nil, "", fmt.Errorf("path or content is required")
	}
}

func summaryToOutput(s *importer.Summary) ImportOutput {
	out := ImportOutput{
		BatchID:     s.BatchID,
		Source:      s.Source,
		Filename:    s.Filename,
		TotalInFile: s.TotalInFile,
		Created:     s.Created,
		Updated:     s.Updated,
		Unchanged:   s.Unchanged,
		DryRun:      s.DryRun,
		Skipped:     s.Skipped,
		Conflicts:   make([]ContactConflictsOutput, len(s.Conflicts)),
	}
	for i, cc := range s.Conflicts {
		out.Conflicts[i] = ContactConflictsOutput{
			ContactID:   cc.ContactID.String(),
			TempID:      cc.TempID,
			DisplayName: cc.DisplayName,
			Conflicts:   cc.Conflicts,
		}
	}
	return out
}
