// ABOUTME: MCP server subcommand
// ABOUTME: Exposes import, analysis, and conflict review as MCP tools over stdio
package cli

import (
	"context"
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/harperreed/rolodex/config"
	"github.com/harperreed/rolodex/handlers"
	"github.com/harperreed/rolodex/phone"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServer builds the server with every tool registered.
func NewMCPServer(database *sql.DB, cfg *config.Config, version string) *mcp.Server {
	phones := phone.NewNormalizer(cfg.DefaultRegion)

	contactHandlers := handlers.NewContactHandlers(database)
	importHandlers := handlers.NewImportHandlers(database, phones, cfg.FoldUnmapped)
	conflictHandlers := handlers.NewConflictHandlers(database, phones)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "rolodex",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "import_vcard",
		Description: "Import contacts from a vCard (.vcf) file path or inline content, merging into existing contacts by email",
	}, importHandlers.ImportVCard)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_csv",
		Description: "Profile a CSV export's columns and show which contact field each one maps to",
	}, importHandlers.AnalyzeCSV)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "import_csv",
		Description: "Import contacts from a CSV export, with optional column mapping overrides",
	}, importHandlers.ImportCSV)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect_conflicts",
		Description: "Compare an incoming record against a stored contact and list fields that disagree",
	}, conflictHandlers.DetectConflicts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_conflicts",
		Description: "List field conflicts recorded by imports, optionally filtered by batch and status",
	}, conflictHandlers.ListConflicts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_conflict",
		Description: "Accept or reject a pending conflict; accepting overwrites the stored value",
	}, conflictHandlers.ResolveConflict)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search contacts by name, email, or company",
	}, contactHandlers.FindContacts)

	return server
}

// MCPCommand starts the MCP server on stdio.
func MCPCommand(ctx context.Context, database *sql.DB, cfg *config.Config, version string) error {
	log.Info("starting MCP server", "version", version)
	return NewMCPServer(database, cfg, version).Run(ctx, &mcp.StdioTransport{})
}
