// ABOUTME: Entry point for the rolodex CLI and MCP server
// ABOUTME: Loads config, opens the database, and routes to subcommands
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/harperreed/rolodex/cli"
	"github.com/harperreed/rolodex/config"
	"github.com/harperreed/rolodex/db"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/rolodex/rolodex.db)")
	configPath := flag.String("config", "", "Config file (default: ~/.config/rolodex/config.json)")
	flag.Usage = printUsage

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("rolodex version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfgFile := *configPath
	if cfgFile == "" {
		cfgFile = config.Path()
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	cfg.ApplyLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := args[0]
	commandArgs := args[1:]

	// Commands that never touch the database
	switch command {
	case "analyze":
		run(cli.AnalyzeCommand(commandArgs))
		return
	case "config":
		run(cli.ConfigCommand(cfg, cfgFile, commandArgs))
		return
	case "help":
		printUsage()
		return
	}

	database := openDatabase(cfg)
	defer func() { _ = database.Close() }()

	switch command {
	case "mcp":
		if err := cli.MCPCommand(ctx, database, cfg, version); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}
	case "import":
		run(cli.ImportCommand(ctx, database, cfg, commandArgs))
	case "contacts":
		run(cli.ContactsCommand(database, commandArgs))
	case "imports":
		run(cli.ImportsCommand(database, commandArgs))
	case "conflicts":
		run(cli.ConflictsCommand(ctx, database, cfg, commandArgs))
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		_ = database.Close()
		os.Exit(1)
	}
}

func openDatabase(cfg *config.Config) *sql.DB {
	path := cfg.DatabasePath()
	database, err := db.OpenDatabase(path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	log.Debug("opened database", "path", path)
	return database
}

func run(err error) {
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func printUsage() {
	fmt.Printf(`rolodex v%s - contact import and reconciliation

USAGE:
  rolodex [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/rolodex/rolodex.db)
  --config <path>        Config file (default: ~/.config/rolodex/config.json)

COMMANDS:
  import vcard [flags] <file.vcf>   Import a vCard file
    --dry-run                         Report changes without writing
    --match-by-name                   Match by name when no email matches

  import csv [flags] <file.csv>     Import a CSV export
    --map <column=field>              Override a column mapping (repeatable;
                                      column is a header or 0-based index,
                                      field "none" unmaps the column)
    --fold-unmapped                   Append unmapped columns to notes
    --dry-run                         Report changes without writing
    --match-by-name                   Match by name when no email matches

  analyze csv [--map ...] <file>    Show how each CSV column would map

  contacts list [--query q] [--limit n]
  contacts show <id>

  imports list [--limit n]          Recent import batches
  imports show <batch>              Batch details with skipped rows

  conflicts list [--batch id] [--status pending|accepted|rejected|all]
  conflicts accept <id>             Overwrite the stored value
  conflicts reject <id>             Keep the stored value
  conflicts review [--batch id]     Review pending conflicts interactively

  config show                       Print the effective configuration
  config init [--force]             Write the config file

  mcp                               Start the MCP server on stdio

ENVIRONMENT:
  ROLODEX_DB_PATH, ROLODEX_DEFAULT_REGION, ROLODEX_FOLD_UNMAPPED, ROLODEX_LOG_LEVEL
  (also read from a .env file in the working directory)

FIELDS:
  first_name last_name primary_email secondary_email primary_phone
  secondary_phone title company linkedin_url website_url street_address
  city state zip_code country referred_by notes
`, version)
}
