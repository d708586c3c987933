// ABOUTME: Conflict review CLI commands
// ABOUTME: Lists pending field conflicts and applies accept or reject decisions
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/rolodex/config"
	"github.com/harperreed/rolodex/db"
	"github.com/harperreed/rolodex/importer"
	"github.com/harperreed/rolodex/models"
	"github.com/harperreed/rolodex/phone"
	"github.com/harperreed/rolodex/tui"
)

// ConflictsCommand routes `conflicts list|accept|reject`.
func ConflictsCommand(ctx context.Context, database *sql.DB, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return listConflicts(database, nil)
	}

	switch args[0] {
	case "list":
		return listConflicts(database, args[1:])
	case "accept":
		return resolveConflict(ctx, database, cfg, args[1:], true)
	case "reject":
		return resolveConflict(ctx, database, cfg, args[1:], false)
	case "review":
		return reviewConflicts(database, cfg, args[1:])
	default:
		return fmt.Errorf("unknown conflicts command: %s", args[0])
	}
}

func listConflicts(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("conflicts list", flag.ExitOnError)
	batch := fs.String("batch", "", "Only conflicts from this import batch")
	status := fs.String("status", models.ConflictPending, "pending, accepted, rejected, or all")
	_ = fs.Parse(args)

	filter := *status
	if filter == "all" {
		filter = ""
	}

	conflicts, err := db.ListConflicts(database, *batch, filter)
	if err != nil {
		return fmt.Errorf("failed to list conflicts: %w", err)
	}

	if len(conflicts) == 0 {
		fmt.Println("No conflicts found")
		return nil
	}

	printConflicts(conflicts)
	fmt.Printf("\nTotal: %d conflict(s)\n", len(conflicts))
	return nil
}

func resolveConflict(ctx context.Context, database *sql.DB, cfg *config.Config, args []string, accept bool) error {
	if len(args) < 1 {
		return fmt.Errorf("conflict ID is required")
	}

	conflict, err := findConflict(database, args[0])
	if err != nil {
		return err
	}

	im := importer.New(database, phone.NewNormalizer(cfg.DefaultRegion), importer.Options{})
	contact, err := im.Resolve(ctx, conflict.ID, accept)
	if err != nil {
		return fmt.Errorf("failed to resolve conflict: %w", err)
	}

	if accept {
		fmt.Printf("✓ Accepted %s = %q for %s\n", conflict.Field, conflict.IncomingValue, displayName(contact))
	} else {
		fmt.Printf("✓ Kept %s = %q for %s\n", conflict.Field, conflict.ExistingValue, displayName(contact))
	}
	return nil
}

// reviewConflicts opens the interactive review screen.
func reviewConflicts(database *sql.DB, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("conflicts review", flag.ExitOnError)
	batch := fs.String("batch", "", "Only conflicts from this import batch")
	_ = fs.Parse(args)

	im := importer.New(database, phone.NewNormalizer(cfg.DefaultRegion), importer.Options{})
	if _, err := tea.NewProgram(tui.NewModel(database, im, *batch), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run review: %w", err)
	}
	return nil
}

// findConflict accepts a full UUID or the short prefix shown by `conflicts list`.
func findConflict(database *sql.DB, ref string) (*models.StoredConflict, error) {
	if id, err := parseUUID(ref); err == nil {
		c, err := db.GetConflict(database, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get conflict: %w", err)
		}
		if c == nil {
			return nil, fmt.Errorf("conflict not found: %s", ref)
		}
		return c, nil
	}

	pending, err := db.ListConflicts(database, "", models.ConflictPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}

	var found *models.StoredConflict
	for i := range pending {
		if hasPrefix(pending[i].ID.String(), ref) {
			if found != nil {
				return nil, fmt.Errorf("conflict ID prefix %q is ambiguous", ref)
			}
			found = &pending[i]
		}
	}
	if found == nil {
		return nil, fmt.Errorf("no pending conflict matches %s", ref)
	}
	return found, nil
}
