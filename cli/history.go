// ABOUTME: Import history CLI commands
// ABOUTME: Lists recorded import batches and shows their skipped entries
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/rolodex/db"
	"github.com/harperreed/rolodex/models"
)

// ImportsCommand routes `imports list` and `imports show`.
func ImportsCommand(database *sql.DB, args []string) error {
	if len(args) == 0 {
		return listImports(database, nil)
	}

	switch args[0] {
	case "list":
		return listImports(database, args[1:])
	case "show":
		return showImport(database, args[1:])
	default:
		return fmt.Errorf("unknown imports command: %s", args[0])
	}
}

func listImports(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("imports list", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum batches to show")
	_ = fs.Parse(args)

	batches, err := db.ListImportBatches(database, *limit)
	if err != nil {
		return fmt.Errorf("failed to list imports: %w", err)
	}

	if len(batches) == 0 {
		fmt.Println("No imports recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "BATCH\tWHEN\tSOURCE\tFILE\tTOTAL\tNEW\tUPDATED\tSKIPPED\tCONFLICTS")
	_, _ = fmt.Fprintln(w, "-----\t----\t------\t----\t-----\t---\t-------\t-------\t---------")
	for _, b := range batches {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			b.ID,
			b.ImportedAt.Local().Format("2006-01-02 15:04"),
			b.Source,
			b.Filename,
			b.TotalInFile,
			b.Created,
			b.Updated,
			b.Skipped,
			b.Conflicts,
		)
	}
	return w.Flush()
}

func showImport(database *sql.DB, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("batch ID is required")
	}

	batch, err := db.GetImportBatch(database, args[0])
	if err != nil {
		return fmt.Errorf("failed to get import: %w", err)
	}
	if batch == nil {
		return fmt.Errorf("import not found: %s", args[0])
	}

	skips, err := db.GetImportSkips(database, batch.ID)
	if err != nil {
		return fmt.Errorf("failed to get skipped entries: %w", err)
	}

	conflicts, err := db.ListConflicts(database, batch.ID, "")
	if err != nil {
		return fmt.Errorf("failed to list conflicts: %w", err)
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Import %s", batch.ID)))
	fmt.Printf("Source:    %s %s\n", batch.Source, batch.Filename)
	fmt.Printf("When:      %s\n", batch.ImportedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("In file:   %d\n", batch.TotalInFile)
	fmt.Printf("Created:   %d\n", batch.Created)
	fmt.Printf("Updated:   %d\n", batch.Updated)
	fmt.Printf("Unchanged: %d\n", batch.Unchanged)

	if len(skips) > 0 {
		fmt.Println()
		fmt.Println(warnStyle.Render(fmt.Sprintf("Skipped (%d)", len(skips))))
		for _, s := range skips {
			fmt.Printf("  #%-4d %-12s %s\n", s.Index, s.Reason, s.Preview)
		}
	}

	if len(conflicts) > 0 {
		fmt.Println()
		fmt.Println(warnStyle.Render(fmt.Sprintf("Conflicts (%d)", len(conflicts))))
		printConflicts(conflicts)
	}

	return nil
}

func printConflicts(conflicts []models.StoredConflict) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tFIELD\tEXISTING\tINCOMING")
	_, _ = fmt.Fprintln(w, "--\t------\t-----\t--------\t--------")
	for _, c := range conflicts {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.ID.String()[:8],
			c.Status,
			c.Field,
			truncate(c.ExistingValue, 40),
			truncate(c.IncomingValue, 40),
		)
	}
	_ = w.Flush()
}
