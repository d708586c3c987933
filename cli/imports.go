// ABOUTME: Import and analyze CLI commands
// ABOUTME: Runs vCard and CSV files through the import engine and prints a report
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/harperreed/rolodex/config"
	"github.com/harperreed/rolodex/csvimport"
	"github.com/harperreed/rolodex/importer"
	"github.com/harperreed/rolodex/models"
	"github.com/harperreed/rolodex/phone"
)

// mapFlags collects repeated --map column=field values.
type mapFlags []string

func (m *mapFlags) String() string { return strings.Join(*m, ",") }

func (m *mapFlags) Set(v string) error {
	*m = append(*m, v)
	return nil
}

// ImportCommand routes `import vcard` and `import csv`.
func ImportCommand(ctx context.Context, database *sql.DB, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("import requires a format: vcard or csv")
	}

	switch args[0] {
	case "vcard", "vcf":
		return importVCard(ctx, database, cfg, args[1:])
	case "csv":
		return importCSV(ctx, database, cfg, args[1:])
	default:
		return fmt.Errorf("unknown import format: %s", args[0])
	}
}

func importVCard(ctx context.Context, database *sql.DB, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("import vcard", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "Report what would change without writing")
	byName := fs.Bool("match-by-name", false, "Match existing contacts by name when no email matches")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("vcard file path is required")
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	im := importer.New(database, phone.NewNormalizer(cfg.DefaultRegion), importer.Options{DryRun: *dryRun, MatchByName: *byName})
	summary, err := im.ImportVCard(ctx, data, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to import vcard: %w", err)
	}

	printSummary(summary)
	return nil
}

func importCSV(ctx context.Context, database *sql.DB, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("import csv", flag.ExitOnError)
	var maps mapFlags
	fs.Var(&maps, "map", "Override a column mapping as column=field (repeatable; column is an index or header)")
	fold := fs.Bool("fold-unmapped", cfg.FoldUnmapped, "Append unmapped columns to notes")
	dryRun := fs.Bool("dry-run", false, "Report what would change without writing")
	byName := fs.Bool("match-by-name", false, "Match existing contacts by name when no email matches")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("csv file path is required")
	}
	path := fs.Arg(0)

	columnMap, err := csvimport.ParseMapFlags(maps)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	im := importer.New(database, phone.NewNormalizer(cfg.DefaultRegion), importer.Options{DryRun: *dryRun, MatchByName: *byName})
	summary, err := im.ImportCSV(ctx, f, filepath.Base(path), columnMap, csvimport.Options{FoldUnmapped: *fold})
	if err != nil {
		return fmt.Errorf("failed to import csv: %w", err)
	}

	printSummary(summary)
	return nil
}

func printSummary(s *importer.Summary) {
	title := fmt.Sprintf("Import %s", s.Source)
	if s.Filename != "" {
		title += ": " + s.Filename
	}
	if s.DryRun {
		title += " (dry run)"
	}
	fmt.Println(titleStyle.Render(title))

	fmt.Println(okStyle.Render(fmt.Sprintf("✓ Created %d, updated %d, unchanged %d of %d in file",
		s.Created, s.Updated, s.Unchanged, s.TotalInFile)))
	if s.BatchID != "" {
		fmt.Println(dimStyle.Render("  Batch: " + s.BatchID))
	}

	if len(s.Skipped) > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Skipped %d:", len(s.Skipped))))
		for _, sk := range s.Skipped {
			line := fmt.Sprintf("  #%d %s", sk.Index, sk.Reason)
			if sk.Preview != "" {
				line += "  " + dimStyle.Render(sk.Preview)
			}
			fmt.Println(line)
		}
	}

	if len(s.Conflicts) > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Conflicts on %d contact(s):", len(s.Conflicts))))
		for _, cc := range s.Conflicts {
			fmt.Printf("  %s\n", cc.DisplayName)
			for _, fc := range cc.Conflicts {
				fmt.Printf("    %s: %q -> %q\n", fc.Field, fc.ExistingValue, fc.IncomingValue)
			}
		}
		if !s.DryRun {
			fmt.Println(dimStyle.Render("  Review with: rolodex conflicts list --batch " + s.BatchID))
		}
	}
}

// AnalyzeCommand routes `analyze csv`.
func AnalyzeCommand(args []string) error {
	if len(args) == 0 || args[0] != "csv" {
		return fmt.Errorf("analyze supports: csv")
	}

	fs := flag.NewFlagSet("analyze csv", flag.ExitOnError)
	var maps mapFlags
	fs.Var(&maps, "map", "Preview a column override as column=field (repeatable)")
	_ = fs.Parse(args[1:])

	if fs.NArg() < 1 {
		return fmt.Errorf("csv file path is required")
	}
	path := fs.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	header, rows, err := csvimport.ReadAll(f)
	if err != nil {
		return err
	}

	columnMap, err := csvimport.ParseMapFlags(maps)
	if err != nil {
		return err
	}
	overrides, err := csvimport.ParseOverrides(header, columnMap)
	if err != nil {
		return err
	}

	analysis := csvimport.AnalyzeColumns(header, rows)
	mapping, unmapped := csvimport.FinalMapping(analysis, overrides)

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s: %d rows, %d columns", filepath.Base(path), analysis.TotalRows, len(analysis.Columns))))
	fmt.Println(renderAnalysis(analysis, mapping))

	if len(unmapped) > 0 {
		names := make([]string, len(unmapped))
		for i, col := range unmapped {
			names[i] = col.Header
		}
		fmt.Println(warnStyle.Render("Unmapped: " + strings.Join(names, ", ")))
	}
	if len(analysis.EmptyColumns) > 0 {
		fmt.Println(dimStyle.Render(fmt.Sprintf("%d empty column(s) hidden", len(analysis.EmptyColumns))))
	}

	return nil
}

func renderAnalysis(a *csvimport.Analysis, mapping map[int]models.CanonicalField) string {
	t := newTable("#", "HEADER", "FIELD", "CONFIDENCE", "FILLED", "SAMPLE", "NOTE")

	confidences := make([]models.Confidence, 0, len(a.PopulatedColumns))
	for _, col := range a.PopulatedColumns {
		field := "-"
		if f, ok := mapping[col.Index]; ok {
			field = string(f)
		}

		note := ""
		switch {
		case col.Skipped:
			note = "ignored"
		case col.DemotedFrom != "":
			note = "lost " + string(col.DemotedFrom)
		}
		if f, ok := mapping[col.Index]; ok && f != col.SuggestedField {
			note = "override"
		}

		t.Row(
			strconv.Itoa(col.Index),
			col.Header,
			field,
			string(col.Confidence),
			fmt.Sprintf("%d%%", col.Percentage),
			truncate(col.SampleValue, 30),
			note,
		)
		confidences = append(confidences, col.Confidence)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerCell
		}
		if col == 3 && row < len(confidences) {
			return confidenceStyle(confidences[row])
		}
		return cell
	})

	return t.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
