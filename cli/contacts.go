// ABOUTME: Contact CLI commands
// ABOUTME: Lists and searches the contacts produced by imports
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

// ContactsCommand routes `contacts list` and `contacts show`.
func ContactsCommand(database *sql.DB, args []string) error {
	if len(args) == 0 {
		return ListContactsCommand(database, nil)
	}

	switch args[0] {
	case "list":
		return ListContactsCommand(database, args[1:])
	case "show":
		return ShowContactCommand(database, args[1:])
	default:
		return fmt.Errorf("unknown contacts command: %s", args[0])
	}
}

// ListContactsCommand lists contacts, optionally filtered by a search query.
func ListContactsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("contacts list", flag.ExitOnError)
	query := fs.String("query", "", "Search by name, email, or company")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	var (
		contacts []models.Contact
		err      error
	)
	if *query == "" {
		contacts, err = db.ListAllContacts(database)
		if err == nil && *limit > 0 && len(contacts) > *limit {
			contacts = contacts[:*limit]
		}
	} else {
		contacts, err = db.FindContacts(database, *query, *limit)
	}
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	if len(contacts) == 0 {
		fmt.Println("No contacts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tCOMPANY")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t-----\t-------")

	for _, c := range contacts {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.ID.String()[:8],
			displayName(&c),
			c.PrimaryEmail,
			c.PrimaryPhone,
			c.Company,
		)
	}

	_ = w.Flush()
	fmt.Printf("\nTotal: %d contact(s)\n", len(contacts))

	return nil
}

// ShowContactCommand prints every populated field of one contact.
func ShowContactCommand(database *sql.DB, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("contact ID is required")
	}

	contact, err := resolveContact(database, args[0])
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(displayName(contact)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "id\t%s\n", contact.ID)
	for _, field := range models.CanonicalFields {
		if v := contact.Get(field); v != "" {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", field, v)
		}
	}
	_, _ = fmt.Fprintf(w, "updated\t%s\n", contact.UpdatedAt.Format("2006-01-02 15:04"))
	return w.Flush()
}

// resolveContact accepts a full UUID or an unambiguous ID prefix.
func resolveContact(database *sql.DB, ref string) (*models.Contact, error) {
	if id, err := parseUUID(ref); err == nil {
		contact, err := db.GetContact(database, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get contact: %w", err)
		}
		if contact == nil {
			return nil, fmt.Errorf("contact not found: %s", ref)
		}
		return contact, nil
	}

	all, err := db.ListAllContacts(database)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	var found *models.Contact
	for i := range all {
		if hasPrefix(all[i].ID.String(), ref) {
			if found != nil {
				return nil, fmt.Errorf("contact ID prefix %q is ambiguous", ref)
			}
			found = &all[i]
		}
	}
	if found == nil {
		return nil, fmt.Errorf("contact not found: %s", ref)
	}
	return found, nil
}

func displayName(c *models.Contact) string {
	name := c.FirstName
	if c.LastName != "" {
		if name != "" {
			name += " "
		}
		name += c.LastName
	}
	return name
}
