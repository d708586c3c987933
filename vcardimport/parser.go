// ABOUTME: vCard batch parsing with per-entry skip reporting
// ABOUTME: Decodes a whole file, extracts each card, and drops in-file duplicates by primary email
package vcardimport

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/emersion/go-vcard"
	"github.com/harperreed/rolodex/models"
	"github.com/oklog/ulid/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const previewLength = 60

// Result partitions the entries of one vCard file.
// len(Contacts)+len(Skipped) == TotalInFile.
type Result struct {
	Contacts    []models.ParsedContact `json:"contacts"`
	Skipped     []models.SkippedEntry  `json:"skipped"`
	TotalInFile int                    `json:"total_in_file"`
}

// Parser turns vCard file contents into parsed contacts.
type Parser struct {
	extractor *Extractor
}

func NewParser(phones PhoneNormalizer) *Parser {
	return &Parser{extractor: NewExtractor(phones)}
}

// Parse decodes data and extracts every card in file order. A payload that
// cannot be decoded as a whole yields an empty result, not an error.
func (p *Parser) Parse(data []byte) *Result {
	result := &Result{
		Contacts: []models.ParsedContact{},
		Skipped:  []models.SkippedEntry{},
	}

	cards, err := decodeAll(data)
	if err != nil {
		log.Warn("vcard payload could not be decoded", "err", err)
		return result
	}

	result.TotalInFile = len(cards)
	seenEmails := make(map[string]struct{})
	entropy := ulid.DefaultEntropy()

	for i, card := range cards {
		pc, err := p.extractor.Extract(card)
		if err != nil {
			entry := models.SkippedEntry{Index: i, Reason: skipReason(err), Preview: preview(card)}
			log.Debug("skipping vcard entry", "index", i, "reason", entry.Reason, "err", err)
			result.Skipped = append(result.Skipped, entry)
			continue
		}

		if email := strings.ToLower(pc.PrimaryEmail); email != "" {
			if _, dup := seenEmails[email]; dup {
				log.Debug("skipping duplicate vcard entry", "index", i, "email", email)
				result.Skipped = append(result.Skipped, models.SkippedEntry{
					Index:   i,
					Reason:  models.SkipDuplicateInFile,
					Preview: preview(card),
				})
				continue
			}
			seenEmails[email] = struct{}{}
		}

		pc.TempID = ulid.MustNew(ulid.Now(), entropy).String()
		pc.SourceIndex = i
		result.Contacts = append(result.Contacts, *pc)
	}

	return result
}

// decodeAll strips a leading byte-order mark and decodes every card.
func decodeAll(data []byte) ([]vcard.Card, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	content, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(transform.Nop)))
	if err != nil {
		return nil, err
	}

	// Exporters pad cards with blank lines, which the decoder rejects.
	lines := strings.Split(string(content), "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	dec := vcard.NewDecoder(strings.NewReader(strings.Join(kept, "\n")))

	var cards []vcard.Card
	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func skipReason(err error) models.SkipReason {
	switch {
	case errors.Is(err, ErrNoName):
		return models.SkipNoName
	case errors.Is(err, ErrEmptyEntry):
		return models.SkipEmptyEntry
	default:
		return models.SkipParseError
	}
}

// preview is the formatted name plus first email, truncated.
func preview(card vcard.Card) string {
	email := ""
	if emails := card[vcard.FieldEmail]; len(emails) > 0 {
		email = emails[0].Value
	}
	s := strings.TrimSpace(card.Value(vcard.FieldFormattedName) + " " + email)
	s = strings.ToValidUTF8(s, "?")
	if s == "" {
		return "(empty)"
	}
	runes := []rune(s)
	if len(runes) > previewLength {
		return string(runes[:previewLength]) + "..."
	}
	return s
}
