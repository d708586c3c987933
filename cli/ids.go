// ABOUTME: ID parsing helpers for CLI arguments
// ABOUTME: Accepts full UUIDs and the short prefixes printed in listings
package cli

import (
	"strings"

	"github.com/google/uuid"
)

func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

func hasPrefix(id, prefix string) bool {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	return prefix != "" && strings.HasPrefix(id, prefix)
}
