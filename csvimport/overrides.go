// ABOUTME: Parsing of user-supplied column mapping overrides
// ABOUTME: Accepts column indexes or header names mapped to canonical field names
package csvimport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/rolodex/models"
)

// ParseOverrides resolves "column=field" style overrides against a header.
// Columns may be a zero-based index or a header name (case-insensitive).
// A field of "", "-", or "none" unmaps the column.
func ParseOverrides(header []string, columnMap map[string]string) (map[int]models.CanonicalField, error) {
	overrides := make(map[int]models.CanonicalField, len(columnMap))

	for col, value := range columnMap {
		idx, err := resolveColumn(header, col)
		if err != nil {
			return nil, err
		}

		value = strings.TrimSpace(value)
		switch strings.ToLower(value) {
		case "", "-", "none":
			overrides[idx] = ""
			continue
		}

		field, err := models.ParseField(value)
		if err != nil {
			return nil, fmt.Errorf("invalid mapping for column %q: %w", col, err)
		}
		overrides[idx] = field
	}

	return overrides, nil
}

func resolveColumn(header []string, col string) (int, error) {
	col = strings.TrimSpace(col)
	if idx, err := strconv.Atoi(col); err == nil {
		if idx < 0 || idx >= len(header) {
			return 0, fmt.Errorf("column index %d out of range", idx)
		}
		return idx, nil
	}

	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), col) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no column named %q", col)
}

// ParseMapFlags splits repeated "column=field" flag values into a column map.
func ParseMapFlags(values []string) (map[string]string, error) {
	columnMap := make(map[string]string, len(values))
	for _, v := range values {
		col, field, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(col) == "" {
			return nil, fmt.Errorf("invalid mapping %q: want column=field", v)
		}
		columnMap[strings.TrimSpace(col)] = strings.TrimSpace(field)
	}
	return columnMap, nil
}
