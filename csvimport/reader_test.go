// ABOUTME: Tests for CSV tokenization
// ABOUTME: Covers byte-order marks, ragged rows, and quoted fields
package csvimport

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAll(t *testing.T) {
	input := "\ufeffFirst Name, Last Name ,Notes\n" +
		"Jane,Doe,\"likes tea, and biscuits\"\n" +
		"John\n" +
		"Ann,Lee,\"multi\nline\",extra\n"

	header, rows, err := ReadAll(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"First Name", "Last Name", "Notes"}, header)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Jane", "Doe", "likes tea, and biscuits"}, rows[0])
	assert.Equal(t, []string{"John"}, rows[1])
	assert.Equal(t, []string{"Ann", "Lee", "multi\nline", "extra"}, rows[2])
}

func TestReadAllHeaderOnly(t *testing.T) {
	header, rows, err := ReadAll(strings.NewReader("Email,Phone\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Email", "Phone"}, header)
	assert.Empty(t, rows)
}

func TestReadAllEmpty(t *testing.T) {
	_, _, err := ReadAll(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrNoHeader))

	_, _, err = ReadAll(strings.NewReader("\ufeff"))
	assert.True(t, errors.Is(err, ErrNoHeader))
}
