package formatter

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textql/fquery/query"
)

func TestFormatParseError(t *testing.T) {
	color.NoColor = true

	_, err := query.Parse("one AND + two")
	require.Error(t, err)
	var perr *query.ParseError
	require.ErrorAs(t, err, &perr)

	expected := `error: expected a search term, not +
 --> position 8
  |
1 | one AND + two
  |         ^
`
	assert.Equal(t, expected, FormatParseError(perr))
}

func TestFormatParseErrorMultiline(t *testing.T) {
	color.NoColor = true

	_, err := query.Parse("one AND\ntwo)")
	require.Error(t, err)
	var perr *query.ParseError
	require.ErrorAs(t, err, &perr)

	expected := `error: unexpected ) after end of query
 --> position 11
  |
2 | two)
  |    ^
`
	assert.Equal(t, expected, FormatParseError(perr))
}

func TestFormatParseErrorAtEndOfInput(t *testing.T) {
	color.NoColor = true

	_, err := query.Parse("(one")
	require.Error(t, err)
	var perr *query.ParseError
	require.ErrorAs(t, err, &perr)

	expected := `error: expected closing )
 --> position 4
  |
1 | (one
  |     ^
`
	assert.Equal(t, expected, FormatParseError(perr))
}
