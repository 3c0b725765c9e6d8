package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "single bareword",
			input: "one",
			expected: []Token{
				{Kind: TokenString, Text: "one", Position: 0},
				{Kind: TokenEOF, Text: "", Position: 3},
			},
		},
		{
			name:  "whitespace is skipped",
			input: "\t one \r\n two ",
			expected: []Token{
				{Kind: TokenString, Text: "one", Position: 2},
				{Kind: TokenString, Text: "two", Position: 9},
				{Kind: TokenEOF, Text: "", Position: 13},
			},
		},
		{
			name:  "keywords are case sensitive",
			input: "one AND or NOT",
			expected: []Token{
				{Kind: TokenString, Text: "one", Position: 0},
				{Kind: TokenAnd, Text: "AND", Position: 4},
				{Kind: TokenString, Text: "or", Position: 8},
				{Kind: TokenNot, Text: "NOT", Position: 11},
				{Kind: TokenEOF, Text: "", Position: 14},
			},
		},
		{
			name:  "quoted string with escaped quote",
			input: `"one""two"`,
			expected: []Token{
				{Kind: TokenQuoted, Text: `one"two`, Position: 0},
				{Kind: TokenEOF, Text: "", Position: 10},
			},
		},
		{
			name:  "empty quoted string",
			input: `""`,
			expected: []Token{
				{Kind: TokenQuoted, Text: "", Position: 0},
				{Kind: TokenEOF, Text: "", Position: 2},
			},
		},
		{
			name:  "quoted keyword stays a string",
			input: `"AND"`,
			expected: []Token{
				{Kind: TokenQuoted, Text: "AND", Position: 0},
				{Kind: TokenEOF, Text: "", Position: 5},
			},
		},
		{
			name:  "single character tokens",
			input: `({}):,+*-^`,
			expected: []Token{
				{Kind: TokenLParen, Text: "(", Position: 0},
				{Kind: TokenLBrace, Text: "{", Position: 1},
				{Kind: TokenRBrace, Text: "}", Position: 2},
				{Kind: TokenRParen, Text: ")", Position: 3},
				{Kind: TokenColon, Text: ":", Position: 4},
				{Kind: TokenComma, Text: ",", Position: 5},
				{Kind: TokenPlus, Text: "+", Position: 6},
				{Kind: TokenStar, Text: "*", Position: 7},
				{Kind: TokenMinus, Text: "-", Position: 8},
				{Kind: TokenCaret, Text: "^", Position: 9},
				{Kind: TokenEOF, Text: "", Position: 10},
			},
		},
		{
			name:  "NEAR followed by paren is a keyword",
			input: "NEAR(a b)",
			expected: []Token{
				{Kind: TokenNear, Text: "NEAR", Position: 0},
				{Kind: TokenLParen, Text: "(", Position: 4},
				{Kind: TokenString, Text: "a", Position: 5},
				{Kind: TokenString, Text: "b", Position: 7},
				{Kind: TokenRParen, Text: ")", Position: 8},
				{Kind: TokenEOF, Text: "", Position: 9},
			},
		},
		{
			name:  "NEAR without paren is demoted to a string",
			input: "NEAR misses",
			expected: []Token{
				{Kind: TokenString, Text: "NEAR", Position: 0},
				{Kind: TokenString, Text: "misses", Position: 5},
				{Kind: TokenEOF, Text: "", Position: 11},
			},
		},
		{
			name:  "non-ascii and underscore barewords",
			input: "héllo wörld_1",
			expected: []Token{
				{Kind: TokenString, Text: "héllo", Position: 0},
				{Kind: TokenString, Text: "wörld_1", Position: 7},
				{Kind: TokenEOF, Text: "", Position: 15},
			},
		},
		{
			name:  "column filter lead-in",
			input: "-{title body}: x",
			expected: []Token{
				{Kind: TokenMinus, Text: "-", Position: 0},
				{Kind: TokenLBrace, Text: "{", Position: 1},
				{Kind: TokenString, Text: "title", Position: 2},
				{Kind: TokenString, Text: "body", Position: 8},
				{Kind: TokenRBrace, Text: "}", Position: 12},
				{Kind: TokenColon, Text: ":", Position: 13},
				{Kind: TokenString, Text: "x", Position: 15},
				{Kind: TokenEOF, Text: "", Position: 16},
			},
		},
		{
			name:  "empty input",
			input: "",
			expected: []Token{
				{Kind: TokenEOF, Text: "", Position: 0},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		position int
	}{
		{name: "unrecognized character", input: "one?", position: 3},
		{name: "unrecognized character at start", input: "!one", position: 0},
		{name: "unterminated quote", input: `one "two`, position: 4},
		{name: "quote escaped at end of input", input: `"two""`, position: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Tokenize(tt.input)
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.position, perr.Position)
			assert.Equal(t, tt.input, perr.Query)
		})
	}
}
