package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected Query
	}{
		{
			name:     "single phrase",
			input:    "one",
			expected: &Phrase{Text: "one"},
		},
		{
			name:     "quoted phrase",
			input:    `"rock ""n"" roll"`,
			expected: &Phrase{Text: `rock "n" roll`},
		},
		{
			name:  "adjacent phrases form a run",
			input: "one two",
			expected: &Phrases{Phrases: []*Phrase{
				{Text: "one"},
				{Text: "two"},
			}},
		},
		{
			name:  "phrase flags",
			input: "^one +two* three",
			expected: &Phrases{Phrases: []*Phrase{
				{Text: "one", Initial: true},
				{Text: "two", Sequence: true, Prefix: true},
				{Text: "three"},
			}},
		},
		{
			name:  "explicit AND flattens",
			input: "one AND two AND three",
			expected: &And{Queries: []Query{
				&Phrase{Text: "one"},
				&Phrase{Text: "two"},
				&Phrase{Text: "three"},
			}},
		},
		{
			name:  "explicit OR flattens",
			input: "one OR two OR three",
			expected: &Or{Queries: []Query{
				&Phrase{Text: "one"},
				&Phrase{Text: "two"},
				&Phrase{Text: "three"},
			}},
		},
		{
			name:     "redundant parens collapse",
			input:    "((((one))))",
			expected: &Phrase{Text: "one"},
		},
		{
			name:  "parens around operands are not recorded",
			input: "(one) OR (two)",
			expected: &Or{Queries: []Query{
				&Phrase{Text: "one"},
				&Phrase{Text: "two"},
			}},
		},
		{
			name:  "AND binds tighter than OR",
			input: "a OR b AND c",
			expected: &Or{Queries: []Query{
				&Phrase{Text: "a"},
				&And{Queries: []Query{&Phrase{Text: "b"}, &Phrase{Text: "c"}}},
			}},
		},
		{
			name:  "NOT binds tighter than AND",
			input: "a NOT b AND c",
			expected: &And{Queries: []Query{
				&Not{Match: &Phrase{Text: "a"}, NoMatch: &Phrase{Text: "b"}},
				&Phrase{Text: "c"},
			}},
		},
		{
			name:  "NOT is left associative",
			input: "a NOT b NOT c",
			expected: &Not{
				Match:   &Not{Match: &Phrase{Text: "a"}, NoMatch: &Phrase{Text: "b"}},
				NoMatch: &Phrase{Text: "c"},
			},
		},
		{
			name:  "parens override precedence",
			input: "(a OR b) AND c",
			expected: &And{Queries: []Query{
				&Or{Queries: []Query{&Phrase{Text: "a"}, &Phrase{Text: "b"}}},
				&Phrase{Text: "c"},
			}},
		},
		{
			name:  "phrase run binds tighter than explicit AND",
			input: "one two AND three",
			expected: &And{Queries: []Query{
				&Phrases{Phrases: []*Phrase{{Text: "one"}, {Text: "two"}}},
				&Phrase{Text: "three"},
			}},
		},
		{
			name:  "NEAR with default distance",
			input: "NEAR(one two)",
			expected: &Near{
				Phrases:  []*Phrase{{Text: "one"}, {Text: "two"}},
				Distance: 10,
			},
		},
		{
			name:  "NEAR with explicit distance",
			input: "NEAR(one two*, 5)",
			expected: &Near{
				Phrases:  []*Phrase{{Text: "one"}, {Text: "two", Prefix: true}},
				Distance: 5,
			},
		},
		{
			name:  "consecutive NEAR groups fold into implicit AND",
			input: "NEAR(a b) NEAR(c d, 2)",
			expected: &And{Queries: []Query{
				&Near{Phrases: []*Phrase{{Text: "a"}, {Text: "b"}}, Distance: 10},
				&Near{Phrases: []*Phrase{{Text: "c"}, {Text: "d"}}, Distance: 2},
			}},
		},
		{
			name:     "bare NEAR is a phrase",
			input:    "NEAR misses",
			expected: &Phrases{Phrases: []*Phrase{{Text: "NEAR"}, {Text: "misses"}}},
		},
		{
			name:  "single column filter",
			input: "title: hello",
			expected: &ColumnFilter{
				Columns: []string{"title"},
				Filter:  FilterInclude,
				Query:   &Phrase{Text: "hello"},
			},
		},
		{
			name:  "column filter without space",
			input: "title:hello",
			expected: &ColumnFilter{
				Columns: []string{"title"},
				Filter:  FilterInclude,
				Query:   &Phrase{Text: "hello"},
			},
		},
		{
			name:  "excluding column filter with NEAR",
			input: "-x: NEAR(a b)",
			expected: &ColumnFilter{
				Columns: []string{"x"},
				Filter:  FilterExclude,
				Query:   &Near{Phrases: []*Phrase{{Text: "a"}, {Text: "b"}}, Distance: 10},
			},
		},
		{
			name:  "column list filter with sub-expression",
			input: "{title body}: (x OR y)",
			expected: &ColumnFilter{
				Columns: []string{"title", "body"},
				Filter:  FilterInclude,
				Query:   &Or{Queries: []Query{&Phrase{Text: "x"}, &Phrase{Text: "y"}}},
			},
		},
		{
			name:  "quoted column name",
			input: `"strange column": x`,
			expected: &ColumnFilter{
				Columns: []string{"strange column"},
				Filter:  FilterInclude,
				Query:   &Phrase{Text: "x"},
			},
		},
		{
			name:  "nested column filters",
			input: "a: b: c",
			expected: &ColumnFilter{
				Columns: []string{"a"},
				Filter:  FilterInclude,
				Query: &ColumnFilter{
					Columns: []string{"b"},
					Filter:  FilterInclude,
					Query:   &Phrase{Text: "c"},
				},
			},
		},
		{
			name:  "column filter binds a phrase run",
			input: "title: one two AND three",
			expected: &And{Queries: []Query{
				&ColumnFilter{
					Columns: []string{"title"},
					Filter:  FilterInclude,
					Query:   &Phrases{Phrases: []*Phrase{{Text: "one"}, {Text: "two"}}},
				},
				&Phrase{Text: "three"},
			}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.NoError(t, Validate(got))
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		position int
	}{
		{name: "empty query", input: "", position: 0},
		{name: "only whitespace", input: "   ", position: 3},
		{name: "operator without operand", input: "one AND + two", position: 8},
		{name: "trailing operator", input: "one AND", position: 7},
		{name: "unbalanced paren", input: "(one", position: 4},
		{name: "trailing tokens", input: "one two)", position: 7},
		{name: "leading star", input: "*one", position: 0},
		{name: "initial and sequence on one phrase", input: "one ^+two", position: 5},
		{name: "NEAR with a single phrase", input: "NEAR(seven)", position: 0},
		{name: "NEAR with no phrases", input: "NEAR()", position: 0},
		{name: "NEAR distance not a number", input: "NEAR(a b, x)", position: 10},
		{name: "NEAR distance zero", input: "NEAR(a b, 0)", position: 10},
		{name: "NEAR left open", input: "NEAR(a b", position: 8},
		{name: "empty column list", input: "{}: x", position: 0},
		{name: "column list left open", input: "{a b: x", position: 4},
		{name: "missing colon after minus column", input: "-title hello", position: 7},
		{name: "column filter without query", input: "title:", position: 6},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, got)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.position, perr.Position, "error: %v", perr)
			assert.Equal(t, tt.input, perr.Query)
		})
	}
}

func TestParseDepthLimit(t *testing.T) {
	t.Parallel()
	deep := strings.Repeat("(", 2000) + "one" + strings.Repeat(")", 2000)
	_, err := Parse(deep)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "nested too deeply")

	// nesting below the limit parses fine
	ok := strings.Repeat("(", 100) + "one" + strings.Repeat(")", 100)
	got, err := Parse(ok)
	require.NoError(t, err)
	assert.Equal(t, &Phrase{Text: "one"}, got)
}
