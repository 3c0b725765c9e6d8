package query

import (
	"strconv"
	"strings"
)

// priority ranks node kinds for minimal parenthesization: a child is
// wrapped in parentheses only when its own priority is strictly lower than
// its parent's.
func priority(q Query) int {
	switch q.(type) {
	case *Or:
		return 1
	case *And:
		return 2
	case *Not:
		return 3
	default:
		// COLUMNFILTER, NEAR, PHRASES, PHRASE
		return 4
	}
}

// ToQueryString renders a valid AST back to canonical query text. The
// result parses to a semantically equal tree; sugar such as an explicit
// NEAR distance of 10 is normalized away rather than preserved.
func ToQueryString(q Query) string {
	var b strings.Builder
	printQuery(&b, q)
	return b.String()
}

func printQuery(b *strings.Builder, q Query) {
	switch n := q.(type) {
	case *Phrase:
		printPhrase(b, n)

	case *Phrases:
		for i, ph := range n.Phrases {
			if i > 0 {
				b.WriteByte(' ')
			}
			printPhrase(b, ph)
		}

	case *Near:
		b.WriteString("NEAR(")
		for i, ph := range n.Phrases {
			if i > 0 {
				b.WriteByte(' ')
			}
			printPhrase(b, ph)
		}
		if n.Distance != DefaultNearDistance {
			b.WriteString(", ")
			b.WriteString(strconv.Itoa(n.Distance))
		}
		b.WriteByte(')')

	case *ColumnFilter:
		if n.Filter == FilterExclude {
			b.WriteByte('-')
		}
		if len(n.Columns) == 1 {
			b.WriteString(Quote(n.Columns[0]))
		} else {
			b.WriteByte('{')
			for i, col := range n.Columns {
				if i > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(Quote(col))
			}
			b.WriteByte('}')
		}
		b.WriteString(": ")
		switch n.Query.(type) {
		case *Phrase, *Phrases, *Near, *ColumnFilter:
			printQuery(b, n.Query)
		default:
			b.WriteByte('(')
			printQuery(b, n.Query)
			b.WriteByte(')')
		}

	case *And:
		printInfix(b, " AND ", n.Queries, priority(n))

	case *Or:
		printInfix(b, " OR ", n.Queries, priority(n))

	case *Not:
		printChild(b, n.Match, priority(n))
		b.WriteString(" NOT ")
		printChild(b, n.NoMatch, priority(n))
	}
}

func printInfix(b *strings.Builder, sep string, children []Query, parentPriority int) {
	for i, child := range children {
		if i > 0 {
			b.WriteString(sep)
		}
		printChild(b, child, parentPriority)
	}
}

func printChild(b *strings.Builder, child Query, parentPriority int) {
	if priority(child) < parentPriority {
		b.WriteByte('(')
		printQuery(b, child)
		b.WriteByte(')')
		return
	}
	printQuery(b, child)
}

func printPhrase(b *strings.Builder, p *Phrase) {
	if p.Initial {
		b.WriteByte('^')
	}
	if p.Sequence {
		b.WriteByte('+')
	}
	text := p.Text
	if p.Tokens != nil {
		text = p.Tokens.Encode()
	}
	b.WriteString(Quote(text))
	if p.Prefix {
		b.WriteByte('*')
	}
}

// Quote returns value in the form the lexer reads back as a single string
// token: bare when it is non-empty and contains only bareword characters,
// otherwise double quoted with internal quotes doubled. Characters outside
// ASCII never force quoting.
func Quote(value string) string {
	needs := value == ""
	for i := 0; i < len(value) && !needs; i++ {
		b := value[i]
		if b < 0x80 && !isWordByte(b) {
			needs = true
		}
	}
	if !needs {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}
