package query

import (
	"errors"
	"fmt"
)

// NodeKind identifies the variant of a Query node.
type NodeKind int

const (
	KindPhrase NodeKind = iota
	KindPhrases
	KindNear
	KindColumnFilter
	KindAnd
	KindOr
	KindNot
)

func (k NodeKind) String() string {
	switch k {
	case KindPhrase:
		return "PHRASE"
	case KindPhrases:
		return "PHRASES"
	case KindNear:
		return "NEAR"
	case KindColumnFilter:
		return "COLUMNFILTER"
	case KindAnd:
		return "AND"
	case KindOr:
		return "OR"
	case KindNot:
		return "NOT"
	default:
		return "unknown"
	}
}

// Query is a node of the abstract syntax tree produced by Parse and
// FromDict. The set of implementations is closed: Phrase, Phrases, Near,
// ColumnFilter, And, Or, and Not. Nodes are pointers and exclusively own
// their children; identity (pointer) comparison is meaningful and is what
// the tree utilities use to locate a node.
type Query interface {
	Kind() NodeKind
	String() string

	// validate checks this node's own invariants, not its subtree.
	// Validate runs it over a whole tree.
	validate() error
}

var (
	_ Query = (*Phrase)(nil)
	_ Query = (*Phrases)(nil)
	_ Query = (*Near)(nil)
	_ Query = (*ColumnFilter)(nil)
	_ Query = (*And)(nil)
	_ Query = (*Or)(nil)
	_ Query = (*Not)(nil)
)

// Filter selects whether a ColumnFilter limits matching to its columns or
// to everything but its columns.
type Filter string

const (
	FilterInclude Filter = "include"
	FilterExclude Filter = "exclude"
)

// Phrase is the only leaf node: one unit of text to match. Either Text or
// Tokens is set; Tokens carries pre-tokenized content that bypasses the
// engine's tokenizer.
type Phrase struct {
	Text     string
	Tokens   *QueryTokens
	Initial  bool // anchored to the start of a column (^)
	Prefix   bool // prefix match (*)
	Sequence bool // must directly follow the previous phrase (+)
}

func (p *Phrase) Kind() NodeKind { return KindPhrase }
func (p *Phrase) String() string { return ToQueryString(p) }
func (p *Phrase) validate() error {
	if p.Initial && p.Sequence {
		return errors.New("phrase can not be both initial (^) and sequence (+)")
	}
	if p.Tokens != nil && p.Text != "" {
		return errors.New("phrase has both text and pre-tokenized tokens")
	}
	return nil
}

// Phrases is a run of adjacent phrases, the tightest-binding implicit AND
// in the grammar.
type Phrases struct {
	Phrases []*Phrase
}

func (p *Phrases) Kind() NodeKind { return KindPhrases }
func (p *Phrases) String() string { return ToQueryString(p) }
func (p *Phrases) validate() error {
	if len(p.Phrases) == 0 {
		return errors.New("PHRASES requires at least one phrase")
	}
	for i, ph := range p.Phrases {
		if ph == nil {
			return fmt.Errorf("PHRASES entry %d is nil", i)
		}
	}
	if p.Phrases[0].Sequence {
		return errors.New("first phrase can not be a sequence (+) phrase")
	}
	return nil
}

// Near constrains two or more phrases to occur within Distance tokens of
// each other.
type Near struct {
	Phrases  []*Phrase
	Distance int // maximum token distance, at least 1
}

// DefaultNearDistance is the distance used when a NEAR query does not spell
// one out.
const DefaultNearDistance = 10

func (n *Near) Kind() NodeKind { return KindNear }
func (n *Near) String() string { return ToQueryString(n) }
func (n *Near) validate() error {
	if len(n.Phrases) < 2 {
		return errors.New("NEAR requires at least two phrases")
	}
	for i, ph := range n.Phrases {
		if ph == nil {
			return fmt.Errorf("NEAR phrase %d is nil", i)
		}
	}
	if n.Distance < 1 {
		return fmt.Errorf("NEAR distance must be at least 1, got %d", n.Distance)
	}
	return nil
}

// ColumnFilter scopes a sub-query to an include or exclude set of named
// columns.
type ColumnFilter struct {
	Columns []string
	Filter  Filter
	Query   Query
}

func (c *ColumnFilter) Kind() NodeKind { return KindColumnFilter }
func (c *ColumnFilter) String() string { return ToQueryString(c) }
func (c *ColumnFilter) validate() error {
	if len(c.Columns) == 0 {
		return errors.New("column filter requires at least one column")
	}
	if c.Filter != FilterInclude && c.Filter != FilterExclude {
		return fmt.Errorf("column filter must be %q or %q, got %q",
			FilterInclude, FilterExclude, c.Filter)
	}
	if c.Query == nil {
		return errors.New("column filter requires a query")
	}
	return nil
}

// And matches rows matched by all of its children.
type And struct {
	Queries []Query
}

func (a *And) Kind() NodeKind { return KindAnd }
func (a *And) String() string { return ToQueryString(a) }
func (a *And) validate() error {
	return validateChildren("AND", a.Queries)
}

// Or matches rows matched by any of its children.
type Or struct {
	Queries []Query
}

func (o *Or) Kind() NodeKind { return KindOr }
func (o *Or) String() string { return ToQueryString(o) }
func (o *Or) validate() error {
	return validateChildren("OR", o.Queries)
}

// Not matches rows matched by Match but not by NoMatch.
type Not struct {
	Match   Query
	NoMatch Query
}

func (n *Not) Kind() NodeKind { return KindNot }
func (n *Not) String() string { return ToQueryString(n) }
func (n *Not) validate() error {
	if n.Match == nil || n.NoMatch == nil {
		return errors.New("NOT requires both a match and a no-match query")
	}
	return nil
}

func validateChildren(kind string, queries []Query) error {
	if len(queries) == 0 {
		return fmt.Errorf("%s requires at least one query", kind)
	}
	for i, q := range queries {
		if q == nil {
			return fmt.Errorf("%s query %d is nil", kind, i)
		}
	}
	return nil
}

// Validate checks every invariant of the tree rooted at q. Trees produced
// by Parse and FromDict always pass; hand-built trees should be validated
// before being printed or serialized.
func Validate(q Query) error {
	if q == nil {
		return errors.New("nil query")
	}
	var err error
	Walk(q, func(_ []Query, node Query) bool {
		err = node.validate()
		return err == nil
	})
	return err
}
