package query

import (
	"fmt"
	"strconv"
)

// maxNestingDepth bounds parser recursion so that pathologically nested
// queries fail with a ParseError instead of overflowing the stack.
const maxNestingDepth = 1000

// Parse converts a query string into its AST. It fails with a ParseError
// carrying the offending position when the query is empty, malformed, or
// has trailing tokens after a complete parse.
func Parse(input string) (Query, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &parser{query: input, tokens: tokens}
	if t := p.peek(); t.Kind == TokenEOF {
		return nil, p.errorf(t, "empty query")
	}
	node, err := p.parseQuery(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.Kind != TokenEOF {
		return nil, p.errorf(t, "unexpected %s after end of query", t.Kind)
	}
	return node, nil
}

// parser consumes the token stream with one token of lookahead, two for
// the column-filter lead-in.
type parser struct {
	query  string
	tokens []Token
	pos    int
	depth  int
}

func (p *parser) peek() Token { return p.tokens[p.pos] }

// peekAt looks ahead n tokens, saturating at the trailing EOF token.
func (p *parser) peekAt(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

// next consumes and returns the current token. The EOF token is never
// consumed so the parser can keep reporting its position.
func (p *parser) next() Token {
	t := p.tokens[p.pos]
	if t.Kind != TokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t Token, format string, args ...any) error {
	return &ParseError{
		Query:    p.query,
		Message:  fmt.Sprintf(format, args...),
		Position: t.Position,
	}
}

func (p *parser) enter(t Token) error {
	p.depth++
	if p.depth > maxNestingDepth {
		return p.errorf(t, "query is nested too deeply")
	}
	return nil
}

// infixPrecedence gives the binding power of the explicit infix operators.
// Zero means the token is not an infix operator.
func infixPrecedence(k TokenKind) int {
	switch k {
	case TokenOr:
		return 1
	case TokenAnd:
		return 2
	case TokenNot:
		return 3
	}
	return 0
}

// parseQuery implements precedence climbing: parse one part, then fold in
// infix operators while their precedence exceeds rbp. Folding into an
// existing AND/OR of the same kind appends to it, keeping the tree flat.
func (p *parser) parseQuery(rbp int) (Query, error) {
	if err := p.enter(p.peek()); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	left, err := p.parsePart()
	if err != nil {
		return nil, err
	}
	for {
		prec := infixPrecedence(p.peek().Kind)
		if prec <= rbp {
			return left, nil
		}
		op := p.next()
		right, err := p.parseQuery(prec)
		if err != nil {
			return nil, err
		}
		switch op.Kind {
		case TokenOr:
			if or, ok := left.(*Or); ok {
				or.Queries = append(or.Queries, right)
			} else {
				left = &Or{Queries: []Query{left, right}}
			}
		case TokenAnd:
			if and, ok := left.(*And); ok {
				and.Queries = append(and.Queries, right)
			} else {
				left = &And{Queries: []Query{left, right}}
			}
		case TokenNot:
			left = &Not{Match: left, NoMatch: right}
		}
	}
}

// parsePart parses one operand of the infix operators, dispatching on the
// lookahead token.
func (p *parser) parsePart() (Query, error) {
	switch t := p.peek(); {
	case t.Kind == TokenLParen:
		return p.parseParens()

	case t.Kind == TokenNear:
		// consecutive NEAR groups fold into an implicit AND
		var groups []Query
		for p.peek().Kind == TokenNear {
			g, err := p.parseNear()
			if err != nil {
				return nil, err
			}
			groups = append(groups, g)
		}
		if len(groups) == 1 {
			return groups[0], nil
		}
		return &And{Queries: groups}, nil

	case p.startsColumnFilter():
		return p.parseColumnFilter()

	case t.isString() || t.Kind == TokenCaret:
		return p.parsePhrases()

	default:
		return nil, p.errorf(t, "expected a search term, not %s", t.Kind)
	}
}

func (p *parser) parseParens() (Query, error) {
	p.next() // consume (
	node, err := p.parseQuery(0)
	if err != nil {
		return nil, err
	}
	if t := p.next(); t.Kind != TokenRParen {
		return nil, p.errorf(t, "expected closing )")
	}
	return node, nil
}

// startsColumnFilter reports whether the lookahead begins a column filter.
// This is the only place two tokens of lookahead are needed: a bareword is
// a column name rather than a phrase only when a colon follows it.
func (p *parser) startsColumnFilter() bool {
	t := p.peek()
	return t.Kind == TokenMinus || t.Kind == TokenLBrace ||
		(t.isString() && p.peekAt(1).Kind == TokenColon)
}

func (p *parser) startsPhrase(t Token) bool {
	return t.isString() || t.Kind == TokenCaret || t.Kind == TokenPlus
}

// parsePhrases parses a run of one or more adjacent phrases, returning a
// bare Phrase for a run of one.
func (p *parser) parsePhrases() (Query, error) {
	var phrases []*Phrase
	for {
		ph, err := p.parsePhrase(len(phrases) == 0)
		if err != nil {
			return nil, err
		}
		phrases = append(phrases, ph)
		if !p.startsPhrase(p.peek()) {
			break
		}
	}
	if len(phrases) == 1 {
		return phrases[0], nil
	}
	return &Phrases{Phrases: phrases}, nil
}

// parsePhrase parses [^] [+] STRING [*]. The first phrase of a run takes ^
// but not +; later phrases take either, never both.
func (p *parser) parsePhrase(first bool) (*Phrase, error) {
	initial, sequence := false, false
	if p.peek().Kind == TokenCaret {
		p.next()
		initial = true
	}
	if !first && p.peek().Kind == TokenPlus {
		if initial {
			return nil, p.errorf(p.peek(), "phrase can not be both initial (^) and sequence (+)")
		}
		p.next()
		sequence = true
	}
	t := p.next()
	if !t.isString() {
		return nil, p.errorf(t, "expected a search term, not %s", t.Kind)
	}
	ph := &Phrase{Text: t.Text, Initial: initial, Sequence: sequence}
	if p.peek().Kind == TokenStar {
		p.next()
		ph.Prefix = true
	}
	return ph, nil
}

// parseNear parses NEAR ( phrases [, distance] ). The lexer guarantees the
// NEAR token is followed by an opening parenthesis.
func (p *parser) parseNear() (Query, error) {
	near := p.next() // NEAR
	p.next()         // (

	var phrases []*Phrase
	for p.startsPhrase(p.peek()) {
		ph, err := p.parsePhrase(len(phrases) == 0)
		if err != nil {
			return nil, err
		}
		phrases = append(phrases, ph)
	}
	if len(phrases) < 2 {
		return nil, p.errorf(near, "NEAR requires at least two phrases")
	}

	distance := DefaultNearDistance
	if p.peek().Kind == TokenComma {
		p.next()
		t := p.next()
		d, err := strconv.Atoi(t.Text)
		if t.Kind != TokenString || err != nil {
			return nil, p.errorf(t, "expected NEAR distance number, not %q", t.Text)
		}
		if d < 1 {
			return nil, p.errorf(t, "NEAR distance must be at least 1, got %d", d)
		}
		distance = d
	}

	if t := p.next(); t.Kind != TokenRParen {
		return nil, p.errorf(t, "expected ) to close NEAR group")
	}
	return &Near{Phrases: phrases, Distance: distance}, nil
}

// parseColumnFilter parses [-] (column | { columns... }) : scoped-query.
func (p *parser) parseColumnFilter() (Query, error) {
	if err := p.enter(p.peek()); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	filter := FilterInclude
	if p.peek().Kind == TokenMinus {
		p.next()
		filter = FilterExclude
	}

	var columns []string
	switch t := p.peek(); {
	case t.Kind == TokenLBrace:
		p.next()
		for p.peek().isString() {
			columns = append(columns, p.next().Text)
		}
		if closing := p.next(); closing.Kind != TokenRBrace {
			return nil, p.errorf(closing, "expected a column name or } in column list")
		}
		if len(columns) == 0 {
			return nil, p.errorf(t, "column list requires at least one column")
		}
	case t.isString():
		p.next()
		columns = append(columns, t.Text)
	default:
		return nil, p.errorf(t, "expected a column name or {")
	}

	if t := p.next(); t.Kind != TokenColon {
		return nil, p.errorf(t, "expected : after column filter columns")
	}

	var sub Query
	var err error
	switch t := p.peek(); {
	case t.Kind == TokenLParen:
		sub, err = p.parseParens()
	case t.Kind == TokenNear:
		sub, err = p.parseNear()
	case p.startsColumnFilter():
		sub, err = p.parseColumnFilter()
	case t.isString() || t.Kind == TokenCaret:
		sub, err = p.parsePhrases()
	default:
		err = p.errorf(t, "expected a search term after :")
	}
	if err != nil {
		return nil, err
	}
	return &ColumnFilter{Columns: columns, Filter: filter, Query: sub}, nil
}
