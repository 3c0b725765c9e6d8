package query

import (
	"fmt"
	"math"
)

// ToDict converts a query tree to the generic nested-map representation:
// map[string]any nodes carrying an "@" discriminator, []any sequences,
// plain strings, and *QueryTokens values for pre-tokenized phrases. Fields
// at their default values are omitted.
func ToDict(q Query) any {
	switch n := q.(type) {
	case *Phrase:
		m := map[string]any{"@": "PHRASE", "text": phraseTextValue(n)}
		if n.Initial {
			m["initial"] = true
		}
		if n.Prefix {
			m["prefix"] = true
		}
		if n.Sequence {
			m["sequence"] = true
		}
		return m

	case *Phrases:
		return map[string]any{"@": "PHRASES", "phrases": phrasesToDict(n.Phrases)}

	case *Near:
		m := map[string]any{"@": "NEAR", "phrases": phrasesToDict(n.Phrases)}
		if n.Distance != DefaultNearDistance {
			m["distance"] = n.Distance
		}
		return m

	case *ColumnFilter:
		columns := make([]any, len(n.Columns))
		for i, col := range n.Columns {
			columns[i] = col
		}
		return map[string]any{
			"@":       "COLUMNFILTER",
			"columns": columns,
			"filter":  string(n.Filter),
			"query":   ToDict(n.Query),
		}

	case *And:
		return map[string]any{"@": "AND", "queries": queriesToDict(n.Queries)}

	case *Or:
		return map[string]any{"@": "OR", "queries": queriesToDict(n.Queries)}

	case *Not:
		return map[string]any{
			"@":        "NOT",
			"match":    ToDict(n.Match),
			"no_match": ToDict(n.NoMatch),
		}

	default:
		return nil
	}
}

func phraseTextValue(p *Phrase) any {
	if p.Tokens != nil {
		return p.Tokens
	}
	return p.Text
}

func phrasesToDict(phrases []*Phrase) []any {
	out := make([]any, len(phrases))
	for i, ph := range phrases {
		out[i] = ToDict(ph)
	}
	return out
}

func queriesToDict(queries []Query) []any {
	out := make([]any, len(queries))
	for i, q := range queries {
		out[i] = ToDict(q)
	}
	return out
}

// FromDict converts a nested-map value back to a query tree. Beyond the
// full map form it accepts shorthands anywhere a phrase is expected: a
// bare string is one phrase, a sequence of phrase values is a PHRASES run,
// and a QueryTokens value is a pre-tokenized phrase. Validation is strict:
// any malformed sub-value fails the whole conversion with an error naming
// it.
func FromDict(value any) (Query, error) {
	d := &dictDecoder{}
	return d.query(value)
}

type dictDecoder struct {
	depth int
}

func (d *dictDecoder) query(v any) (Query, error) {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > maxNestingDepth {
		return nil, fmt.Errorf("query is nested too deeply")
	}

	switch t := v.(type) {
	case string:
		return &Phrase{Text: t}, nil
	case *QueryTokens:
		return &Phrase{Tokens: t}, nil
	case QueryTokens:
		return &Phrase{Tokens: &t}, nil
	case []any, []string:
		phrases, err := d.phraseList(v)
		if err != nil {
			return nil, err
		}
		return &Phrases{Phrases: phrases}, nil
	case map[string]any:
		return d.node(t)
	default:
		return nil, fmt.Errorf("expected a string, sequence, or map for a query, got %v (%T)", v, v)
	}
}

func (d *dictDecoder) node(m map[string]any) (Query, error) {
	kindValue, ok := m["@"]
	if !ok {
		return nil, fmt.Errorf(`missing "@" discriminator key in %v`, m)
	}
	kind, ok := kindValue.(string)
	if !ok {
		return nil, fmt.Errorf(`"@" discriminator must be a string, got %v (%T)`, kindValue, kindValue)
	}
	switch kind {
	case "PHRASE":
		return d.phrase(m)
	case "PHRASES":
		phrases, err := d.requiredPhraseList(m, "PHRASES")
		if err != nil {
			return nil, err
		}
		return &Phrases{Phrases: phrases}, nil
	case "NEAR":
		return d.near(m)
	case "COLUMNFILTER":
		return d.columnFilter(m)
	case "AND":
		return d.andOr(m, "AND")
	case "OR":
		return d.andOr(m, "OR")
	case "NOT":
		return d.not(m)
	default:
		return nil, fmt.Errorf("unknown query kind %q", kind)
	}
}

func (d *dictDecoder) phrase(m map[string]any) (*Phrase, error) {
	text, ok := m["text"]
	if !ok {
		return nil, fmt.Errorf(`phrase is missing "text" in %v`, m)
	}
	ph := &Phrase{}
	switch t := text.(type) {
	case string:
		ph.Text = t
	case *QueryTokens:
		ph.Tokens = t
	case QueryTokens:
		ph.Tokens = &t
	default:
		return nil, fmt.Errorf("phrase text must be a string or query tokens, got %v (%T)", text, text)
	}
	var err error
	if ph.Initial, err = boolField(m, "initial"); err != nil {
		return nil, err
	}
	if ph.Prefix, err = boolField(m, "prefix"); err != nil {
		return nil, err
	}
	if ph.Sequence, err = boolField(m, "sequence"); err != nil {
		return nil, err
	}
	if err := ph.validate(); err != nil {
		return nil, fmt.Errorf("%v in %v", err, m)
	}
	return ph, nil
}

// phraseValue converts one entry of a phrase sequence. first applies the
// first-position rule: the opening phrase of a run can not be a sequence
// (+) phrase.
func (d *dictDecoder) phraseValue(v any, first bool) (*Phrase, error) {
	var ph *Phrase
	var err error
	switch t := v.(type) {
	case string:
		ph = &Phrase{Text: t}
	case *QueryTokens:
		ph = &Phrase{Tokens: t}
	case QueryTokens:
		ph = &Phrase{Tokens: &t}
	case map[string]any:
		if kind, ok := t["@"].(string); !ok || kind != "PHRASE" {
			return nil, fmt.Errorf("expected a phrase, got %v", v)
		}
		if ph, err = d.phrase(t); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("expected a phrase, got %v (%T)", v, v)
	}
	if first && ph.Sequence {
		return nil, fmt.Errorf("first phrase can not be a sequence (+) phrase: %v", v)
	}
	return ph, nil
}

func (d *dictDecoder) phraseList(v any) ([]*Phrase, error) {
	var values []any
	switch t := v.(type) {
	case []any:
		values = t
	case []string:
		values = make([]any, len(t))
		for i, s := range t {
			values[i] = s
		}
	default:
		return nil, fmt.Errorf("expected a sequence of phrases, got %v (%T)", v, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("phrase sequence must not be empty")
	}
	phrases := make([]*Phrase, len(values))
	for i, value := range values {
		ph, err := d.phraseValue(value, i == 0)
		if err != nil {
			return nil, err
		}
		phrases[i] = ph
	}
	return phrases, nil
}

func (d *dictDecoder) requiredPhraseList(m map[string]any, kind string) ([]*Phrase, error) {
	v, ok := m["phrases"]
	if !ok {
		return nil, fmt.Errorf(`%s is missing "phrases" in %v`, kind, m)
	}
	return d.phraseList(v)
}

func (d *dictDecoder) near(m map[string]any) (Query, error) {
	phrases, err := d.requiredPhraseList(m, "NEAR")
	if err != nil {
		return nil, err
	}
	if len(phrases) < 2 {
		return nil, fmt.Errorf("NEAR requires at least two phrases in %v", m)
	}
	distance := DefaultNearDistance
	if v, ok := m["distance"]; ok {
		distance, ok = intValue(v)
		if !ok {
			return nil, fmt.Errorf("NEAR distance must be an integer, got %v (%T)", v, v)
		}
		if distance < 1 {
			return nil, fmt.Errorf("NEAR distance must be at least 1, got %d", distance)
		}
	}
	return &Near{Phrases: phrases, Distance: distance}, nil
}

func (d *dictDecoder) columnFilter(m map[string]any) (Query, error) {
	columnsValue, ok := m["columns"]
	if !ok {
		return nil, fmt.Errorf(`column filter is missing "columns" in %v`, m)
	}
	var raw []any
	switch t := columnsValue.(type) {
	case []any:
		raw = t
	case []string:
		raw = make([]any, len(t))
		for i, s := range t {
			raw[i] = s
		}
	default:
		return nil, fmt.Errorf("column filter columns must be a sequence, got %v (%T)",
			columnsValue, columnsValue)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("column filter requires at least one column in %v", m)
	}
	columns := make([]string, len(raw))
	for i, v := range raw {
		col, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("column name must be a string, got %v (%T)", v, v)
		}
		columns[i] = col
	}

	filterValue, ok := m["filter"]
	if !ok {
		return nil, fmt.Errorf(`column filter is missing "filter" in %v`, m)
	}
	filter, ok := filterValue.(string)
	if !ok || (Filter(filter) != FilterInclude && Filter(filter) != FilterExclude) {
		return nil, fmt.Errorf("column filter must be %q or %q, got %v",
			FilterInclude, FilterExclude, filterValue)
	}

	queryValue, ok := m["query"]
	if !ok {
		return nil, fmt.Errorf(`column filter is missing "query" in %v`, m)
	}
	sub, err := d.query(queryValue)
	if err != nil {
		return nil, err
	}
	return &ColumnFilter{Columns: columns, Filter: Filter(filter), Query: sub}, nil
}

func (d *dictDecoder) andOr(m map[string]any, kind string) (Query, error) {
	v, ok := m["queries"]
	if !ok {
		return nil, fmt.Errorf(`%s is missing "queries" in %v`, kind, m)
	}
	values, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s queries must be a sequence, got %v (%T)", kind, v, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s requires at least one query in %v", kind, m)
	}
	queries := make([]Query, len(values))
	for i, value := range values {
		sub, err := d.query(value)
		if err != nil {
			return nil, err
		}
		queries[i] = sub
	}
	// a single-child AND/OR is that child
	if len(queries) == 1 {
		return queries[0], nil
	}
	if kind == "AND" {
		return &And{Queries: queries}, nil
	}
	return &Or{Queries: queries}, nil
}

func (d *dictDecoder) not(m map[string]any) (Query, error) {
	matchValue, ok := m["match"]
	if !ok {
		return nil, fmt.Errorf(`NOT is missing "match" in %v`, m)
	}
	noMatchValue, ok := m["no_match"]
	if !ok {
		return nil, fmt.Errorf(`NOT is missing "no_match" in %v`, m)
	}
	match, err := d.query(matchValue)
	if err != nil {
		return nil, err
	}
	noMatch, err := d.query(noMatchValue)
	if err != nil {
		return nil, err
	}
	return &Not{Match: match, NoMatch: noMatch}, nil
}

func boolField(m map[string]any, key string) (bool, error) {
	v, ok := m[key]
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%q must be a boolean, got %v (%T)", key, v, v)
	}
	return b, nil
}

// intValue accepts the integer shapes the common generic decoders produce:
// yaml.v3 gives int, encoding/json gives float64.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	}
	return 0, false
}
