package query

import "strings"

// TokensPrefix marks a phrase string as carrying pre-tokenized tokens
// rather than free text. The prefix is reserved: ordinary query text never
// starts with it.
const TokensPrefix = "$!Tokens~"

// QueryTokens carries the tokens of a phrase for callers that have already
// run tokenization and want the engine to use their tokens verbatim. Each
// entry of Tokens is one position in the phrase; an entry with more than
// one string holds co-located synonyms.
//
// A QueryTokens value can stand in for phrase text in the nested-map
// representation, and Encode lets it travel through the lexer and parser as
// an opaque string for a downstream tokenizer to recognize.
type QueryTokens struct {
	Tokens [][]string
}

// Encode renders the tokens as a single reserved-prefix string: slots are
// separated by '|' and co-located synonyms within a slot by '>'.
func (qt *QueryTokens) Encode() string {
	var b strings.Builder
	b.WriteString(TokensPrefix)
	for i, slot := range qt.Tokens {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strings.Join(slot, ">"))
	}
	return b.String()
}

// DecodeQueryTokens reverses Encode. The second return value is false when
// s does not carry the reserved prefix, letting a consumer try decoding and
// fall back to treating s as plain text.
func DecodeQueryTokens(s string) (*QueryTokens, bool) {
	rest, ok := strings.CutPrefix(s, TokensPrefix)
	if !ok {
		return nil, false
	}
	qt := &QueryTokens{}
	if rest == "" {
		return qt, true
	}
	for _, slot := range strings.Split(rest, "|") {
		qt.Tokens = append(qt.Tokens, strings.Split(slot, ">"))
	}
	return qt, true
}
