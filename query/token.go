package query

// TokenKind defines the different kinds of tokens produced by the lexer.
type TokenKind int

const (
	TokenString TokenKind = iota // bareword text, column names, NEAR distances
	TokenQuoted                  // "double quoted" text, never a keyword
	TokenOr                      // OR keyword
	TokenAnd                     // AND keyword
	TokenNot                     // NOT keyword
	TokenNear                    // NEAR keyword, only when followed by '('
	TokenColon                   // ':'
	TokenMinus                   // '-'
	TokenLBrace                  // '{'
	TokenRBrace                  // '}'
	TokenLParen                  // '('
	TokenRParen                  // ')'
	TokenCaret                   // '^'
	TokenComma                   // ','
	TokenPlus                    // '+'
	TokenStar                    // '*'
	TokenEOF                     // end of input marker
)

func (k TokenKind) String() string {
	switch k {
	case TokenString:
		return "STRING"
	case TokenQuoted:
		return "QUOTED"
	case TokenOr:
		return "OR"
	case TokenAnd:
		return "AND"
	case TokenNot:
		return "NOT"
	case TokenNear:
		return "NEAR"
	case TokenColon:
		return ":"
	case TokenMinus:
		return "-"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenCaret:
		return "^"
	case TokenComma:
		return ","
	case TokenPlus:
		return "+"
	case TokenStar:
		return "*"
	case TokenEOF:
		return "EOF"
	default:
		return "unknown"
	}
}

// Token represents a single lexical token with kind, text, and position.
type Token struct {
	Kind     TokenKind // kind of this token
	Text     string    // the literal text for this token, quotes removed for TokenQuoted
	Position int       // the starting byte offset in the original input
}

// isString reports whether the token carries text usable as a phrase or
// column name. Quoted strings are never keywords, so both kinds qualify.
func (t Token) isString() bool {
	return t.Kind == TokenString || t.Kind == TokenQuoted
}
