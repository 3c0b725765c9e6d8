package query

import "fmt"

// Lexer is responsible for scanning a query string and producing tokens.
type Lexer struct {
	input    string // the entire input to tokenize
	position int    // current reading position in input
	tokens   []Token
}

// NewLexer returns a new Lexer with the given input and initializes state.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:    input,
		position: 0,
		tokens:   make([]Token, 0),
	}
}

// Tokenize processes the entire input and produces the list of tokens,
// always terminated by a TokenEOF. It fails on the first character that
// cannot start any token, reporting its position.
func Tokenize(input string) ([]Token, error) {
	return NewLexer(input).Tokenize()
}

func (l *Lexer) Tokenize() ([]Token, error) {
	for l.position < len(l.input) {
		currentPos := l.position
		switch c := l.input[l.position]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			// whitespace is skipped, never emitted
			l.position++

		case c == '"':
			if err := l.lexQuoted(currentPos); err != nil {
				return nil, err
			}

		case singleCharTokens[c] != 0:
			l.addToken(singleCharTokens[c], string(c), currentPos)
			l.position++

		case isBarewordByte(c):
			l.lexBareword(currentPos)

		default:
			return nil, &ParseError{
				Query:    l.input,
				Message:  fmt.Sprintf("unrecognized character %q", c),
				Position: currentPos,
			}
		}
	}

	// At the end, add an EOF token to indicate we're done.
	l.addToken(TokenEOF, "", l.position)

	// NEAR is only an operator when written NEAR(...). Demote any NEAR
	// token not immediately followed by '(' back to plain text.
	for i := range l.tokens {
		if l.tokens[i].Kind == TokenNear && l.tokens[i+1].Kind != TokenLParen {
			l.tokens[i].Kind = TokenString
		}
	}
	return l.tokens, nil
}

// singleCharTokens maps bytes that form a token on their own. The zero
// value doubles as "not a single-char token" because TokenString is never
// produced this way.
var singleCharTokens = [256]TokenKind{
	'(': TokenLParen,
	')': TokenRParen,
	'{': TokenLBrace,
	'}': TokenRBrace,
	':': TokenColon,
	',': TokenComma,
	'+': TokenPlus,
	'*': TokenStar,
	'-': TokenMinus,
	'^': TokenCaret,
}

// lexQuoted scans a double-quoted string starting at the current position.
// Two consecutive quotes inside the string are an escaped literal quote and
// do not terminate it.
func (l *Lexer) lexQuoted(startPos int) error {
	text := make([]byte, 0, 16)
	l.position++ // opening quote
	for l.position < len(l.input) {
		c := l.input[l.position]
		if c == '"' {
			if l.position+1 < len(l.input) && l.input[l.position+1] == '"' {
				text = append(text, '"')
				l.position += 2
				continue
			}
			l.position++
			l.addToken(TokenQuoted, string(text), startPos)
			return nil
		}
		text = append(text, c)
		l.position++
	}
	return &ParseError{
		Query:    l.input,
		Message:  "unterminated quoted string",
		Position: startPos,
	}
}

// lexBareword scans a maximal run of bareword bytes and produces either a
// keyword token or a TokenString.
func (l *Lexer) lexBareword(startPos int) {
	start := l.position
	for l.position < len(l.input) && isBarewordByte(l.input[l.position]) {
		l.position++
	}
	text := l.input[start:l.position]
	switch text {
	case "OR":
		l.addToken(TokenOr, text, startPos)
	case "AND":
		l.addToken(TokenAnd, text, startPos)
	case "NOT":
		l.addToken(TokenNot, text, startPos)
	case "NEAR":
		l.addToken(TokenNear, text, startPos)
	default:
		l.addToken(TokenString, text, startPos)
	}
}

// addToken is a helper to append a new token to the lexer's token list.
func (l *Lexer) addToken(kind TokenKind, text string, pos int) {
	l.tokens = append(l.tokens, Token{
		Kind:     kind,
		Text:     text,
		Position: pos,
	})
}

// isBarewordByte reports whether b can appear in a bareword: ASCII
// alphanumerics, underscore, the 0x1A substitute character kept for
// compatibility with the full-text engine, and anything outside ASCII.
func isBarewordByte(b byte) bool {
	return b == '_' || b == 0x1A || b >= 0x80 ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}
