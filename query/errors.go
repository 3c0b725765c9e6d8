package query

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by the tree utilities when the target node is not
// reachable from the given root.
var ErrNotFound = errors.New("node not found in query tree")

// ParseError describes a lexing or parsing failure. Position is the byte
// offset of the offending character or token in Query, suitable for
// caret-style reporting.
type ParseError struct {
	Query    string
	Message  string
	Position int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s, at position %d in %q", e.Message, e.Position, e.Query)
}
