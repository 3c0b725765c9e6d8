/*
Package query provides the query-language front end for a full-text search
engine: a lexer, a precedence-climbing parser, the query AST, bidirectional
conversion between the AST and a generic nested-map representation, a
canonical pretty-printer, and tree traversal utilities.

# Query syntax

A query is built from phrases combined with boolean and proximity
operators:

	hello world            implicit AND of two adjacent phrases
	one AND two OR three   explicit operators, OR binds loosest
	fast NOT slow          rows matching fast but not slow
	"rock ""n"" roll"      quoted phrase, "" is a literal quote
	run*                   prefix match
	^first                 phrase anchored to the start of a column
	one +two               two must directly follow one
	NEAR(a b, 5)           a and b within 5 tokens of each other
	title: hello           phrase scoped to the title column
	-{title body}: x       x anywhere except title and body

OR, AND, NOT, and NEAR are case-sensitive keywords; NEAR is only an
operator when written NEAR(...). Operator binding from tightest to
loosest: phrase adjacency, NEAR-group sequencing, NOT, AND, OR.

# Pipeline

Parse turns query text into a Query tree. ToQueryString renders a tree
back to canonical, minimally parenthesized text understood by the engine.
ToDict and FromDict convert between trees and generic nested-map values
for callers that build or edit queries programmatically. Walk,
ExtractWithColumnFilters, and ApplicableColumns support read-only analysis
passes such as statistics-driven query rewriting.

All of it is pure computation: no I/O, no goroutines, no shared state. A
Query tree is immutable once built and safe to share between goroutines
for reading.

# Errors

Lexing and parsing failures are *ParseError values carrying the original
query and the byte offset of the offending character, suitable for
caret-style reporting (see the formatter package). Dict conversion and
validation failures are plain descriptive errors. There is no partial
output: a failed call yields no tree at all.
*/
package query
