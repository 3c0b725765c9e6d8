package query

import (
	"fmt"
	"strings"
)

// WalkFunc is called for each node visited by Walk. ancestors holds the
// path from the root down to (not including) node; the slice is reused
// between calls, so callers that retain it must copy it. Returning false
// stops the walk.
type WalkFunc func(ancestors []Query, node Query) bool

// Walk visits the tree rooted at root top-down and depth-first, calling fn
// for the root first with no ancestors, then for each child in query
// order. Each call starts a fresh traversal.
func Walk(root Query, fn WalkFunc) {
	walk(nil, root, fn)
}

func walk(ancestors []Query, node Query, fn WalkFunc) bool {
	if !fn(ancestors, node) {
		return false
	}
	ancestors = append(ancestors, node)
	for _, child := range children(node) {
		if !walk(ancestors, child, fn) {
			return false
		}
	}
	return true
}

// children returns the direct children of a node in traversal order.
func children(node Query) []Query {
	switch n := node.(type) {
	case *Phrase:
		return nil
	case *Phrases:
		qs := make([]Query, len(n.Phrases))
		for i, ph := range n.Phrases {
			qs[i] = ph
		}
		return qs
	case *Near:
		qs := make([]Query, len(n.Phrases))
		for i, ph := range n.Phrases {
			qs[i] = ph
		}
		return qs
	case *ColumnFilter:
		return []Query{n.Query}
	case *And:
		return n.Queries
	case *Or:
		return n.Queries
	case *Not:
		return []Query{n.Match, n.NoMatch}
	default:
		return nil
	}
}

// findNode locates node by identity within root and returns a copy of its
// ancestor path.
func findNode(node, root Query) ([]Query, error) {
	var path []Query
	found := false
	Walk(root, func(ancestors []Query, current Query) bool {
		if current == node {
			path = append([]Query(nil), ancestors...)
			found = true
			return false
		}
		return true
	})
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, node)
	}
	return path, nil
}

// ExtractWithColumnFilters returns node re-wrapped in a ColumnFilter for
// every ColumnFilter ancestor it has inside root, so the result matches
// the same columns node would match evaluated in place. node must be
// reachable from root by identity, or ErrNotFound is returned.
func ExtractWithColumnFilters(node, root Query) (Query, error) {
	path, err := findNode(node, root)
	if err != nil {
		return nil, err
	}
	res := node
	for i := len(path) - 1; i >= 0; i-- {
		if cf, ok := path[i].(*ColumnFilter); ok {
			res = &ColumnFilter{Columns: cf.Columns, Filter: cf.Filter, Query: res}
		}
	}
	return res, nil
}

// ApplicableColumns computes which of allColumns a phrase at node can
// match, starting from the full candidate set and applying each
// ColumnFilter ancestor between root and node in order. Column names are
// matched case-insensitively. node must be reachable from root by
// identity, or ErrNotFound is returned.
func ApplicableColumns(node, root Query, allColumns []string) (map[string]bool, error) {
	path, err := findNode(node, root)
	if err != nil {
		return nil, err
	}
	columns := make(map[string]bool, len(allColumns))
	for _, col := range allColumns {
		columns[col] = true
	}
	for _, ancestor := range path {
		cf, ok := ancestor.(*ColumnFilter)
		if !ok {
			continue
		}
		for col := range columns {
			named := false
			for _, name := range cf.Columns {
				if strings.EqualFold(col, name) {
					named = true
					break
				}
			}
			if named == (cf.Filter == FilterExclude) {
				delete(columns, col)
			}
		}
	}
	return columns, nil
}
