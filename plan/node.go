// Package plan turns a compiled query tree into the iterator tree that
// executes it against one shard bucket.
package plan

import (
	"github.com/apache/usergrid-sub013/ids"
	"github.com/apache/usergrid-sub013/results"
	"github.com/apache/usergrid-sub013/scan"
)

// Node is one predicate of a compiled query. The set of node kinds is
// closed; Builder.Build handles every one of them.
type Node interface {
	node()
}

// All matches every member of the scope.
type All struct{}

// Within matches entities whose Property location lies between MinDistance
// and MaxDistance meters of (Lat, Lon), nearest first. Nearest first holds
// within one shard bucket; a query spread over several buckets gets its
// matches merged in id order.
type Within struct {
	Property    string
	Lat         float64
	Lon         float64
	MinDistance float64
	MaxDistance float64
}

// NameIdentifier matches the member whose name alias is Name.
type NameIdentifier struct {
	Name string
}

// UUIDIdentifier matches the member ID.
type UUIDIdentifier struct {
	ID ids.ID
}

type And struct {
	Children []Node
}

type Or struct {
	Children []Node
}

// Not matches Keep minus Subtract.
type Not struct {
	Keep     Node
	Subtract Node
}

// Slice matches entities inside every one of its range predicates.
type Slice struct {
	Slices []*scan.QuerySlice
}

// OrderBy sorts the matches of Child. It may only be the root of a tree.
type OrderBy struct {
	Child Node
	Sorts []results.SortField
}

func (*All) node()            {}
func (*Within) node()         {}
func (*NameIdentifier) node() {}
func (*UUIDIdentifier) node() {}
func (*And) node()            {}
func (*Or) node()             {}
func (*Not) node()            {}
func (*Slice) node()          {}
func (*OrderBy) node()        {}

// Reversed reports whether n yields ids in descending order: a Slice whose
// first range scans backwards, an And or Not whose driving child does, or
// an Or whose children all do.
func Reversed(n Node) bool {
	switch n := n.(type) {
	case *Slice:
		return len(n.Slices) > 0 && n.Slices[0] != nil && n.Slices[0].Reversed
	case *And:
		return len(n.Children) > 0 && Reversed(n.Children[0])
	case *Not:
		return Reversed(n.Keep)
	case *Or:
		for _, child := range n.Children {
			if !Reversed(child) {
				return false
			}
		}
		return len(n.Children) > 0
	}
	return false
}
