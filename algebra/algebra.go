// Package algebra defines the relational-algebra tree of SPEC_FULL.md §3.4:
// Relation, Projection, Selection, Join, and CrossProduct. Every node is
// built once and never mutated; a rewrite pass consumes a tree and returns
// a new one (shared subtrees may be pointer-identical when a pass leaves
// them untouched). This has no direct teacher analogue — machparse has no
// algebra layer — so the Node-interface-with-private-marker-method idiom
// is adapted from ast/node.go's shape onto a brand-new tree vocabulary.
package algebra

import "strings"

// Node is any algebra tree node.
type Node interface {
	node()
}

// Relation is a base relation leaf, naming one table. Alias is the source
// alias from the originating FROM/JOIN clause, if any: it is never
// rendered (aliases are dropped at translation, SPEC_FULL.md §4.5) but is
// kept so RelationNames can match the qualifiers rewrite rules scan out of
// condition strings, which stay in whatever form the query used.
type Relation struct {
	Name  string
	Alias string
}

func (*Relation) node() {}

// Projection restricts a relation to the given attribute list. Attributes
// is the literal, ordered list of column names the user wrote, including
// "*" for a wildcard select-list. Alias is set when this Projection is the
// root of a translated subquery source that carried a FROM/JOIN alias; like
// Relation.Alias it is never rendered but is kept so RelationNames can match
// qualifiers against a subquery the same way it does against a base table.
type Projection struct {
	Attributes []string
	Input      Node
	Alias      string
}

func (*Projection) node() {}

// Selection filters Input by Condition, an opaque string rendering of the
// originating boolean expression (SPEC_FULL.md §9: "Condition
// representation").
type Selection struct {
	Condition string
	Input     Node
}

func (*Selection) node() {}

// Join is an equi-join (or general predicate join) between Left and Right,
// filtered by Condition.
type Join struct {
	Condition string
	Left      Node
	Right     Node
}

func (*Join) node() {}

// CrossProduct is the unfiltered pairing of Left and Right.
type CrossProduct struct {
	Left  Node
	Right Node
}

func (*CrossProduct) node() {}

// IsWildcard reports whether attrs is the canonical "select everything"
// attribute list: empty, or exactly ["*"].
func IsWildcard(attrs []string) bool {
	return len(attrs) == 0 || (len(attrs) == 1 && attrs[0] == "*")
}

// RelationNames returns the set of base relation names reachable under n,
// plus any Relation or Projection aliases, lowercased. Obtained fresh by a single pre-order walk every time it's
// needed — SPEC_FULL.md §9 warns against caching this across rewrite
// passes, since a previous pass can change the tree shape.
func RelationNames(n Node) map[string]bool {
	out := make(map[string]bool)
	collectRelationNames(n, out)
	return out
}

func collectRelationNames(n Node, out map[string]bool) {
	switch t := n.(type) {
	case *Relation:
		out[strings.ToLower(t.Name)] = true
		if t.Alias != "" {
			out[strings.ToLower(t.Alias)] = true
		}
	case *Projection:
		if t.Alias != "" {
			out[strings.ToLower(t.Alias)] = true
		}
		collectRelationNames(t.Input, out)
	case *Selection:
		collectRelationNames(t.Input, out)
	case *Join:
		collectRelationNames(t.Left, out)
		collectRelationNames(t.Right, out)
	case *CrossProduct:
		collectRelationNames(t.Left, out)
		collectRelationNames(t.Right, out)
	}
}
