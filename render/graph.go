package render

import (
	"fmt"
	"strings"

	"github.com/freeeve/qalgebra/algebra"
)

// Shape is the node shape tag a Mermaid renderer uses, per SPEC_FULL.md
// §4.10.
type Shape string

const (
	ShapeRound   Shape = "round"
	ShapeHexagon Shape = "hexagon"
)

// GraphNode is one node in the emitted graph.
type GraphNode struct {
	ID    string
	Shape Shape
	Label string
	Order int // 1-based post-order execution index
}

// GraphEdge connects an operator to one of its inputs. Label is "left" or
// "right" for binary operators, "" for the single input of a unary one.
type GraphEdge struct {
	From  string
	To    string
	Label string
}

// Graph is the node/edge description of an algebra tree.
type Graph struct {
	Nodes  []GraphNode
	Edges  []GraphEdge
	RootID string
}

// BuildGraph emits the graph for tree, assigning ids and execution-order
// indices in a single post-order traversal.
func BuildGraph(tree algebra.Node) *Graph {
	b := &graphBuilder{}
	root := b.visit(tree)
	return &Graph{Nodes: b.nodes, Edges: b.edges, RootID: root}
}

type graphBuilder struct {
	nodes   []GraphNode
	edges   []GraphEdge
	counter int
}

func (b *graphBuilder) nextID() string {
	b.counter++
	return fmt.Sprintf("n%d", b.counter)
}

func (b *graphBuilder) add(shape Shape, label string) string {
	id := b.nextID()
	b.nodes = append(b.nodes, GraphNode{ID: id, Shape: shape, Label: label, Order: len(b.nodes) + 1})
	return id
}

func (b *graphBuilder) visit(n algebra.Node) string {
	switch t := n.(type) {
	case *algebra.Relation:
		return b.add(ShapeRound, t.Name)

	case *algebra.Projection:
		inputID := b.visit(t.Input)
		attrs := "*"
		if !algebra.IsWildcard(t.Attributes) {
			attrs = strings.Join(t.Attributes, ", ")
		}
		id := b.add(ShapeHexagon, "π["+attrs+"]")
		b.edges = append(b.edges, GraphEdge{From: id, To: inputID})
		return id

	case *algebra.Selection:
		inputID := b.visit(t.Input)
		id := b.add(ShapeHexagon, "σ["+t.Condition+"]")
		b.edges = append(b.edges, GraphEdge{From: id, To: inputID})
		return id

	case *algebra.Join:
		leftID := b.visit(t.Left)
		rightID := b.visit(t.Right)
		id := b.add(ShapeHexagon, "⨝["+t.Condition+"]")
		b.edges = append(b.edges, GraphEdge{From: id, To: leftID, Label: "left"})
		b.edges = append(b.edges, GraphEdge{From: id, To: rightID, Label: "right"})
		return id

	case *algebra.CrossProduct:
		leftID := b.visit(t.Left)
		rightID := b.visit(t.Right)
		id := b.add(ShapeHexagon, "×")
		b.edges = append(b.edges, GraphEdge{From: id, To: leftID, Label: "left"})
		b.edges = append(b.edges, GraphEdge{From: id, To: rightID, Label: "right"})
		return id
	}
	return ""
}

// Mermaid renders g as a Mermaid flowchart definition, the format the CLI
// and editor glue consume downstream.
func Mermaid(g *Graph) string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	for _, n := range g.Nodes {
		open, close := "(", ")"
		if n.Shape == ShapeHexagon {
			open, close = "{{", "}}"
		}
		fmt.Fprintf(&b, "  %s%s%q%s\n", n.ID, open, n.Label, close)
	}
	for _, e := range g.Edges {
		if e.Label != "" {
			fmt.Fprintf(&b, "  %s -->|%s| %s\n", e.From, e.Label, e.To)
		} else {
			fmt.Fprintf(&b, "  %s --> %s\n", e.From, e.To)
		}
	}
	return b.String()
}
