package rewrite

import (
	"sort"

	"github.com/freeeve/qalgebra/algebra"
)

// pushDownSelections implements SPEC_FULL.md §4.9.1.
func pushDownSelections(n algebra.Node) (algebra.Node, []string) {
	switch t := n.(type) {
	case *algebra.Selection:
		newInput, applied := pushDownSelections(t.Input)
		switch inner := newInput.(type) {
		case *algebra.Projection:
			extended := extendAttrs(inner.Attributes, qualifiedTokens(t.Condition))
			applied = append(applied, "Push selection through projection")
			return &algebra.Projection{
				Attributes: extended,
				Input:      &algebra.Selection{Condition: t.Condition, Input: inner.Input},
				Alias:      inner.Alias,
			}, applied
		case *algebra.Join:
			left, right, remaining, pushApplied := splitAndPush(t.Condition, inner.Left, inner.Right)
			applied = append(applied, pushApplied...)
			return wrapRemaining(&algebra.Join{Condition: inner.Condition, Left: left, Right: right}, remaining), applied
		case *algebra.CrossProduct:
			left, right, remaining, pushApplied := splitAndPush(t.Condition, inner.Left, inner.Right)
			applied = append(applied, pushApplied...)
			return wrapRemaining(&algebra.CrossProduct{Left: left, Right: right}, remaining), applied
		default:
			return &algebra.Selection{Condition: t.Condition, Input: newInput}, applied
		}
	case *algebra.Projection:
		input, applied := pushDownSelections(t.Input)
		return &algebra.Projection{Attributes: t.Attributes, Input: input, Alias: t.Alias}, applied
	case *algebra.Join:
		left, la := pushDownSelections(t.Left)
		right, ra := pushDownSelections(t.Right)
		return &algebra.Join{Condition: t.Condition, Left: left, Right: right}, append(la, ra...)
	case *algebra.CrossProduct:
		left, la := pushDownSelections(t.Left)
		right, ra := pushDownSelections(t.Right)
		return &algebra.CrossProduct{Left: left, Right: right}, append(la, ra...)
	default:
		return n, nil
	}
}

// splitAndPush decomposes cond at top-level AND and pushes each predicate
// that refers only to left's or only to right's relations down to that
// side, re-running the whole pass on the pushed subtree. Predicates
// referencing both sides, or neither side syntactically, are returned in
// remaining for the caller to keep above the join/cross product.
func splitAndPush(cond string, left, right algebra.Node) (newLeft, newRight algebra.Node, remaining []string, applied []string) {
	leftNames := algebra.RelationNames(left)
	rightNames := algebra.RelationNames(right)

	var leftPreds, rightPreds []string
	for _, p := range splitTopLevelAnd(cond) {
		refs := referencedRelations(p)
		switch {
		case subsetOf(refs, leftNames):
			leftPreds = append(leftPreds, p)
		case subsetOf(refs, rightNames):
			rightPreds = append(rightPreds, p)
		default:
			remaining = append(remaining, p)
		}
	}

	newLeft, newRight = left, right
	if len(leftPreds) > 0 {
		wrapped := &algebra.Selection{Condition: joinAnd(leftPreds), Input: left}
		var a2 []string
		newLeft, a2 = pushDownSelections(wrapped)
		applied = append(applied, a2...)
		applied = append(applied, "Push selection down to left side of join/cross product")
	}
	if len(rightPreds) > 0 {
		wrapped := &algebra.Selection{Condition: joinAnd(rightPreds), Input: right}
		var a2 []string
		newRight, a2 = pushDownSelections(wrapped)
		applied = append(applied, a2...)
		applied = append(applied, "Push selection down to right side of join/cross product")
	}
	return newLeft, newRight, remaining, applied
}

func wrapRemaining(node algebra.Node, remaining []string) algebra.Node {
	if len(remaining) == 0 {
		return node
	}
	return &algebra.Selection{Condition: joinAnd(remaining), Input: node}
}

// pushDownProjections implements SPEC_FULL.md §4.9.2.
func pushDownProjections(n algebra.Node) (algebra.Node, []string) {
	switch t := n.(type) {
	case *algebra.Projection:
		newInput, applied := pushDownProjections(t.Input)
		switch inner := newInput.(type) {
		case *algebra.Projection:
			applied = append(applied, "Combine consecutive projections")
			return &algebra.Projection{Attributes: t.Attributes, Input: inner.Input, Alias: inner.Alias}, applied
		case *algebra.Join:
			if algebra.IsWildcard(t.Attributes) {
				return &algebra.Projection{Attributes: t.Attributes, Input: inner, Alias: t.Alias}, applied
			}
			needed := map[string]bool{}
			for _, tok := range qualifiedTokensInList(t.Attributes) {
				needed[tok] = true
			}
			for _, tok := range qualifiedTokens(inner.Condition) {
				needed[tok] = true
			}
			leftNames := algebra.RelationNames(inner.Left)
			rightNames := algebra.RelationNames(inner.Right)
			var leftAttrs, rightAttrs []string
			for tok := range needed {
				q := qualifierOf(tok)
				switch {
				case leftNames[lower(q)]:
					leftAttrs = append(leftAttrs, tok)
				case rightNames[lower(q)]:
					rightAttrs = append(rightAttrs, tok)
				}
			}
			sort.Strings(leftAttrs)
			sort.Strings(rightAttrs)
			newLeft := applySideProjection(inner.Left, leftAttrs, &applied)
			newRight := applySideProjection(inner.Right, rightAttrs, &applied)
			return &algebra.Projection{
				Attributes: t.Attributes,
				Input:      &algebra.Join{Condition: inner.Condition, Left: newLeft, Right: newRight},
				Alias:      t.Alias,
			}, applied
		default:
			return &algebra.Projection{Attributes: t.Attributes, Input: newInput, Alias: t.Alias}, applied
		}
	case *algebra.Selection:
		input, applied := pushDownProjections(t.Input)
		return &algebra.Selection{Condition: t.Condition, Input: input}, applied
	case *algebra.Join:
		left, la := pushDownProjections(t.Left)
		right, ra := pushDownProjections(t.Right)
		return &algebra.Join{Condition: t.Condition, Left: left, Right: right}, append(la, ra...)
	case *algebra.CrossProduct:
		left, la := pushDownProjections(t.Left)
		right, ra := pushDownProjections(t.Right)
		return &algebra.CrossProduct{Left: left, Right: right}, append(la, ra...)
	default:
		return n, nil
	}
}

func applySideProjection(side algebra.Node, attrs []string, applied *[]string) algebra.Node {
	if len(attrs) == 0 {
		return side
	}
	if proj, ok := side.(*algebra.Projection); ok {
		extended := extendAttrs(proj.Attributes, attrs)
		*applied = append(*applied, "Extend existing projection with required join attributes")
		return &algebra.Projection{Attributes: extended, Input: proj.Input, Alias: proj.Alias}
	}
	*applied = append(*applied, "Push projection down to join operand")
	return &algebra.Projection{Attributes: attrs, Input: side}
}

func qualifiedTokensInList(attrs []string) []string {
	var out []string
	for _, a := range attrs {
		out = append(out, qualifiedTokens(a)...)
	}
	return out
}

func lower(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// mostRestrictiveFirst implements SPEC_FULL.md §4.9.3.
func mostRestrictiveFirst(n algebra.Node) (algebra.Node, []string) {
	switch t := n.(type) {
	case *algebra.Selection:
		chain, base := collectSelectionChain(t)
		newBase, applied := mostRestrictiveFirst(base)
		if len(chain) > 1 {
			var bubbleApplied []string
			chain, bubbleApplied = bubbleSwapOnce(chain)
			applied = append(applied, bubbleApplied...)
		}
		result := newBase
		for i := len(chain) - 1; i >= 0; i-- {
			result = &algebra.Selection{Condition: chain[i], Input: result}
		}
		return result, applied
	case *algebra.Projection:
		input, applied := mostRestrictiveFirst(t.Input)
		return &algebra.Projection{Attributes: t.Attributes, Input: input, Alias: t.Alias}, applied
	case *algebra.Join:
		left, la := mostRestrictiveFirst(t.Left)
		right, ra := mostRestrictiveFirst(t.Right)
		return &algebra.Join{Condition: t.Condition, Left: left, Right: right}, append(la, ra...)
	case *algebra.CrossProduct:
		left, la := mostRestrictiveFirst(t.Left)
		right, ra := mostRestrictiveFirst(t.Right)
		return &algebra.CrossProduct{Left: left, Right: right}, append(la, ra...)
	default:
		return n, nil
	}
}

func collectSelectionChain(n *algebra.Selection) ([]string, algebra.Node) {
	var chain []string
	var cur algebra.Node = n
	for {
		sel, ok := cur.(*algebra.Selection)
		if !ok {
			break
		}
		chain = append(chain, sel.Condition)
		cur = sel.Input
	}
	return chain, cur
}

// bubbleSwapOnce performs a single left-to-right adjacent-swap pass over
// chain, ordered outer-to-inner, swapping c[i] and c[i+1] whenever c[i] is
// strictly more restrictive (lower score) than c[i+1].
func bubbleSwapOnce(chain []string) ([]string, []string) {
	out := append([]string{}, chain...)
	var applied []string
	for i := 0; i < len(out)-1; i++ {
		if restrictivenessScore(out[i]) < restrictivenessScore(out[i+1]) {
			out[i], out[i+1] = out[i+1], out[i]
			applied = append(applied, "Swap selections for most-restrictive-first ordering")
		}
	}
	return out, applied
}

// avoidCartesianProduct implements SPEC_FULL.md §4.9.4.
func avoidCartesianProduct(n algebra.Node) (algebra.Node, []string) {
	switch t := n.(type) {
	case *algebra.Selection:
		newInput, applied := avoidCartesianProduct(t.Input)
		if cross, ok := newInput.(*algebra.CrossProduct); ok {
			leftNames := algebra.RelationNames(cross.Left)
			rightNames := algebra.RelationNames(cross.Right)
			refs := referencedRelations(t.Condition)
			if intersects(refs, leftNames) && intersects(refs, rightNames) {
				applied = append(applied, "Convert Cartesian product to join")
				return &algebra.Join{Condition: t.Condition, Left: cross.Left, Right: cross.Right}, applied
			}
		}
		return &algebra.Selection{Condition: t.Condition, Input: newInput}, applied
	case *algebra.Projection:
		input, applied := avoidCartesianProduct(t.Input)
		return &algebra.Projection{Attributes: t.Attributes, Input: input, Alias: t.Alias}, applied
	case *algebra.Join:
		left, la := avoidCartesianProduct(t.Left)
		right, ra := avoidCartesianProduct(t.Right)
		return &algebra.Join{Condition: t.Condition, Left: left, Right: right}, append(la, ra...)
	case *algebra.CrossProduct:
		left, la := avoidCartesianProduct(t.Left)
		right, ra := avoidCartesianProduct(t.Right)
		return &algebra.CrossProduct{Left: left, Right: right}, append(la, ra...)
	default:
		return n, nil
	}
}
