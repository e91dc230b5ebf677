package rewrite

import (
	"strings"

	"github.com/freeeve/qalgebra/algebra"
)

// splitTopLevelAnd splits cond at top-level AND into predicates, stripping
// redundant outer parentheses first and recursing so that
// (((A AND B) AND C) AND D) yields four predicates. Grounded on
// SPEC_FULL.md §4.9.1 step 1.
func splitTopLevelAnd(cond string) []string {
	cond = stripRedundantParens(strings.TrimSpace(cond))
	parts := splitAtDepthZero(cond, " AND ")
	if len(parts) == 1 {
		return []string{cond}
	}
	var out []string
	for _, p := range parts {
		out = append(out, splitTopLevelAnd(p)...)
	}
	return out
}

// stripRedundantParens removes one or more layers of parentheses that
// enclose the whole string.
func stripRedundantParens(s string) string {
	for strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		depth := 0
		wholeString := true
		for i := 0; i < len(s); i++ {
			switch s[i] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 && i != len(s)-1 {
					wholeString = false
				}
			}
		}
		if !wholeString {
			return s
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// splitAtDepthZero splits s on sep, ignoring any occurrence of sep nested
// inside parentheses.
func splitAtDepthZero(s, sep string) []string {
	var parts []string
	depth := 0
	last := 0
	i := 0
	for i < len(s) {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && strings.HasPrefix(s[i:], sep) {
			parts = append(parts, strings.TrimSpace(s[last:i]))
			i += len(sep)
			last = i
			continue
		}
		i++
	}
	parts = append(parts, strings.TrimSpace(s[last:]))
	return parts
}

// topLevelCount reports how many top-level occurrences of sep appear in s
// once redundant outer parentheses are stripped.
func topLevelCount(s, sep string) int {
	return len(splitAtDepthZero(stripRedundantParens(s), sep)) - 1
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// qualifiedTokens scans cond for tokens of the form relation.column (ASCII
// identifier, ".", ASCII identifier), returning them in first-seen order
// with duplicates removed.
func qualifiedTokens(cond string) []string {
	var out []string
	seen := map[string]bool{}
	i := 0
	for i < len(cond) {
		if !isIdentStart(cond[i]) {
			i++
			continue
		}
		start := i
		for i < len(cond) && isIdentByte(cond[i]) {
			i++
		}
		if i < len(cond) && cond[i] == '.' && i+1 < len(cond) && isIdentStart(cond[i+1]) {
			i++
			for i < len(cond) && isIdentByte(cond[i]) {
				i++
			}
			tok := cond[start:i]
			if !seen[tok] {
				seen[tok] = true
				out = append(out, tok)
			}
		}
	}
	return out
}

// qualifierOf returns the portion of a relation.column token before the dot.
func qualifierOf(token string) string {
	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			return token[:i]
		}
	}
	return token
}

// referencedRelations returns the lowercased set of qualifiers referenced
// by relation.column tokens in cond.
func referencedRelations(cond string) map[string]bool {
	out := map[string]bool{}
	for _, tok := range qualifiedTokens(cond) {
		out[strings.ToLower(qualifierOf(tok))] = true
	}
	return out
}

// subsetOf reports whether every key of a is present in b. An empty a is
// treated as NOT a subset for push-down purposes: a predicate referencing
// no qualified columns at all belongs to neither side.
func subsetOf(a, b map[string]bool) bool {
	if len(a) == 0 {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// intersects reports whether a and b share at least one key.
func intersects(a, b map[string]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}

func joinAnd(predicates []string) string {
	return strings.Join(predicates, " AND ")
}

// restrictivenessScore implements the fixed heuristic of SPEC_FULL.md
// §4.9.3. Lower is more restrictive.
func restrictivenessScore(cond string) float64 {
	score := 1.0
	if strings.Contains(cond, "=") || strings.Contains(cond, "!=") || strings.Contains(cond, "<>") {
		score *= 0.1
	}
	if strings.Contains(cond, "<") || strings.Contains(cond, ">") || strings.Contains(cond, "<=") || strings.Contains(cond, ">=") {
		score *= 0.3
	}
	ands := topLevelCount(cond, " AND ")
	ors := topLevelCount(cond, " OR ")
	for i := 0; i < ands; i++ {
		score *= 0.5
	}
	for i := 0; i < ors; i++ {
		score *= 1.5
	}
	return score
}

// extendAttrs appends entries from found that are not already present in
// existing, case-insensitively, preserving existing's order. A wildcard
// attribute list is returned unchanged since it already covers everything.
func extendAttrs(existing []string, found []string) []string {
	if algebra.IsWildcard(existing) {
		return existing
	}
	have := map[string]bool{}
	for _, a := range existing {
		have[strings.ToLower(a)] = true
	}
	out := append([]string{}, existing...)
	for _, f := range found {
		key := strings.ToLower(f)
		if !have[key] {
			have[key] = true
			out = append(out, f)
		}
	}
	return out
}
