// Package testhelper holds small test-only utilities shared across package
// test files, grounded on SPEC_FULL.md §10.4's promotion of
// github.com/kr/pretty from the teacher's indirect dependency to direct:
// readable structural diffs of nested struct literals, rather than
// reflect.DeepEqual's opaque failure messages.
package testhelper

import "github.com/kr/pretty"

// Diff renders got and want as newline-terminated lines describing the
// fields that differ, joined into one string ("" when they are equal),
// suitable for t.Errorf("%s", testhelper.Diff(...)).
func Diff(got, want any) string {
	var out []byte
	for _, line := range pretty.Diff(got, want) {
		out = append(out, line...)
		out = append(out, '\n')
	}
	return string(out)
}
