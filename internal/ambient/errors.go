// Package ambient holds the non-domain plumbing every component here
// shares: error annotation, structured logging, and CLI configuration
// layering (SPEC_FULL.md §10). None of it is specific to SQL parsing; it
// exists so the domain packages don't each hand-roll their own version.
package ambient

import "github.com/juju/errors"

// Stage names a pipeline phase, used to annotate errors crossing its
// boundary so a caller can tell where in the pipeline something failed
// without losing the underlying cause.
type Stage string

const (
	StageLex        Stage = "lex"
	StageParse      Stage = "parse"
	StageValidate   Stage = "validate"
	StageTranslate  Stage = "translate"
	StageSchemaLoad Stage = "schema-load"
)

// Wrap annotates err with stage context, preserving the original error for
// errors.Cause. Returns nil if err is nil, so callers can write
// `return ambient.Wrap(StageParse, err)` unconditionally.
func Wrap(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return errors.Annotatef(err, "%s", stage)
}

// Newf constructs a stage-annotated error from a format string, the
// juju/errors equivalent of fmt.Errorf with no underlying cause to wrap.
func Newf(stage Stage, format string, args ...any) error {
	return errors.Annotatef(errors.Errorf(format, args...), "%s", stage)
}

// Cause unwraps err to the original error juju/errors annotated, or err
// itself if it was never annotated.
func Cause(err error) error {
	return errors.Cause(err)
}
