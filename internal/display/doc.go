// Package display is the layout core: it converts an annotated snippet into
// an ordered sequence of abstract display lines ready for textual rendering.
//
// # Pipeline
//
// Build applies two components in sequence:
//
//   - the header formatter derives up to two RawLine entries from the
//     snippet's designated title and main annotations;
//   - the body layout engine materializes source lines, classifies every
//     (annotation, line) pair into one of five geometric relations, attaches
//     margin marks and inserts caption lines, folds long unannotated runs,
//     and brackets the result with one EmptySourceLine on each side.
//
// Placement is two-phase: a classification pass accumulates per-line actions
// (marks to attach, captions to insert) while the pending annotation set is
// consumed, then a materialization pass builds the flat sequence. Single-line
// annotations are consumed as soon as their caption is placed; multi-line
// annotations stay pending until the line their range ends on.
//
// # Output contract
//
// The Line variant set (RawLine, EmptySourceLine, SourceLine, AnnotationLine,
// FoldLine) is closed; renderers such as internal/displayfmt must handle all
// five and will never see another. In the body, captions and fold markers
// never precede the first source line or follow the last one.
//
// Build has no error path: optional inputs degrade to defined defaults, and
// logically inconsistent annotations are rejected earlier by
// snippet.Validate.
package display
